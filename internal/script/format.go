// Package script loads dialogue scripts from files and stdin.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/metcalfc/talkbox/internal/dialogue"
)

var (
	// ErrEmptyScript is returned when nothing in the input expands to a step.
	ErrEmptyScript = errors.New("script has no dialogue lines")
	// ErrUnsupportedFormat is returned when a format cannot parse raw bytes.
	ErrUnsupportedFormat = errors.New("unsupported script format")
)

// Conversation is one named dialogue session. A file may hold several,
// played in order.
type Conversation struct {
	Name  string          `yaml:"name" json:"name"`
	Lines dialogue.Script `yaml:"lines" json:"lines"`
}

// Format loads conversations from a file.
type Format interface {
	Name() string
	Extensions() []string
	Load(filename string) ([]Conversation, error)
}

// Parser is an optional interface for formats that can read raw bytes,
// which is what stdin input needs.
type Parser interface {
	Parse(data []byte) ([]Conversation, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// lookup returns the format registered for ext, or nil.
func lookup(ext string) Format {
	ext = strings.ToLower(ext)
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// Load reads conversations from filename, using the format registered for
// its extension or plain text as fallback.
func Load(filename string) ([]Conversation, error) {
	f := lookup(filepath.Ext(filename))
	if f == nil {
		f = &TextFormat{}
	}
	convs, err := f.Load(filename)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(filename), err)
	}
	return validate(convs)
}

// Parse reads conversations from raw bytes. ext selects the format (".yaml",
// ".md", ...); when empty the format is guessed from the content.
func Parse(ext string, data []byte) ([]Conversation, error) {
	var f Format
	if ext != "" {
		f = lookup(ext)
	}
	if f == nil {
		f = sniff(data)
	}
	p, ok := f.(Parser)
	if !ok {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrUnsupportedFormat)
	}
	convs, err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	return validate(convs)
}

// sniff guesses a text based format from the first bytes of data.
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")), bytes.HasPrefix(trimmed, []byte("{")):
		return &JSONFormat{}
	case bytes.HasPrefix(trimmed, []byte("- ")), bytes.HasPrefix(trimmed, []byte("---")),
		bytes.HasPrefix(trimmed, []byte("conversations:")):
		return &YAMLFormat{}
	default:
		return &TextFormat{}
	}
}

// validate drops conversations without any reveal step.
func validate(convs []Conversation) ([]Conversation, error) {
	out := convs[:0]
	for _, c := range convs {
		if len(dialogue.Expand(c.Lines)) > 0 {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyScript
	}
	return out, nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

func readFile(filename string, p Parser) ([]Conversation, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(data)
}

// joinSegments trims author segments and restores the single space that
// separated them, except before closing punctuation.
func joinSegments(parts []string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(out) > 0 && !startsWithClosing(p) {
			out[len(out)-1] += " "
		}
		out = append(out, p)
	}
	return out
}

func startsWithClosing(s string) bool {
	for _, r := range s {
		return strings.ContainsRune(".,!?;:)]}…'’", r)
	}
	return false
}

// entryFromParts builds a plain fragment from one part and a composite
// fragment from several.
func entryFromParts(parts []string) (dialogue.Entry, bool) {
	segs := joinSegments(parts)
	switch len(segs) {
	case 0:
		return dialogue.Entry{}, false
	case 1:
		return dialogue.Line(segs[0]), true
	default:
		return dialogue.Composite(segs...), true
	}
}
