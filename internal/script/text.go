package script

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/metcalfc/talkbox/internal/dialogue"
)

// TextFormat implements Format for plain text scripts:
//
//	# Cave                  names the next conversation
//	Watch out!              a plain fragment
//	You found a             first segment of a composite fragment
//	  fireball              continuation lines are indented
//	  !
//	                        a blank line ends the conversation
//
// It is also the fallback for unknown extensions.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Load(filename string) ([]Conversation, error) {
	return readFile(filename, f)
}

func (f *TextFormat) Parse(data []byte) ([]Conversation, error) {
	var (
		convs []Conversation
		cur   Conversation
		parts []string
	)

	flushEntry := func() {
		if e, ok := entryFromParts(parts); ok {
			cur.Lines = append(cur.Lines, e)
		}
		parts = nil
	}
	flushConversation := func() {
		flushEntry()
		if len(cur.Lines) > 0 {
			convs = append(convs, cur)
		}
		cur = Conversation{}
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			if len(cur.Lines) > 0 || len(parts) > 0 {
				flushConversation()
			}
		case strings.HasPrefix(trimmed, "#"):
			flushConversation()
			cur.Name = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		case isContinuation(line) && len(parts) > 0:
			parts = append(parts, trimmed)
		default:
			flushEntry()
			parts = []string{trimmed}
		}
	}
	flushConversation()

	return convs, scanner.Err()
}

func isContinuation(line string) bool {
	return strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "  ")
}

// linesOf is a small helper for building a script from plain strings.
func linesOf(texts ...string) dialogue.Script {
	s := make(dialogue.Script, 0, len(texts))
	for _, t := range texts {
		s = append(s, dialogue.Line(t))
	}
	return s
}
