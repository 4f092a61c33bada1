// Package dialogue turns author scripts into reveal steps and sequences them
// through a typewriter box in response to player confirm input.
package dialogue

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Entry is one author line: either a plain fragment or a composite fragment
// whose segments are revealed as one growing sentence.
type Entry struct {
	Segments  []string
	Composite bool
}

// Line returns a plain fragment.
func Line(text string) Entry {
	return Entry{Segments: []string{text}}
}

// Composite returns a composite fragment.
func Composite(segments ...string) Entry {
	return Entry{Segments: segments, Composite: true}
}

// Script is an ordered conversation.
type Script []Entry

// Step is a single reveal: the full text once shown and how many leading
// runes are already on screen before the reveal starts.
type Step struct {
	Text    string
	Initial int
}

// Expand flattens a script into reveal steps. Plain fragments become one
// step each. Each non-empty segment of a composite becomes a step whose text
// is the concatenation so far and whose Initial is the rune length of what
// preceded the segment, so earlier text is never typed again.
func Expand(s Script) []Step {
	var steps []Step
	for _, e := range s {
		if !e.Composite {
			text := ""
			if len(e.Segments) > 0 {
				text = e.Segments[0]
			}
			steps = append(steps, Step{Text: text})
			continue
		}

		text := ""
		for _, seg := range e.Segments {
			if seg == "" {
				continue
			}
			steps = append(steps, Step{Text: text + seg, Initial: utf8.RuneCountInString(text)})
			text += seg
		}
	}
	return steps
}

// UnmarshalYAML accepts a scalar (plain fragment) or a sequence of scalars
// (composite fragment).
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*e = Line(s)
		return nil
	case yaml.SequenceNode:
		var segs []string
		if err := node.Decode(&segs); err != nil {
			return err
		}
		*e = Composite(segs...)
		return nil
	default:
		return fmt.Errorf("line %d: dialogue entry must be a string or a list of strings", node.Line)
	}
}

// MarshalYAML writes the author-facing shape.
func (e Entry) MarshalYAML() (any, error) {
	if e.Composite {
		if e.Segments == nil {
			return []string{}, nil
		}
		return e.Segments, nil
	}
	if len(e.Segments) == 0 {
		return "", nil
	}
	return e.Segments[0], nil
}

// UnmarshalJSON accepts a string or an array of strings.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Line(s)
		return nil
	}
	var segs []string
	if err := json.Unmarshal(data, &segs); err != nil {
		return fmt.Errorf("dialogue entry must be a string or an array of strings: %w", err)
	}
	*e = Composite(segs...)
	return nil
}

// MarshalJSON writes the author-facing shape.
func (e Entry) MarshalJSON() ([]byte, error) {
	v, _ := e.MarshalYAML()
	return json.Marshal(v)
}
