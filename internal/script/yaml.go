package script

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/metcalfc/talkbox/internal/dialogue"
)

// document is the keyed form of a script file. The bare form is a single
// list of entries.
type document struct {
	Conversations []Conversation `yaml:"conversations" json:"conversations"`
}

// YAMLFormat implements Format for YAML scripts.
type YAMLFormat struct{}

func init() {
	Register(&YAMLFormat{})
	Register(&JSONFormat{})
}

func (f *YAMLFormat) Name() string         { return "YAML" }
func (f *YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }

func (f *YAMLFormat) Load(filename string) ([]Conversation, error) {
	return readFile(filename, f)
}

// Parse accepts either a list of entries or a mapping with a
// "conversations" key.
func (f *YAMLFormat) Parse(data []byte) ([]Conversation, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}
	node := root.Content[0]

	switch node.Kind {
	case yaml.SequenceNode:
		var lines dialogue.Script
		if err := node.Decode(&lines); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return []Conversation{{Lines: lines}}, nil
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		return doc.Conversations, nil
	default:
		return nil, fmt.Errorf("parse yaml: line %d: expected a list of lines or a conversations mapping", node.Line)
	}
}

// JSONFormat implements Format for JSON scripts, using the same shapes as
// YAMLFormat. Input is checked against script.schema.json first.
type JSONFormat struct{}

func (f *JSONFormat) Name() string         { return "JSON" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }

func (f *JSONFormat) Load(filename string) ([]Conversation, error) {
	return readFile(filename, f)
}

func (f *JSONFormat) Parse(data []byte) ([]Conversation, error) {
	trimmed := bytes.TrimSpace(data)
	if err := checkSchema(trimmed); err != nil {
		return nil, err
	}
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var lines dialogue.Script
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return []Conversation{{Lines: lines}}, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc.Conversations, nil
}
