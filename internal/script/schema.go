package script

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

// ErrInvalidScript is returned when a JSON script does not match
// script.schema.json.
var ErrInvalidScript = errors.New("script does not match schema")

//go:embed script.schema.json
var schemaJSON []byte

var scriptSchema = gojsonschema.NewBytesLoader(schemaJSON)

// checkSchema validates a JSON script document before it is decoded.
func checkSchema(data []byte) error {
	result, err := gojsonschema.Validate(scriptSchema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidScript, strings.Join(msgs, "; "))
}
