package commerce

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	perr "purchaseinbox/internal/platform/errors"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schemas    map[Source]*jsonschema.Schema
	schemaErr  error
)

func loadSchemas() (map[Source]*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		out := make(map[Source]*jsonschema.Schema, 3)
		for _, src := range []Source{SourceShopify, SourceWooCommerce, SourceGeneric} {
			b, err := schemaFS.ReadFile("schemas/" + string(src) + ".json")
			if err != nil {
				schemaErr = err
				return
			}
			c := jsonschema.NewCompiler()
			c.Draft = jsonschema.Draft2020
			url := fmt.Sprintf("https://purchaseinbox.local/schemas/%s.json", src)
			if err := c.AddResource(url, bytes.NewReader(b)); err != nil {
				schemaErr = fmt.Errorf("commerce: load %s schema: %w", src, err)
				return
			}
			s, err := c.Compile(url)
			if err != nil {
				schemaErr = fmt.Errorf("commerce: compile %s schema: %w", src, err)
				return
			}
			out[src] = s
		}
		schemas = out
	})
	return schemas, schemaErr
}

// validatePayload checks payload against the source schema
// malformed JSON maps to ErrorCodeJSON, shape errors to ErrorCodeValidation with the instance pointer as field
func validatePayload(src Source, payload []byte) error {
	all, err := loadSchemas()
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "commerce: schemas unavailable")
	}
	s, ok := all[src]
	if !ok {
		return nil
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return perr.JSONErrf("empty payload")
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "malformed json payload")
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			field := strings.TrimPrefix(leaf.InstanceLocation, "/")
			return perr.WithField(perr.Validationf("%s payload: %s", src, leaf.Message), field)
		}
		return perr.Wrap(err, perr.ErrorCodeValidation, "payload failed schema validation")
	}
	return nil
}

// deepest follows the first cause chain to the most specific failure
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
