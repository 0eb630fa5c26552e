package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://github.com/3leaps/kfetch/schemas/config.schema.json"

//go:embed config.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add embedded config schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Load reads the YAML file at filename into target. Environment variables
// in the file are expanded and the document is checked against the embedded
// JSON schema before decoding. Semantic validation is left to the caller,
// which usually applies flag overrides first.
func Load(filename string, target *Config) error {
	// #nosec G304 -- user supplied config path
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	if err := Decode(data, target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

// Decode is Load for an in-memory document.
func Decode(data []byte, target *Config) error {
	expanded := []byte(os.ExpandEnv(string(data)))

	if err := ValidateSchema(expanded); err != nil {
		return err
	}
	if err := yaml.Unmarshal(expanded, target); err != nil {
		return err
	}
	return nil
}

// ValidateSchema checks a YAML document against the embedded schema.
// An empty document is valid.
func ValidateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("convert config to JSON: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("convert config to JSON: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
