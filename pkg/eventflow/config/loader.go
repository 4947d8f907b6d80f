package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads bus configuration from a file, detecting the format by
// extension. Supported extensions: .yaml, .yml, .json.
func FromFile(path string) (Bus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bus{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Bus{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML into a Bus config. Unknown keys are an error so
// a typo in a tuning file surfaces instead of being silently ignored.
// An empty document yields the zero config.
func FromYAML(data []byte) (Bus, error) {
	var c Bus
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return Bus{}, nil
		}
		return Bus{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Bus{}, err
	}
	return c, nil
}

// FromJSON parses JSON into a Bus config. Unknown keys are an error.
func FromJSON(data []byte) (Bus, error) {
	var c Bus
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Bus{}, fmt.Errorf("parse json: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Bus{}, err
	}
	return c, nil
}
