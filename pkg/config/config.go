// Package config pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile decodes the JSON document at path into dst.
func LoadFile(path string, dst interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(dst); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	return nil
}

// ValidateConfig runs validation when cfg implements Validator. Configs
// without one load as-is.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// LoadAndValidate loads the file at path into cfg and validates the result.
func LoadAndValidate(path string, cfg interface{}) error {
	if err := LoadFile(path, cfg); err != nil {
		return err
	}

	return ValidateConfig(cfg)
}
