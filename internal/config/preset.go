package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

var argumentsType = reflect.TypeOf(Arguments{})

// ApplyPreset overlays a recipe preset YAML file onto the arguments.
// Precedence is handled by the caller: presets are applied after defaults
// and before explicit flags re-parse, so flags win over presets and presets
// win over defaults. Unknown keys in the preset are an error; a typo in a
// preset should not silently train the wrong model.
func (a *Arguments) ApplyPreset(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read preset file: %w", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(a); err != nil {
		return fmt.Errorf("cannot parse preset file %s: %w", path, err)
	}
	return nil
}
