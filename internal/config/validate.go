package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field-level constraint plus the cross-field rules
// that need no catalog. Rules which require resolved tensor maps (label
// weight arity, bottleneck coverage) live in the resolve package.
func (a *Arguments) Validate() error {
	if err := validate.Struct(a); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed '%s' check (value: %v)", yamlName(fe.StructField()), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid arguments:\n- %s", strings.Join(msgs, "\n- "))
	}

	// ReduceLROnPlateau fires when patience epochs pass without improvement;
	// a cyclical schedule would fight it. Patience must outlast training.
	if a.LearningRateSchedule != "" && a.Patience < a.Epochs {
		return fmt.Errorf("learning_rate_schedule '%s' is not compatible with plateau-based patience; set patience > epochs", a.LearningRateSchedule)
	}

	if !sort.Float64sAreSorted(a.ContinuousFileDiscretizationBounds) {
		return fmt.Errorf("continuous_file_discretization_bounds must be ascending")
	}

	for _, p := range a.UConnect {
		if p.In == "" || p.Out == "" {
			return fmt.Errorf("u_connect requires two tensor map names, got '%s,%s'", p.In, p.Out)
		}
	}
	for _, p := range a.Pairs {
		if p.In == "" || p.Out == "" {
			return fmt.Errorf("pairs requires two tensor map names, got '%s,%s'", p.In, p.Out)
		}
	}

	if a.ContinuousFile != "" && len(a.ContinuousFileColumns) == 0 {
		return fmt.Errorf("continuous_file is set but continuous_file_columns is empty")
	}
	if a.CategoricalFile != "" && len(a.CategoricalFileColumns) == 0 {
		return fmt.Errorf("categorical_file is set but categorical_file_columns is empty")
	}

	return nil
}

// yamlName maps a Go struct field name back to its flag/preset spelling so
// error messages match what the user typed.
func yamlName(structField string) string {
	field, ok := argumentsType.FieldByName(structField)
	if !ok {
		return structField
	}
	tag := field.Tag.Get("yaml")
	if tag == "" || tag == "-" {
		return structField
	}
	return strings.Split(tag, ",")[0]
}
