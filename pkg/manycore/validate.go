package manycore

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/meshview/pkg/errors"
)

// validate is a singleton validator instance.
var validate = validator.New()

// Validate checks the structural constraints of a description: grid
// dimensions, contiguous core ids, unique channel directions and border
// references. It does not compare the core count with the grid size; that
// is a composition error reported by the grid composer.
func (s *System) Validate() error {
	if s == nil {
		return errors.New(errors.ErrCodeInvalidInput, "architecture description cannot be nil")
	}
	if err := validate.Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, formatValidationError(err), "invalid architecture description")
	}

	for i := range s.Cores {
		c := &s.Cores[i]
		if c.ID != i {
			return errors.New(errors.ErrCodeInvalidInput, "core at position %d has id %d; ids must be contiguous and ordered", i, c.ID)
		}
		var seen LinkSet
		for _, ch := range c.Channels {
			if int(ch.Direction) >= len(AllDirections) {
				return errors.New(errors.ErrCodeInvalidInput, "core %d has a channel with invalid direction %d", c.ID, ch.Direction)
			}
			if seen.Has(ch.Direction) {
				return errors.New(errors.ErrCodeInvalidInput, "core %d declares the %s channel twice", c.ID, ch.Direction)
			}
			seen = seen.Add(ch.Direction)
		}
	}

	for _, b := range s.Borders {
		if b.Core >= len(s.Cores) {
			return errors.New(errors.ErrCodeInvalidInput, "border entry references missing core %d", b.Core)
		}
	}
	return nil
}

// formatValidationError returns the first validation failure in a
// user-friendly form.
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
