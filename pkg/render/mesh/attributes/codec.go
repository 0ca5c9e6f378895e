package attributes

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/render/mesh/bucket"
)

// validate is a singleton validator instance.
var validate = validator.New()

// FieldSpec is the serialized form of a [Field]:
//
//	{"type": "colouredText", "label": "Load", "bounds": [10, 20, 30, 40], "colours": ["green", "yellow", "orange", "red"]}
//	{"type": "routing", "algorithm": "RowFirst"}
//	{"type": "boolean", "value": true}
type FieldSpec struct {
	Type      Kind     `json:"type" yaml:"type" toml:"type" validate:"required,oneof=text fill colouredText routing boolean"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty" validate:"max=64"`
	Bounds    []uint64 `json:"bounds,omitempty" yaml:"bounds,omitempty" toml:"bounds,omitempty"`
	Colours   []string `json:"colours,omitempty" yaml:"colours,omitempty" toml:"colours,omitempty"`
	Algorithm string   `json:"algorithm,omitempty" yaml:"algorithm,omitempty" toml:"algorithm,omitempty"`
	Value     bool     `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Document is the serialized form of a [Configuration].
type Document struct {
	Core    map[string]FieldSpec `json:"core,omitempty" yaml:"core,omitempty" toml:"core,omitempty" validate:"dive"`
	Router  map[string]FieldSpec `json:"router,omitempty" yaml:"router,omitempty" toml:"router,omitempty" validate:"dive"`
	Channel map[string]FieldSpec `json:"channel,omitempty" yaml:"channel,omitempty" toml:"channel,omitempty" validate:"dive"`
}

// Build validates d and converts it into a [Configuration]. Every failure is
// an INVALID_CONFIGURATION error naming the offending key.
func (d Document) Build() (*Configuration, error) {
	if err := validate.Struct(d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfiguration, formatValidationError(err), "invalid configuration")
	}

	core, err := buildSet("core", d.Core)
	if err != nil {
		return nil, err
	}
	router, err := buildSet("router", d.Router)
	if err != nil {
		return nil, err
	}
	channel, err := buildSet("channel", d.Channel)
	if err != nil {
		return nil, err
	}
	return &Configuration{Core: core, Router: router, Channel: channel}, nil
}

func buildSet(family string, specs map[string]FieldSpec) (Set, error) {
	set := make(Set, len(specs))
	for key, spec := range specs {
		if err := errors.ValidateAttributeKey(key); err != nil {
			return nil, errors.ConfigurationError("%s.%s: %v", family, key, err)
		}
		f, err := spec.Field()
		if err != nil {
			return nil, errors.ConfigurationError("%s.%s: %v", family, key, err)
		}
		set[key] = f
	}
	return set, nil
}

// Field converts the spec into its variant.
func (s FieldSpec) Field() (Field, error) {
	switch s.Type {
	case KindText:
		return Text{Label: s.Label}, nil
	case KindFill:
		b, c, err := s.palette()
		if err != nil {
			return nil, err
		}
		return Fill{Bounds: b, Colours: c}, nil
	case KindColouredText:
		b, c, err := s.palette()
		if err != nil {
			return nil, err
		}
		return ColouredText{Label: s.Label, Bounds: b, Colours: c}, nil
	case KindRouting:
		if err := errors.ValidateAlgorithm(s.Algorithm); err != nil {
			return nil, err
		}
		return Routing{Algorithm: s.Algorithm}, nil
	case KindBoolean:
		return Boolean{Value: s.Value}, nil
	}
	return nil, fmt.Errorf("unknown field type %q", s.Type)
}

func (s FieldSpec) palette() (bucket.Bounds, bucket.Colours, error) {
	var (
		b bucket.Bounds
		c bucket.Colours
	)
	if len(s.Bounds) != bucket.Count {
		return b, c, fmt.Errorf("%s needs exactly %d bounds, got %d", s.Type, bucket.Count, len(s.Bounds))
	}
	if len(s.Colours) != bucket.Count {
		return b, c, fmt.Errorf("%s needs exactly %d colours, got %d", s.Type, bucket.Count, len(s.Colours))
	}
	copy(b[:], s.Bounds)
	copy(c[:], s.Colours)
	if !b.Ascending() {
		return b, c, fmt.Errorf("bounds %v are not ascending", s.Bounds)
	}
	for _, colour := range c {
		if err := errors.ValidateColour(colour); err != nil {
			return b, c, err
		}
	}
	return b, c, nil
}

// Spec converts f back into its serialized form.
func Spec(f Field) FieldSpec {
	switch v := f.(type) {
	case Text:
		return FieldSpec{Type: KindText, Label: v.Label}
	case Fill:
		return FieldSpec{Type: KindFill, Bounds: v.Bounds[:], Colours: v.Colours[:]}
	case ColouredText:
		return FieldSpec{Type: KindColouredText, Label: v.Label, Bounds: v.Bounds[:], Colours: v.Colours[:]}
	case Routing:
		return FieldSpec{Type: KindRouting, Algorithm: v.Algorithm}
	case Boolean:
		return FieldSpec{Type: KindBoolean, Value: v.Value}
	}
	return FieldSpec{}
}

// Document returns the serialized form of c.
func (c *Configuration) Document() Document {
	if c == nil {
		return Document{}
	}
	return Document{Core: specs(c.Core), Router: specs(c.Router), Channel: specs(c.Channel)}
}

func specs(s Set) map[string]FieldSpec {
	if len(s) == 0 {
		return nil
	}
	m := make(map[string]FieldSpec, len(s))
	for k, f := range s {
		m[k] = Spec(f)
	}
	return m
}

// MarshalJSON implements json.Marshaler. Map keys are emitted sorted, so
// equal configurations marshal to equal bytes.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Document())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid configuration JSON")
	}
	built, err := d.Build()
	if err != nil {
		return err
	}
	*c = *built
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
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Namespace())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", e.Namespace(), e.Param())
		case "max":
			return fmt.Errorf("%s: must not exceed %s characters", e.Namespace(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Namespace(), e.Tag())
		}
	}
	return err
}
