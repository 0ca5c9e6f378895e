package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

func encode(w io.Writer, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(v)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(v)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// WriteSystem encodes sys to w.
func WriteSystem(sys *manycore.System, w io.Writer, format Format) error {
	return encode(w, format, sys)
}

// ExportSystem writes sys to path in the format of its extension.
func ExportSystem(sys *manycore.System, path string) error {
	return export(path, func(w io.Writer, f Format) error { return WriteSystem(sys, w, f) })
}

// WriteConfiguration encodes cfg to w.
func WriteConfiguration(cfg *attributes.Configuration, w io.Writer, format Format) error {
	return encode(w, format, cfg.Document())
}

// ExportConfiguration writes cfg to path in the format of its extension.
func ExportConfiguration(cfg *attributes.Configuration, path string) error {
	return export(path, func(w io.Writer, f Format) error { return WriteConfiguration(cfg, w, f) })
}

func export(path string, write func(io.Writer, Format) error) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(f, format)
}
