// Package attributes describes which element attributes the information
// overlay shows and how.
//
// A [Configuration] holds one [Set] per element family (cores, routers,
// channels). A Set maps attribute keys such as "@temperature" to exactly one
// [Field] variant:
//
//   - [Text]: "<label>: <value>" as plain text.
//   - [Fill]: no text; the element is filled with the bucketed colour.
//   - [ColouredText]: "<label>: <value>" in the bucketed colour.
//   - [Routing]: request a routing pass (channel set, "@routingAlgorithm").
//   - [Boolean]: toggle auxiliary rendering (channel set, "@borderRouters").
//
// Sets are consumed in ascending key order (see [Set.Keys]), which fixes the
// vertical order of the rendered text lines.
package attributes

import (
	"maps"
	"slices"

	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/bucket"
)

// Kind names a field variant in serialized configurations.
type Kind string

const (
	KindText         Kind = "text"
	KindFill         Kind = "fill"
	KindColouredText Kind = "colouredText"
	KindRouting      Kind = "routing"
	KindBoolean      Kind = "boolean"
)

// Field is one configured attribute. The set of implementations is closed.
type Field interface {
	Kind() Kind
	field()
}

// Text renders "<Label>: <value>".
type Text struct {
	Label string
}

// Fill colours the element by the bucket of its numeric value.
type Fill struct {
	Bounds  bucket.Bounds
	Colours bucket.Colours
}

// ColouredText renders "<Label>: <value>" in the bucket colour of the value.
type ColouredText struct {
	Label   string
	Bounds  bucket.Bounds
	Colours bucket.Colours
}

// Routing requests that link loads be computed with Algorithm.
type Routing struct {
	Algorithm string
}

// Boolean is an on/off switch.
type Boolean struct {
	Value bool
}

func (Text) Kind() Kind         { return KindText }
func (Fill) Kind() Kind         { return KindFill }
func (ColouredText) Kind() Kind { return KindColouredText }
func (Routing) Kind() Kind      { return KindRouting }
func (Boolean) Kind() Kind      { return KindBoolean }

func (Text) field()         {}
func (Fill) field()         {}
func (ColouredText) field() {}
func (Routing) field()      {}
func (Boolean) field()      {}

// Set maps attribute keys to their field configuration.
type Set map[string]Field

// Keys returns the configured keys in ascending order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Configuration is the full overlay configuration of a document.
type Configuration struct {
	Core    Set
	Router  Set
	Channel Set
}

// IsEmpty reports whether nothing at all is configured. Directive keys
// count: a channel set holding only a routing request is not empty.
func (c *Configuration) IsEmpty() bool {
	return c == nil || (len(c.Core) == 0 && len(c.Router) == 0 && len(c.Channel) == 0)
}

// Len returns the number of configured keys across all families.
func (c *Configuration) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Core) + len(c.Router) + len(c.Channel)
}

// RoutingAlgorithm returns the algorithm of the channel routing directive.
// A directive key holding any other variant is ignored.
func (c *Configuration) RoutingAlgorithm() (string, bool) {
	if c == nil {
		return "", false
	}
	if r, ok := c.Channel[manycore.RoutingKey].(Routing); ok {
		return r.Algorithm, true
	}
	return "", false
}

// ShowBorders reports whether the border routers (sinks and sources) are
// switched on.
func (c *Configuration) ShowBorders() bool {
	if c == nil {
		return false
	}
	b, ok := c.Channel[manycore.BorderRoutersKey].(Boolean)
	return ok && b.Value
}

// IsDirective reports whether key is consumed by the document itself rather
// than rendered per element.
func IsDirective(key string) bool {
	return key == manycore.RoutingKey || key == manycore.BorderRoutersKey
}
