package manycore

import (
	"strconv"
	"strings"
)

// Reserved configuration keys. They never name a plain element attribute.
const (
	IDKey            = "@id"
	CoordinatesKey   = "@coordinates"
	RoutingKey       = "@routingAlgorithm"
	BorderRoutersKey = "@borderRouters"
	LoadKey          = "@load"
	AllocatedTaskKey = "@allocatedTask"
)

// Element variants, used as the prefix of SVG element ids ("core3", "router3").
const (
	VariantCore    = "core"
	VariantRouter  = "router"
	VariantChannel = "channel"
)

// System is a parsed many-core architecture description.
type System struct {
	Rows    int           `json:"rows" yaml:"rows" toml:"rows" validate:"min=1,max=255"`
	Columns int           `json:"columns" yaml:"columns" toml:"columns" validate:"min=1,max=255"`
	Cores   []Core        `json:"cores" yaml:"cores" toml:"cores" validate:"required,dive"`
	Borders []BorderEntry `json:"borders,omitempty" yaml:"borders,omitempty" toml:"borders,omitempty" validate:"dive"`

	// Routing holds precomputed link loads per routing algorithm.
	Routing map[string][]RouteEntry `json:"routing,omitempty" yaml:"routing,omitempty" toml:"routing,omitempty" validate:"dive,dive"`
}

// Core is a processing element together with its router and channels.
type Core struct {
	ID            int               `json:"id" yaml:"id" toml:"id" validate:"min=0"`
	AllocatedTask *uint16           `json:"allocatedTask,omitempty" yaml:"allocatedTask,omitempty" toml:"allocatedTask,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
	Router        Router            `json:"router" yaml:"router" toml:"router"`
	Channels      []Channel         `json:"channels,omitempty" yaml:"channels,omitempty" toml:"channels,omitempty" validate:"max=4,dive"`
}

// Router is the mesh router attached to a core. It shares the core's id.
type Router struct {
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Channel is a port of a core's router. Load is the traffic leaving on its
// outgoing lane; SourceLoad is the traffic a border source feeds into its
// incoming lane.
type Channel struct {
	Direction  Direction         `json:"direction" yaml:"direction" toml:"direction"`
	Bandwidth  uint32            `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty" toml:"bandwidth,omitempty"`
	Load       uint32            `json:"load,omitempty" yaml:"load,omitempty" toml:"load,omitempty"`
	SourceLoad uint32            `json:"sourceLoad,omitempty" yaml:"sourceLoad,omitempty" toml:"sourceLoad,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// BorderEntry lists the sinks and sources attached to a border core.
type BorderEntry struct {
	Core    int         `json:"core" yaml:"core" toml:"core" validate:"min=0"`
	Sinks   []Direction `json:"sinks,omitempty" yaml:"sinks,omitempty" toml:"sinks,omitempty"`
	Sources []Direction `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
}

// Element is anything the information overlay can annotate.
type Element interface {
	// ElementID is the identity rendered for the "@id" key and used in CSS selectors.
	ElementID() int
	// Variant is the SVG id prefix of the element ("core" or "router").
	Variant() string
	// Attribute returns the raw value of a configured attribute key.
	Attribute(key string) (string, bool)
}

// ElementID implements [Element].
func (c *Core) ElementID() int { return c.ID }

// Variant implements [Element].
func (c *Core) Variant() string { return VariantCore }

// Attribute implements [Element]. The allocated task is exposed as "@allocatedTask".
func (c *Core) Attribute(key string) (string, bool) {
	if key == AllocatedTaskKey {
		if c.AllocatedTask == nil {
			return "", false
		}
		return strconv.FormatUint(uint64(*c.AllocatedTask), 10), true
	}
	return lookup(c.Attributes, key)
}

// Channel returns the core's channel in direction d.
func (c *Core) Channel(d Direction) (*Channel, bool) {
	for i := range c.Channels {
		if c.Channels[i].Direction == d {
			return &c.Channels[i], true
		}
	}
	return nil, false
}

// RouterView is a core's router seen as an [Element].
type RouterView struct {
	core *Core
}

// RouterElement returns the core's router as an [Element].
func (c *Core) RouterElement() RouterView { return RouterView{core: c} }

// ElementID implements [Element]. A router shares its core's id.
func (r RouterView) ElementID() int { return r.core.ID }

// Variant implements [Element].
func (r RouterView) Variant() string { return VariantRouter }

// Attribute implements [Element].
func (r RouterView) Attribute(key string) (string, bool) {
	return lookup(r.core.Router.Attributes, key)
}

// Attribute returns a channel attribute. "@load" and "@bandwidth" resolve to
// the numeric fields.
func (ch *Channel) Attribute(key string) (string, bool) {
	switch key {
	case LoadKey:
		return strconv.FormatUint(uint64(ch.Load), 10), true
	case "@bandwidth":
		if ch.Bandwidth == 0 {
			return "", false
		}
		return strconv.FormatUint(uint64(ch.Bandwidth), 10), true
	}
	return lookup(ch.Attributes, key)
}

// lookup resolves "@name" against a description map keyed by "name".
func lookup(attrs map[string]string, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	v, ok := attrs[strings.TrimPrefix(key, "@")]
	return v, ok
}

// CoreByID returns the core with the given id.
func (s *System) CoreByID(id int) (*Core, bool) {
	if id >= 0 && id < len(s.Cores) && s.Cores[id].ID == id {
		return &s.Cores[id], true
	}
	for i := range s.Cores {
		if s.Cores[i].ID == id {
			return &s.Cores[i], true
		}
	}
	return nil, false
}

// BorderMap indexes the border entries by linear core index.
func (s *System) BorderMap() map[int]BorderEntry {
	m := make(map[int]BorderEntry, len(s.Borders))
	for _, b := range s.Borders {
		m[b.Core] = b
	}
	return m
}

// EdgeDirections returns the off-grid directions of the cell at index, or
// the empty set for interior cells.
func (s *System) EdgeDirections(index int) LinkSet {
	return EdgeDirections(index, s.Rows, s.Columns)
}

// EdgeDirections returns the off-grid directions of the cell at index in a
// rows x columns grid.
func EdgeDirections(index, rows, columns int) LinkSet {
	var set LinkSet
	if columns <= 0 || rows <= 0 {
		return set
	}
	r, c := index/columns, index%columns
	if r == 0 {
		set = set.Add(North)
	}
	if r == rows-1 {
		set = set.Add(South)
	}
	if c == 0 {
		set = set.Add(West)
	}
	if c == columns-1 {
		set = set.Add(East)
	}
	return set
}

// AttributeKeys returns the sorted, de-duplicated attribute keys found on
// cores and routers, as they would appear in a configuration.
func (s *System) AttributeKeys() (core, router []string) {
	coreSet := map[string]struct{}{IDKey: {}, CoordinatesKey: {}}
	routerSet := map[string]struct{}{IDKey: {}}
	for i := range s.Cores {
		c := &s.Cores[i]
		if c.AllocatedTask != nil {
			coreSet[AllocatedTaskKey] = struct{}{}
		}
		for k := range c.Attributes {
			coreSet["@"+k] = struct{}{}
		}
		for k := range c.Router.Attributes {
			routerSet["@"+k] = struct{}{}
		}
	}
	return sortedKeys(coreSet), sortedKeys(routerSet)
}
