package manycore

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/meshview/pkg/errors"
)

// TargetKind distinguishes loads on core-to-core links, on the links that
// feed a border sink, and on the lanes a border source feeds.
type TargetKind uint8

const (
	TargetCore TargetKind = iota
	TargetSink
	TargetSource
)

func (k TargetKind) String() string {
	switch k {
	case TargetSink:
		return "sink"
	case TargetSource:
		return "source"
	}
	return "core"
}

// MarshalText implements encoding.TextMarshaler.
func (k TargetKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TargetKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "core":
		*k = TargetCore
	case "sink":
		*k = TargetSink
	case "source":
		*k = TargetSource
	default:
		return fmt.Errorf("unknown routing target %q", text)
	}
	return nil
}

// RoutingTarget keys a routing result: Core(id), Sink(id) or Source(id).
type RoutingTarget struct {
	Kind TargetKind
	ID   int
}

// CoreTarget returns the routing key for core-bound loads of core id.
func CoreTarget(id int) RoutingTarget { return RoutingTarget{Kind: TargetCore, ID: id} }

// SinkTarget returns the routing key for sink-bound loads of core id.
func SinkTarget(id int) RoutingTarget { return RoutingTarget{Kind: TargetSink, ID: id} }

// SourceTarget returns the routing key for the source loads entering core id.
func SourceTarget(id int) RoutingTarget { return RoutingTarget{Kind: TargetSource, ID: id} }

func (t RoutingTarget) String() string { return fmt.Sprintf("%s(%d)", t.Kind, t.ID) }

// RoutingResult maps each target to the links that carry load.
type RoutingResult map[RoutingTarget]LinkSet

// LoadsFor returns the union of the core-bound and sink-bound loaded links of core id.
func (r RoutingResult) LoadsFor(id int) LinkSet {
	if r == nil {
		return 0
	}
	return r[CoreTarget(id)].Union(r[SinkTarget(id)])
}

// SourcesFor returns the directions of the border sources feeding load into core id.
func (r RoutingResult) SourcesFor(id int) LinkSet {
	if r == nil {
		return 0
	}
	return r[SourceTarget(id)]
}

// RouteEntry is one precomputed link load of a routing table. Source
// entries name the off-grid direction the source sits in.
type RouteEntry struct {
	Target    TargetKind `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	Core      int        `json:"core" yaml:"core" toml:"core" validate:"min=0"`
	Direction Direction  `json:"direction" yaml:"direction" toml:"direction"`
	Load      uint32     `json:"load" yaml:"load" toml:"load"`
}

// Algorithms returns the routing algorithms the description carries tables for.
func (s *System) Algorithms() []string {
	return slices.Sorted(maps.Keys(s.Routing))
}

// routedLoad is a table entry resolved against the system.
type routedLoad struct {
	ch    *Channel
	key   RoutingTarget
	dir   Direction
	load  uint32
	input bool
}

// Route applies the routing table of algorithm to the system: every channel
// load is reset, then the table's loads are accumulated onto the channels it
// names. The returned result lists, per target, the links left with a
// non-zero load.
//
// The whole table is checked before any load changes, so a failing call
// leaves the system as it was.
//
// Route mutates channel loads and must not run concurrently with readers of
// the same System.
func (s *System) Route(algorithm string) (RoutingResult, error) {
	if err := errors.ValidateAlgorithm(algorithm); err != nil {
		return nil, errors.RoutingError(algorithm, err)
	}
	table, ok := s.Routing[algorithm]
	if !ok {
		return nil, errors.RoutingError(algorithm,
			errors.ConfigurationError("unsupported routing algorithm %q (available: %v)", algorithm, s.Algorithms()))
	}
	loads, err := s.resolve(table)
	if err != nil {
		return nil, errors.RoutingError(algorithm, err)
	}

	for i := range s.Cores {
		for j := range s.Cores[i].Channels {
			s.Cores[i].Channels[j].Load = 0
			s.Cores[i].Channels[j].SourceLoad = 0
		}
	}

	result := make(RoutingResult)
	for _, l := range loads {
		total := &l.ch.Load
		if l.input {
			total = &l.ch.SourceLoad
		}
		*total = saturatingAdd(*total, l.load)
		if *total == 0 {
			continue
		}
		result[l.key] = result[l.key].Add(l.dir)
	}
	return result, nil
}

// resolve looks up the channel of every table entry.
func (s *System) resolve(table []RouteEntry) ([]routedLoad, error) {
	borders := s.BorderMap()
	loads := make([]routedLoad, 0, len(table))
	for _, entry := range table {
		core, ok := s.CoreByID(entry.Core)
		if !ok {
			return nil, errors.MissingCore(entry.Core)
		}
		offGrid := s.EdgeDirections(entry.Core).Has(entry.Direction)

		switch entry.Target {
		case TargetSink:
			if !offGrid {
				return nil, errors.New(errors.ErrCodeManycoreMismatch,
					"sink load on core %d points %s into the grid", entry.Core, entry.Direction)
			}
		case TargetSource:
			b := borders[entry.Core]
			if !offGrid || !slices.Contains(b.Sources, entry.Direction) {
				return nil, errors.New(errors.ErrCodeManycoreMismatch,
					"core %d has no %s source", entry.Core, entry.Direction)
			}
		}

		ch, ok := core.Channel(entry.Direction)
		if !ok {
			if entry.Target == TargetSource {
				return nil, errors.MissingSourceLoad(entry.Core, entry.Direction)
			}
			return nil, errors.MissingChannel(entry.Core, entry.Direction)
		}
		loads = append(loads, routedLoad{
			ch:    ch,
			key:   RoutingTarget{Kind: entry.Target, ID: entry.Core},
			dir:   entry.Direction,
			load:  entry.Load,
			input: entry.Target == TargetSource,
		})
	}
	return loads, nil
}

func saturatingAdd(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}

func sortedKeys(m map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(m))
}
