package manycore

import (
	"fmt"
	"math/bits"
	"strings"
)

// Direction identifies one of the four mesh links of a router.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// AllDirections lists every direction in rendering order.
var AllDirections = [...]Direction{North, East, South, West}

var directionNames = [...]string{"North", "East", "South", "West"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Opposite returns the direction pointing back at the sender.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// ParseDirection parses a direction name case-insensitively.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so directions decode
// from JSON, YAML and TOML alike.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// LinkSet is a set of directions. The zero value is empty.
type LinkSet uint8

// NewLinkSet returns a set holding dirs.
func NewLinkSet(dirs ...Direction) LinkSet {
	var s LinkSet
	for _, d := range dirs {
		s = s.Add(d)
	}
	return s
}

// Add returns s with d included.
func (s LinkSet) Add(d Direction) LinkSet { return s | 1<<d }

// Has reports whether d is in s.
func (s LinkSet) Has(d Direction) bool { return s&(1<<d) != 0 }

// Union returns the directions present in either set.
func (s LinkSet) Union(o LinkSet) LinkSet { return s | o }

// Len returns the number of directions in s.
func (s LinkSet) Len() int { return bits.OnesCount8(uint8(s)) }

// Empty reports whether s holds no direction.
func (s LinkSet) Empty() bool { return s == 0 }

// Directions returns the members of s in [AllDirections] order.
func (s LinkSet) Directions() []Direction {
	dirs := make([]Direction, 0, s.Len())
	for _, d := range AllDirections {
		if s.Has(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (s LinkSet) String() string {
	names := make([]string, 0, s.Len())
	for _, d := range s.Directions() {
		names = append(names, d.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
