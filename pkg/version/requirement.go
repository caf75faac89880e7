package version

import (
	"fmt"
	"strings"
)

// Requirement is a conjunction of comparators: a version satisfies it only if
// every comparator matches.
type Requirement struct {
	comparators []Comparator
}

// NewRequirement builds a requirement from already parsed comparators.
func NewRequirement(comparators ...Comparator) Requirement {
	cs := make([]Comparator, len(comparators))
	copy(cs, comparators)
	return Requirement{comparators: cs}
}

// AnyRequirement returns the requirement "*".
func AnyRequirement() Requirement {
	return NewRequirement(Any())
}

// ParseRequirement reads a comma separated list of comparators.
func ParseRequirement(s string) (Requirement, error) {
	pieces := strings.Split(s, ",")
	comparators := make([]Comparator, 0, len(pieces))
	for _, piece := range pieces {
		c, err := ParseComparator(piece)
		if err != nil {
			return Requirement{}, err
		}
		comparators = append(comparators, c)
	}
	return Requirement{comparators: comparators}, nil
}

// MustParseRequirement is like ParseRequirement but panics on error.
func MustParseRequirement(s string) Requirement {
	r, err := ParseRequirement(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParseRequirement(%q): %v", s, err))
	}
	return r
}

// Comparators returns a copy of the comparator list.
func (r Requirement) Comparators() []Comparator {
	cs := make([]Comparator, len(r.comparators))
	copy(cs, r.comparators)
	return cs
}

// Matches reports whether v satisfies every comparator.
func (r Requirement) Matches(v Version) bool {
	for _, c := range r.comparators {
		if !c.Matches(v) {
			return false
		}
	}
	return true
}

// String joins the comparators with ", ".
func (r Requirement) String() string {
	parts := make([]string, len(r.comparators))
	for i, c := range r.comparators {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

// Equal reports whether both requirements hold the same comparators in the
// same order.
func (r Requirement) Equal(other Requirement) bool {
	if len(r.comparators) != len(other.comparators) {
		return false
	}
	for i, c := range r.comparators {
		o := other.comparators[i]
		if c.Op != o.Op || c.Anchor.Key() != o.Anchor.Key() || c.Anchor.fields != o.Anchor.fields {
			return false
		}
	}
	return true
}

// MarshalText implements encoding.TextMarshaler.
func (r Requirement) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Requirement) UnmarshalText(text []byte) error {
	parsed, err := ParseRequirement(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
