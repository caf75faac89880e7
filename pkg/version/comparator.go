package version

import (
	"fmt"
	"strings"
)

// Op is the operator of a Comparator.
type Op int

const (
	// Exact matches the anchor at its own specificity: "=1.2" is [1.2, 1.3).
	Exact Op = iota
	// Greater matches above the anchor's exact range: ">1.2" is ">=1.3".
	Greater
	// GreaterEq matches the anchor and everything above it.
	GreaterEq
	// Less matches everything strictly below the anchor.
	Less
	// LessEq matches everything below the end of the anchor's exact range.
	LessEq
	// Tilde lets patch and revision vary but not minor.
	Tilde
	// Caret lets every field right of the first nonzero one vary.
	Caret
	// Wildcard is written "1.2.*" and behaves like Exact.
	Wildcard
	// WildcardAny is the lone "*" and matches every version.
	WildcardAny
)

var opNames = map[Op]string{
	Exact:       "exact",
	Greater:     "greater",
	GreaterEq:   "greater_eq",
	Less:        "less",
	LessEq:      "less_eq",
	Tilde:       "tilde",
	Caret:       "caret",
	Wildcard:    "wildcard",
	WildcardAny: "wildcard_any",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// prefixes are tried in order; ">=" must come before ">" and "<=" before "<".
var prefixes = []struct {
	text string
	op   Op
}{
	{"=", Exact},
	{">=", GreaterEq},
	{">", Greater},
	{"<=", LessEq},
	{"<", Less},
	{"~", Tilde},
	{"^", Caret},
}

// Comparator is one operator applied to an anchor version.
type Comparator struct {
	Anchor Version
	Op     Op
}

// Any returns the comparator that matches every version.
func Any() Comparator {
	return Comparator{Op: WildcardAny}
}

// ParseComparator reads a single comparator such as ">=1.2" or "1.*".
func ParseComparator(s string) (Comparator, error) {
	s = strings.TrimSpace(s)
	if s == "*" {
		return Any(), nil
	}

	for _, p := range prefixes {
		if strings.HasPrefix(s, p.text) {
			anchor, err := Parse(s[len(p.text):])
			if err != nil {
				return Comparator{}, err
			}
			return Comparator{Anchor: anchor, Op: p.op}, nil
		}
	}

	op := Exact
	if strings.Contains(s, "*") {
		op = Wildcard
	}
	anchor, err := Parse(s)
	if err != nil {
		return Comparator{}, err
	}
	return Comparator{Anchor: anchor, Op: op}, nil
}

// Matches reports whether v satisfies the comparator.
func (c Comparator) Matches(v Version) bool {
	a := c.Anchor

	switch c.Op {
	case WildcardAny:
		return true

	case Exact, Wildcard:
		return within(v, a, a.exactEnd())

	case Greater:
		if a.HasRevision() {
			return Compare(v, a) > 0
		}
		return Compare(v, a.exactEnd()) >= 0

	case GreaterEq:
		return Compare(v, a) >= 0

	case Less:
		return Compare(v, a) < 0

	case LessEq:
		return Compare(v, a.exactEnd()) < 0

	case Tilde:
		if a.HasPatch() {
			return within(v, a, FromMinor(a.major, a.minor+1))
		}
		return within(v, a, a.exactEnd())

	case Caret:
		switch {
		case a.major > 0:
			return within(v, a, FromMajor(a.major+1))
		case a.minor > 0:
			return within(v, a, FromMinor(0, a.minor+1))
		case a.patch > 0:
			return within(v, a, FromPatch(0, 0, a.patch+1))
		default:
			return v.Equal(a)
		}
	}

	return false
}

// within reports lo <= v < hi.
func within(v, lo, hi Version) bool {
	return Compare(v, lo) >= 0 && Compare(v, hi) < 0
}

// String formats the comparator so that ParseComparator reads it back.
func (c Comparator) String() string {
	switch c.Op {
	case Exact:
		return "=" + c.Anchor.String()
	case Greater:
		return ">" + c.Anchor.String()
	case GreaterEq:
		return ">=" + c.Anchor.String()
	case Less:
		return "<" + c.Anchor.String()
	case LessEq:
		return "<=" + c.Anchor.String()
	case Tilde:
		return "~" + c.Anchor.String()
	case Caret:
		return "^" + c.Anchor.String()
	case Wildcard:
		return c.Anchor.String() + ".*"
	default:
		return "*"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Comparator) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Comparator) UnmarshalText(text []byte) error {
	parsed, err := ParseComparator(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
