package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
)

// maxFields is the number of numeric fields a version can carry.
const maxFields = 4

// fieldBits bounds each numeric field to 0..65535, so the bump done when
// comparing against an exact range never overflows.
const fieldBits = 16

// Version is a parsed mod version. The zero value is an unset version with no
// fields written; use Parse or the From* constructors to build real ones.
type Version struct {
	major    int
	minor    int
	patch    int
	revision int
	fields   int
	suffix   string
}

// Zero returns version "0".
func Zero() Version {
	return Version{fields: 1}
}

// FromMajor builds a version with only the major field written.
func FromMajor(major int) Version {
	return Version{major: major, fields: 1}
}

// FromMinor builds a major.minor version.
func FromMinor(major, minor int) Version {
	return Version{major: major, minor: minor, fields: 2}
}

// FromPatch builds a major.minor.patch version.
func FromPatch(major, minor, patch int) Version {
	return Version{major: major, minor: minor, patch: patch, fields: 3}
}

// FromRevision builds a fully specified version.
func FromRevision(major, minor, patch, revision int) Version {
	return Version{major: major, minor: minor, patch: patch, revision: revision, fields: 4}
}

// WithSuffix returns a copy of v carrying the given suffix.
func (v Version) WithSuffix(suffix string) Version {
	v.suffix = suffix
	return v
}

// Parse reads a version string. Scanning stops at the first character that is
// not a digit, '.' or '*'; the rest of the string becomes the suffix. A field
// written as '*' ends the numeric part, so "1.2.*" parses as "1.2".
func Parse(s string) (Version, error) {
	numeric, suffix := splitSuffix(s)
	pieces := strings.Split(numeric, ".")

	if pieces[0] == "" {
		return Version{}, errors.Newf(errors.ErrMissingMajorField,
			"version %q has no major field", s).WithDetail("input", s)
	}

	if len(pieces) > maxFields {
		return Version{}, errors.Newf(errors.ErrInvalidIntegerField,
			"version %q has more than %d numeric fields", s, maxFields).WithDetail("input", s)
	}

	var values [maxFields]int
	fields := 0
	wildcard := false

	for i, piece := range pieces {
		if piece == "*" {
			if i == 0 {
				return Version{}, errors.Newf(errors.ErrInvalidIntegerField,
					"version %q has a wildcard major field", s).WithDetail("input", s)
			}
			wildcard = true
			continue
		}
		if wildcard {
			return Version{}, errors.Newf(errors.ErrInvalidIntegerField,
				"version %q has field %q after a wildcard", s, piece).WithDetail("input", s)
		}

		n, err := strconv.ParseUint(piece, 10, fieldBits)
		if err != nil {
			return Version{}, errors.Wrapf(err, errors.ErrInvalidIntegerField,
				"version %q has invalid field %q", s, piece).WithDetail("input", s)
		}
		values[i] = int(n)
		fields++
	}

	return Version{
		major:    values[0],
		minor:    values[1],
		patch:    values[2],
		revision: values[3],
		fields:   fields,
		suffix:   suffix,
	}, nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("version.MustParse(%q): %v", s, err))
	}
	return v
}

func splitSuffix(s string) (string, string) {
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '*' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}

func (v Version) Major() int     { return v.major }
func (v Version) Minor() int     { return v.minor }
func (v Version) Patch() int     { return v.patch }
func (v Version) Revision() int  { return v.revision }
func (v Version) Suffix() string { return v.suffix }

func (v Version) HasMinor() bool    { return v.fields >= 2 }
func (v Version) HasPatch() bool    { return v.fields >= 3 }
func (v Version) HasRevision() bool { return v.fields >= 4 }

// Specificity returns how many numeric fields were written.
func (v Version) Specificity() int {
	return v.fields
}

// IsZero reports whether v is the unset zero value.
func (v Version) IsZero() bool {
	return v.fields == 0
}

// String formats only the written fields, followed by the suffix.
func (v Version) String() string {
	if v.IsZero() {
		return ""
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(v.major))
	for i, n := range []int{v.minor, v.patch, v.revision} {
		if v.fields < i+2 {
			break
		}
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(n))
	}
	b.WriteString(v.suffix)
	return b.String()
}

// Key returns a canonical form in which equal versions are identical.
// It is used wherever versions key a map.
func (v Version) Key() string {
	return fmt.Sprintf("%d.%d.%d.%d%s", v.major, v.minor, v.patch, v.revision, v.suffix)
}

// Compare returns -1, 0 or +1. Unwritten fields compare as zero and the
// suffix breaks ties, an absent suffix sorting first.
func Compare(a, b Version) int {
	for _, pair := range [][2]int{
		{a.major, b.major},
		{a.minor, b.minor},
		{a.patch, b.patch},
		{a.revision, b.revision},
	} {
		if pair[0] < pair[1] {
			return -1
		}
		if pair[0] > pair[1] {
			return 1
		}
	}
	return strings.Compare(a.suffix, b.suffix)
}

// Compare compares v to other, see Compare.
func (v Version) Compare(other Version) int {
	return Compare(v, other)
}

// Equal reports semantic equality, so "1" equals "1.0.0".
func (v Version) Equal(other Version) bool {
	return Compare(v, other) == 0
}

// Less reports whether v sorts before other.
func (v Version) Less(other Version) bool {
	return Compare(v, other) < 0
}

// exactEnd returns the exclusive upper bound of the range covered by v at its
// own specificity: v with the deepest written field incremented.
func (v Version) exactEnd() Version {
	switch {
	case v.fields >= 4:
		return FromRevision(v.major, v.minor, v.patch, v.revision+1)
	case v.fields == 3:
		return FromPatch(v.major, v.minor, v.patch+1)
	case v.fields == 2:
		return FromMinor(v.major, v.minor+1)
	default:
		return FromMajor(v.major + 1)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
