package version

import (
	"testing"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		want        Version
		specificity int
		formatted   string
	}{
		{"1", FromMajor(1), 1, "1"},
		{"1.2", FromMinor(1, 2), 2, "1.2"},
		{"1.2.3", FromPatch(1, 2, 3), 3, "1.2.3"},
		{"1.2.3.4", FromRevision(1, 2, 3, 4), 4, "1.2.3.4"},
		{"1.2.3-beta", FromPatch(1, 2, 3).WithSuffix("-beta"), 3, "1.2.3-beta"},
		{"2rc1", FromMajor(2).WithSuffix("rc1"), 1, "2rc1"},
		{"1.2.*", FromMinor(1, 2), 2, "1.2"},
		{"1.*.*", FromMajor(1), 1, "1"},
		{"65535.0.65535", FromPatch(65535, 0, 65535), 3, "65535.0.65535"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
			assert.Equal(t, tt.specificity, got.Specificity())
			assert.Equal(t, tt.formatted, got.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  errors.ErrorCode
	}{
		{"", errors.ErrMissingMajorField},
		{"beta", errors.ErrMissingMajorField},
		{".1", errors.ErrMissingMajorField},
		{"1.", errors.ErrInvalidIntegerField},
		{"1..2", errors.ErrInvalidIntegerField},
		{"*.1", errors.ErrInvalidIntegerField},
		{"1.*.3", errors.ErrInvalidIntegerField},
		{"1.2.3.4.5", errors.ErrInvalidIntegerField},
		{"99999999999999999999", errors.ErrInvalidIntegerField},
		{"9223372036854775807", errors.ErrInvalidIntegerField},
		{"65536", errors.ErrInvalidIntegerField},
		{"1.2.65536", errors.ErrInvalidIntegerField},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
			assert.Contains(t, err.Error(), tt.input)
		})
	}
}

func TestEqualityIgnoresUnwrittenFields(t *testing.T) {
	one := MustParse("1")
	full := MustParse("1.0.0.0")

	assert.True(t, one.Equal(full))
	assert.Equal(t, one.Key(), full.Key())
	assert.NotEqual(t, one.String(), full.String())
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"1.2", "1.10", -1},
		{"1.2.3", "1.2.3.0", 0},
		{"1.2.3.1", "1.2.3", 1},
		{"1.0.0", "1.0.0-beta", -1},
		{"1.0.0-alpha", "1.0.0-beta", -1},
		{"0.9.9.9", "1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(MustParse(tt.a), MustParse(tt.b)))
			assert.Equal(t, -tt.want, Compare(MustParse(tt.b), MustParse(tt.a)))
		})
	}
}

func TestZeroValue(t *testing.T) {
	var v Version
	assert.True(t, v.IsZero())
	assert.Equal(t, "", v.String())
	assert.False(t, Zero().IsZero())
	assert.Equal(t, "0", Zero().String())
}

func TestTextRoundTrip(t *testing.T) {
	var v Version
	require.NoError(t, v.UnmarshalText([]byte("1.12.5")))
	text, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.12.5", string(text))

	assert.Error(t, v.UnmarshalText([]byte("x")))
}
