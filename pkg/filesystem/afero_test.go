package filesystem

import (
	"testing"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContain(t *testing.T) {
	tests := []struct {
		input string
		want  string
		code  errors.ErrorCode
	}{
		{"/nml_mods/a.dll", "/nml_mods/a.dll", ""},
		{"nml_mods/a.dll", "/nml_mods/a.dll", ""},
		{"/nml_mods/../nml_libs/b.dll", "/nml_libs/b.dll", ""},
		{"\\nml_mods\\c.dll", "/nml_mods/c.dll", ""},
		{"/", "/", ""},
		{"../outside.dll", "", errors.ErrPathPrefix},
		{"/nml_mods/../../outside.dll", "", errors.ErrPathPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Contain(tt.input)
			if tt.code != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.code))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExists(t *testing.T) {
	fs := NewMemory()
	require.NoError(t, afero.WriteFile(fs, "/game/nml_mods/a.dll", []byte("x"), 0644))

	ok, err := Exists(fs, "/game/nml_mods/a.dll")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(fs, "/game/nml_mods/b.dll")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRooted(t *testing.T) {
	base := NewMemory()
	rooted := NewRooted(base, "/game")

	require.NoError(t, afero.WriteFile(rooted, "/nml_mods/a.dll", []byte("x"), 0644))

	ok, err := Exists(base, "/game/nml_mods/a.dll")
	require.NoError(t, err)
	assert.True(t, ok)
}
