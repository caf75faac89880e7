package operations

import (
	"testing"

	"github.com/arthur-debert/modorg/pkg/version"
	"github.com/stretchr/testify/assert"
)

func TestOperations(t *testing.T) {
	ops := []Operation{
		UninstallMod{GUID: "a", Version: version.MustParse("1.0")},
		InstallMod{GUID: "a", Version: version.MustParse("1.2")},
		InstallMod{GUID: "dep", Version: version.MustParse("3")},
	}

	assert.Equal(t, "uninstall a@1.0", ops[0].String())
	assert.Equal(t, "install a@1.2", ops[1].String())
	assert.Equal(t, "uninstall", Kind(ops[0]))
	assert.Equal(t, "install", Kind(ops[2]))

	guid, v := ops[2].Target()
	assert.Equal(t, "dep", guid)
	assert.Equal(t, "3", v.String())

	installs, uninstalls := Count(ops)
	assert.Equal(t, 2, installs)
	assert.Equal(t, 1, uninstalls)
}
