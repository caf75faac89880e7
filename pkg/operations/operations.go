package operations

import (
	"fmt"

	"github.com/arthur-debert/modorg/pkg/version"
)

// Operation is either InstallMod or UninstallMod.
type Operation interface {
	fmt.Stringer
	Target() (guid string, v version.Version)
	operation()
}

// InstallMod installs a mod version as declared by the registry.
type InstallMod struct {
	GUID    string
	Version version.Version
}

// UninstallMod removes an installed mod version.
type UninstallMod struct {
	GUID    string
	Version version.Version
}

func (InstallMod) operation()   {}
func (UninstallMod) operation() {}

func (o InstallMod) Target() (string, version.Version)   { return o.GUID, o.Version }
func (o UninstallMod) Target() (string, version.Version) { return o.GUID, o.Version }

func (o InstallMod) String() string {
	return fmt.Sprintf("install %s@%s", o.GUID, o.Version)
}

func (o UninstallMod) String() string {
	return fmt.Sprintf("uninstall %s@%s", o.GUID, o.Version)
}

// Kind returns "install" or "uninstall".
func Kind(op Operation) string {
	switch op.(type) {
	case InstallMod:
		return "install"
	case UninstallMod:
		return "uninstall"
	default:
		panic(fmt.Sprintf("operations: unknown operation %T", op))
	}
}

// Count returns how many installs and uninstalls ops contains.
func Count(ops []Operation) (installs, uninstalls int) {
	for _, op := range ops {
		switch op.(type) {
		case InstallMod:
			installs++
		case UninstallMod:
			uninstalls++
		}
	}
	return installs, uninstalls
}
