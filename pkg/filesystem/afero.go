package filesystem

import (
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/spf13/afero"
)

// NewOS returns the real operating system filesystem.
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// NewRooted returns a view of fs in which "/" is root.
func NewRooted(fs afero.Fs, root string) afero.Fs {
	return afero.NewBasePathFs(fs, root)
}

// Exists reports whether name exists on fs.
func Exists(fs afero.Fs, name string) (bool, error) {
	_, err := fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Contain cleans a mod path and makes it absolute relative to the root of a
// rooted filesystem. Paths that climb above the root are rejected with
// PATH_PREFIX.
func Contain(p string) (string, error) {
	rel := path.Clean(strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Newf(errors.ErrPathPrefix, "path %q escapes the game directory", p).
			WithDetail("path", p)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + rel, nil
}
