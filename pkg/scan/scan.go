// Package scan rebuilds installed state from the files in a game directory.
//
// Every file with a plugin or disabled extension below the scan locations is
// hashed and looked up in the registry's hash index. Files whose hash is not
// in the index are collected under installed.UnknownGUID with no version.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/hashutil"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/logging"
	"github.com/arthur-debert/modorg/pkg/manifest"
	"github.com/arthur-debert/modorg/pkg/registry"
	"github.com/spf13/afero"
)

// DisabledExtension marks a plugin the loader should skip.
const DisabledExtension = ".disabled"

// DefaultLocations are the directories the mod loader reads from.
var DefaultLocations = []string{"/Libraries", "/nml_libs", manifest.DefaultInstallLocation}

// IsModFile reports whether name has a plugin or disabled extension.
func IsModFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == manifest.PluginExtension || ext == DisabledExtension
}

type foundFile struct {
	path     string
	hash     string
	disabled bool
}

// Rescan walks locations on fsys (rooted at the game directory) and
// returns the installed state they describe. Missing locations are skipped.
// Cancelling ctx aborts the scan with ctx's error.
func Rescan(ctx context.Context, fsys afero.Fs, locations []string, snap *registry.Snapshot) (installed.State, error) {
	logger := logging.GetLogger("scan")

	files, err := collect(ctx, fsys, locations)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.hash] = true
	}

	state := installed.New()
	for _, f := range files {
		artifact := installed.ModFileArtifact{Path: f.path, Hash: f.hash, Disabled: f.disabled}

		ref, ok := owner(snap, f.hash, present)
		if !ok {
			logger.Debug().Str("path", f.path).Msg("unrecognized file")
			ref = registry.ModRef{GUID: installed.UnknownGUID}
		}

		mf, _ := state.Get(ref.GUID, ref.Version)
		mf.GUID = ref.GUID
		mf.Version = ref.Version
		mf.Files = append(mf.Files, artifact)
		state.Add(mf)
	}

	logger.Debug().Int("files", len(files)).Int("mods", state.Count()).Msg("rescan done")
	return state, nil
}

func collect(ctx context.Context, fsys afero.Fs, locations []string) ([]foundFile, error) {
	var files []foundFile
	seen := make(map[string]bool)

	for _, location := range locations {
		location = path.Clean("/" + strings.TrimPrefix(location, "/"))

		err := afero.Walk(fsys, location, func(p string, info fs.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if p == location && os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if info.IsDir() || seen[p] {
				return nil
			}

			if !IsModFile(p) {
				return nil
			}
			seen[p] = true

			digest, err := hashutil.FileSHA256(fsys, p)
			if err != nil {
				return err
			}
			files = append(files, foundFile{path: p, hash: digest, disabled: strings.EqualFold(path.Ext(p), DisabledExtension)})
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.Wrapf(err, errors.ErrScan, "failed to scan %s", location)
		}
	}
	return files, nil
}

// owner picks the mod version a file belongs to. When several versions ship
// the same file, the one with the most of its artifacts present wins, then
// the highest version.
func owner(snap *registry.Snapshot, digest string, present map[string]bool) (registry.ModRef, bool) {
	candidates := snap.ByHash(digest)
	if len(candidates) == 0 {
		return registry.ModRef{}, false
	}

	best, bestScore := candidates[0], -1
	for _, c := range candidates {
		score := 0
		for _, h := range snap.Hashes(c.GUID, c.Version) {
			if present[h] {
				score++
			}
		}
		if score > bestScore || (score == bestScore && best.Version.Less(c.Version)) {
			best, bestScore = c, score
		}
	}
	return best, true
}
