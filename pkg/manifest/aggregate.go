package manifest

import (
	"context"
	"fmt"

	"github.com/arthur-debert/modorg/pkg/logging"
)

// SourceError is the failure of a single manifest source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Load fetches and decodes a single source.
func Load(ctx context.Context, fetcher Fetcher, source string) (*Manifest, error) {
	data, err := fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return Decode(data, FormatFor(source))
}

// Aggregate loads every source in order and flattens their mods into one
// GUID to Mod mapping. When two sources define the same GUID the later one
// wins. A failing source is reported in the returned slice and skipped; the
// rest are still aggregated.
func Aggregate(ctx context.Context, fetcher Fetcher, sources []string) (map[string]*Mod, []*SourceError) {
	logger := logging.GetLogger("manifest")

	mods := make(map[string]*Mod)
	var failures []*SourceError

	for _, source := range sources {
		m, err := Load(ctx, fetcher, source)
		if err != nil {
			logger.Warn().Err(err).Str("source", source).Msg("manifest source failed")
			failures = append(failures, &SourceError{Source: source, Err: err})
			continue
		}

		for guid, mod := range m.Mods {
			if _, exists := mods[guid]; exists {
				logger.Debug().Str("guid", guid).Str("source", source).Msg("mod redefined by later source")
			}
			mods[guid] = mod
		}
		logger.Debug().Str("source", source).Int("mods", len(m.Mods)).Msg("manifest loaded")
	}

	return mods, failures
}
