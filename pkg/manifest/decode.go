package manifest

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a manifest document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// FormatFor guesses a source's format from its extension. Anything that is
// not recognizably YAML or TOML is read as JSON, which is what the public
// manifests use.
func FormatFor(source string) Format {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Decode parses a manifest document.
func Decode(data []byte, format Format) (*Manifest, error) {
	var w manifestWire
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &w)
	case FormatTOML:
		err = toml.Unmarshal(data, &w)
	default:
		err = json.Unmarshal(data, &w)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "failed to decode %s manifest", format)
	}

	return w.toDomain()
}
