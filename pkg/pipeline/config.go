package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/timelane/pkg/errors"
)

// DefaultConfigFile is the config file looked up next to the items.
const DefaultConfigFile = "timelane.toml"

// LoadConfig decodes a timelane.toml file into Options. Unknown keys are
// rejected so typos surface instead of silently falling back to defaults.
//
// Example:
//
//	[window]
//	start = "2024-03-01"
//	end   = "2024-06-30"
//	unit  = "week"
//
//	[lane]
//	width = 1200
//	grouping = "grandparent"
//
//	[render]
//	formats = ["svg", "txt"]
//	style = "banded"
func LoadConfig(path string) (Options, error) {
	var opts Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), &opts)
	if err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return opts, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return opts, nil
}

// LoadConfigIfExists is LoadConfig returning zero Options when path does
// not exist.
func LoadConfigIfExists(path string) (Options, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Options{}, false, nil
	}
	opts, err := LoadConfig(path)
	return opts, err == nil, err
}
