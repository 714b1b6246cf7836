package config

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/clad/errors"
)

// UnknownKeys decodes a project file strictly and returns the keys that no
// configuration field consumes, usually typos such as "emit.jsn".
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var keys []string
	for _, key := range md.Undecoded() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}
