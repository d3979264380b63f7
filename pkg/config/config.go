// Package config loads porenet configuration files.
//
// A configuration file is TOML. Every section is optional; missing values
// keep their defaults and CLI flags override whatever the file sets.
//
//	[sweep]
//	depth = 100.0
//	steps = 200
//	surface_fraction = 0.02
//	mode = "remove"
//	seed = 7
//
//	[[sweep.variants]]
//	name = "random"
//	kind = "uniform"
//	nodes = 2000
//	edges = 3000
//
//	[cache]
//	redis = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/pipeline"
)

// DefaultAddr is the listen address of `porenet serve`.
const DefaultAddr = ":8080"

// DefaultDatabase is the MongoDB database runs are stored in.
const DefaultDatabase = "porenet"

// Config is the contents of a configuration file.
type Config struct {
	Pipeline pipeline.Options `toml:"sweep"`
	Cache    Cache            `toml:"cache"`
	Server   Server           `toml:"server"`
}

// Cache selects the cache backend. Redis wins over Dir when both are set.
type Cache struct {
	Dir      string `toml:"dir"`
	Redis    string `toml:"redis"`
	Disabled bool   `toml:"disabled"`
}

// Server configures the HTTP API.
type Server struct {
	Addr     string `toml:"addr"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Default returns a configuration with server defaults filled in. Pipeline
// options stay zero so that pipeline defaults apply later.
func Default() Config {
	return Config{Server: Server{Addr: DefaultAddr, Database: DefaultDatabase}}
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()

	return decode(f, path)
}

// Decode parses a configuration from r on top of Default. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Decode(r io.Reader) (Config, error) {
	return decode(r, "config")
}

func decode(r io.Reader, source string) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", source)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", source, strings.Join(keys, ", "))
	}
	return cfg, nil
}
