// Package tuning holds the handful of constants the piece-table engine's
// algorithms leave as implementation choices rather than fixed contracts:
// the target chunk size for the change buffer and for EOL normalization
// rewrites, and the depth of the navigator's search cache. Defaults match
// the engine's compiled-in constants; a host application can override them
// from a TOML file.
package tuning

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the tunable surface of the engine. It is not document
// persistence: it tunes the engine's own constants, never document
// content.
type Config struct {
	// AverageBufferSize is the target size, in bytes, of each chunk
	// createNewPieces splits inserted text into, and of each original
	// buffer handed to the tree at construction time.
	AverageBufferSize int `toml:"average-buffer-size"`

	// EOLNormalizeMinChunk and EOLNormalizeMaxChunk bound the chunk sizes
	// the EOL normalizer targets when rebuilding the tree after SetEOL.
	EOLNormalizeMinChunk int `toml:"eol-normalize-min-chunk"`
	EOLNormalizeMaxChunk int `toml:"eol-normalize-max-chunk"`

	// SearchCacheDepth is the number of recent node lookups the navigator
	// keeps in its bounded LIFO cache.
	SearchCacheDepth int `toml:"search-cache-depth"`
}

// Default returns the engine's compiled-in tuning.
func Default() Config {
	const avg = 65535
	return Config{
		AverageBufferSize:    avg,
		EOLNormalizeMinChunk: avg * 2 / 3,
		EOLNormalizeMaxChunk: avg * 2,
		SearchCacheDepth:     1,
	}
}

// Load reads a TOML file at path and overlays any non-zero fields onto
// Default(). A missing file is not an error: Default() is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var user Config
	if _, err := toml.Decode(string(data), &user); err != nil {
		return cfg, err
	}

	if user.AverageBufferSize > 0 {
		cfg.AverageBufferSize = user.AverageBufferSize
	}
	if user.EOLNormalizeMinChunk > 0 {
		cfg.EOLNormalizeMinChunk = user.EOLNormalizeMinChunk
	}
	if user.EOLNormalizeMaxChunk > 0 {
		cfg.EOLNormalizeMaxChunk = user.EOLNormalizeMaxChunk
	}
	if user.SearchCacheDepth > 0 {
		cfg.SearchCacheDepth = user.SearchCacheDepth
	}

	return cfg, nil
}
