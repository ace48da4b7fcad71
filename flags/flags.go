// Package flags handles runtime tuning flags, optionally overridden by a
// v8.toml file.
package flags

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Flags holds the runtime feature flags consulted by the objects package.
type Flags struct {
	// CachePrototypeTransitions enables the per-shape prototype transition
	// cache. Disabling it makes PutPrototypeTransition a no-op.
	CachePrototypeTransitions bool `toml:"cache-prototype-transitions"`

	// TraceTransitions logs every transition insert at debug level.
	TraceTransitions bool `toml:"trace-transitions"`

	// VerifyTransitions runs the sorted-no-duplicates check after every
	// mutation of a transition array. Slow; intended for tests.
	VerifyTransitions bool `toml:"verify-transitions"`
}

// Defaults returns the flag values used when no v8.toml is present.
func Defaults() *Flags {
	return &Flags{
		CachePrototypeTransitions: true,
		TraceTransitions:          false,
		VerifyTransitions:         false,
	}
}

// Load parses a v8.toml file from the given directory. A missing file is not
// an error; the defaults are returned instead.
func Load(dir string) (*Flags, error) {
	path := filepath.Join(dir, "v8.toml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	f := Defaults()
	if err := toml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return f, nil
}
