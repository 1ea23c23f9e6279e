package reflow

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the runtime tuning surface, loadable from a reflow.toml file.
// Zero values in the file fall back to the defaults, so a config file only
// names the knobs it changes.
type Config struct {
	// FrameBudgetMillis bounds the recompose/measure settle work of one
	// Tick; work left when the budget lapses is deferred to the next
	// frame.
	FrameBudgetMillis int `toml:"frame_budget_millis"`

	// MaxRecomposePasses bounds the recompose/measure feedback loop inside
	// one frame. Layout-driven state (lazy viewports) settles in two
	// passes; anything still invalid after this many is a cycle.
	MaxRecomposePasses int `toml:"max_recompose_passes"`

	// DoubleClickMillis is the max interval between clicks of one
	// multi-click.
	DoubleClickMillis int `toml:"double_click_millis"`

	// DoubleClickDist is the max distance in logical pixels between
	// consecutive clicks of one multi-click.
	DoubleClickDist float32 `toml:"double_click_dist"`

	// DragThreshold is the pointer movement past which a scrollable claims
	// the gesture.
	DragThreshold float32 `toml:"drag_threshold"`

	// BlinkMillis is the caret blink half-period.
	BlinkMillis int `toml:"blink_millis"`

	// PrefetchCount is how many lazy-list items are composed ahead in the
	// scroll direction.
	PrefetchCount int `toml:"prefetch_count"`

	// ReusePoolCap caps the lazy-list slot reuse pool.
	ReusePoolCap int `toml:"reuse_pool_cap"`
}

// DefaultConfig returns the built-in tuning values.
func DefaultConfig() Config {
	return Config{
		FrameBudgetMillis:  16,
		MaxRecomposePasses: 16,
		DoubleClickMillis:  500,
		DoubleClickDist:    5,
		DragThreshold:      8,
		BlinkMillis:        530,
		PrefetchCount:      2,
		ReusePoolCap:       16,
	}
}

// LoadConfig overlays the TOML file at path onto the defaults. A missing
// file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.sanitized(), nil
}

// sanitized replaces non-positive knobs with their defaults.
func (c Config) sanitized() Config {
	d := DefaultConfig()
	if c.FrameBudgetMillis <= 0 {
		c.FrameBudgetMillis = d.FrameBudgetMillis
	}
	if c.MaxRecomposePasses <= 0 {
		c.MaxRecomposePasses = d.MaxRecomposePasses
	}
	if c.DoubleClickMillis <= 0 {
		c.DoubleClickMillis = d.DoubleClickMillis
	}
	if c.DoubleClickDist <= 0 {
		c.DoubleClickDist = d.DoubleClickDist
	}
	if c.DragThreshold <= 0 {
		c.DragThreshold = d.DragThreshold
	}
	if c.BlinkMillis <= 0 {
		c.BlinkMillis = d.BlinkMillis
	}
	if c.PrefetchCount <= 0 {
		c.PrefetchCount = d.PrefetchCount
	}
	if c.ReusePoolCap <= 0 {
		c.ReusePoolCap = d.ReusePoolCap
	}
	return c
}

// FrameBudget returns the per-tick settle budget as a duration.
func (c Config) FrameBudget() time.Duration {
	return time.Duration(c.FrameBudgetMillis) * time.Millisecond
}

// DoubleClickTime returns the multi-click interval as a duration.
func (c Config) DoubleClickTime() time.Duration {
	return time.Duration(c.DoubleClickMillis) * time.Millisecond
}

// BlinkInterval returns the caret blink half-period as a duration.
func (c Config) BlinkInterval() time.Duration {
	return time.Duration(c.BlinkMillis) * time.Millisecond
}
