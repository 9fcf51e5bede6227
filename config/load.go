package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/infersim/infersim/sim"
)

// Load reads a RunConfig from path, overlaid onto Default(). An empty path
// returns Default() unmodified, without touching disk; Default() defines no
// presets.
func Load(path string) (*RunConfig, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sim.NewConfigError("reading config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, sim.NewConfigError("parsing config file %s: %v", path, err)
	}
	return &cfg, nil
}

// Dump serializes cfg back to YAML, used by `dump-config` and by the
// round-trip test (config -> dump -> re-parse must yield the same
// Effective(preset)).
func Dump(cfg *RunConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Effective merges the named preset onto the base config and expands the
// {preset} placeholder in output_dir. An empty presetName applies no
// overlay. An unknown non-empty presetName is a ConfigError.
func (c *RunConfig) Effective(presetName string) (RunConfig, error) {
	eff := *c
	eff.Presets = nil

	if presetName != "" {
		preset, ok := c.Presets[presetName]
		if !ok {
			return RunConfig{}, sim.NewConfigError("unknown preset %q", presetName)
		}
		applyPreset(&eff, preset)
	}

	eff.OutputDir = strings.ReplaceAll(eff.OutputDir, "{preset}", presetName)

	if err := eff.Validate(); err != nil {
		return RunConfig{}, err
	}
	return eff, nil
}

func applyPreset(base *RunConfig, p PresetConfig) {
	if p.Seed != nil {
		base.Seed = *p.Seed
	}
	if p.OutputDir != nil {
		base.OutputDir = *p.OutputDir
	}
	if p.Incoming != nil {
		base.Incoming = p.Incoming
	}
	if p.Scheduler != nil {
		base.Scheduler = *p.Scheduler
	}
	if p.Workers != nil {
		base.Workers = p.Workers
	}
	if p.Until != nil {
		base.Until = *p.Until
	}
	if p.Trace != nil {
		base.Trace = *p.Trace
	}
}

// Validate rejects malformed or contradictory configuration before any
// simulation runs, per the ConfigError contract in the error-handling
// design: surfaced to the CLI, non-zero exit, no run attempted.
func (c *RunConfig) Validate() error {
	if c.Seed == "" {
		return sim.NewConfigError("seed must not be empty")
	}
	if !sim.IsValidScheduler(c.Scheduler.Kind) {
		return sim.NewConfigError("unknown scheduler kind %q", c.Scheduler.Kind)
	}
	for i, w := range c.Workers {
		if w.BatchSize <= 0 {
			return sim.NewConfigError("workers[%d].batch_size must be > 0, got %d", i, w.BatchSize)
		}
	}
	switch c.Until.Kind {
	case "time", "count", "no_events":
	default:
		return sim.NewConfigError("unknown until kind %q", c.Until.Kind)
	}
	if len(c.Trace.Formats) == 0 {
		return sim.NewConfigError("trace.formats must list at least one sink")
	}
	for _, f := range c.Trace.Formats {
		switch f {
		case "csv", "chrome":
		default:
			return sim.NewConfigError("trace.formats: unknown format %q", f)
		}
	}
	for i, in := range c.Incoming {
		switch in.Kind {
		case "one_batch", "rate":
		default:
			return sim.NewConfigError("incoming[%d]: unknown kind %q", i, in.Kind)
		}
		switch in.Length.Kind {
		case "exp", "normal", "lognormal", "constant":
		default:
			return sim.NewConfigError("incoming[%d].length: unknown kind %q", i, in.Length.Kind)
		}
	}
	return nil
}
