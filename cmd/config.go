package cmd

import (
	"github.com/infersim/infersim/config"
)

// effectiveConfigResult bundles the merged config together with the
// resolved preset name so callers can print or build off either.
type effectiveConfigResult struct {
	preset string
	eff    config.RunConfig
}

// buildEffectiveConfig loads path (an empty path yields config.Default())
// and resolves preset against it. This is the single entry point run and
// dump-config both call, guaranteeing the round-trip property: config ->
// dump-config -> re-parse yields the same effective RunConfig.
func buildEffectiveConfig(path, preset string) (*effectiveConfigResult, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	eff, err := cfg.Effective(preset)
	if err != nil {
		return nil, err
	}
	return &effectiveConfigResult{preset: preset, eff: eff}, nil
}
