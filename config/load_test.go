package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

const sampleConfig = `
seed: "stripy zebra"
output_dir: "./out/{preset}"
scheduler:
  kind: fifo
workers:
  - batch_size: 4
until:
  kind: time
  max: 100
incoming:
  - kind: one_batch
    delay: 0
    n_jobs: 10
    budget: 50
    length:
      kind: exp
      lambda: 1.5
      offset: 10
      factor: 18
presets:
  smoke:
    scheduler:
      kind: my
      percentile: 0.99
      step: 0.1
`

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "infersim.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad_MissingPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestEffective_AppliesPresetOverlay(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	base, err := cfg.Effective("")
	if err != nil {
		t.Fatalf("Effective(\"\"): %v", err)
	}
	if base.Scheduler.Kind != "fifo" {
		t.Errorf("base scheduler = %q, want fifo", base.Scheduler.Kind)
	}

	overlaid, err := cfg.Effective("smoke")
	if err != nil {
		t.Fatalf("Effective(\"smoke\"): %v", err)
	}
	if overlaid.Scheduler.Kind != "my" {
		t.Errorf("smoke preset scheduler = %q, want my", overlaid.Scheduler.Kind)
	}
	if overlaid.OutputDir != "./out/smoke" {
		t.Errorf("output_dir = %q, want ./out/smoke ({preset} expanded)", overlaid.OutputDir)
	}
}

func TestEffective_UnknownPresetIsConfigError(t *testing.T) {
	path := writeTempConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = cfg.Effective("does-not-exist")
	if err == nil {
		t.Fatal("expected a ConfigError for an unknown preset")
	}
}

func TestEffective_RoundTripsThroughDump(t *testing.T) {
	// config -> dump-config -> re-parse yields the same effective RunConfig.
	path := writeTempConfig(t, sampleConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eff1, err := cfg.Effective("smoke")
	if err != nil {
		t.Fatalf("Effective: %v", err)
	}

	data, err := Dump(&eff1)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}

	var eff2 RunConfig
	if err := yaml.Unmarshal(data, &eff2); err != nil {
		t.Fatalf("re-parsing dumped config: %v", err)
	}

	assert.Equal(t, eff1, eff2)
}

func TestValidate_RejectsZeroBatchSize(t *testing.T) {
	cfg := Default()
	cfg.Workers = []WorkerConfig{{BatchSize: 0}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected a ConfigError for batch_size 0")
	}
}

func TestValidate_RejectsUnknownSchedulerKind(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.Kind = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected a ConfigError for an unknown scheduler kind")
	}
}

func TestValidate_RejectsEmptyTraceFormats(t *testing.T) {
	cfg := Default()
	cfg.Trace.Formats = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected a ConfigError for an empty trace.formats")
	}
}

func TestValidate_RejectsUnknownTraceFormat(t *testing.T) {
	cfg := Default()
	cfg.Trace.Formats = []string{"xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected a ConfigError for an unknown trace format")
	}
}
