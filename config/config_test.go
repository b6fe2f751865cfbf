package config

import (
	"os"
	"path/filepath"
	"testing"

	"artillery/game"
)

func TestLoadDefaultsWithoutEnvFile(t *testing.T) {
	for _, k := range []string{"ADDR", "TICK_HZ", "WIRE_FORMAT", "TUNING_FILE", "NATS_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.TickHz != 60 || cfg.WireFormat != "json" || cfg.LogLevel != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.NatsURL != "" || cfg.TuningFile != "" {
		t.Fatalf("optional settings should be empty: %+v", cfg)
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	body := "ARTILLERY_TEST_ADDR=:9999\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("ARTILLERY_TEST_ADDR") })

	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, err := GetEnvVariable("ARTILLERY_TEST_ADDR"); err != nil || got != ":9999" {
		t.Fatalf("env file not applied: %q %v", got, err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		key, val string
	}{
		{"TICK_HZ", "fast"},
		{"TICK_HZ", "-1"},
		{"TICK_HZ", "1001"},
		{"TICK_HZ", "2000000000"},
		{"WIRE_FORMAT", "xml"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.val, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.val)
			}
		})
	}
}

func TestGetEnvVariable(t *testing.T) {
	if _, err := GetEnvVariable(""); err == nil {
		t.Fatalf("expected error for empty name")
	}
	t.Setenv("ARTILLERY_TEST_VAR", "x")
	if v, err := GetEnvVariable("ARTILLERY_TEST_VAR"); err != nil || v != "x" {
		t.Fatalf("got %q, %v", v, err)
	}
}

func TestParseTuningOverridesDefaults(t *testing.T) {
	src := []byte(`
gravity: 200
turn_limit: 20
munitions:
  napalm:
    radius: 5
    damage: 30
`)
	tu, err := ParseTuning(src)
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}
	def := game.DefaultTuning()
	if tu.Gravity != 200 || tu.TurnLimit != 20 {
		t.Fatalf("overrides not applied: gravity=%f turn=%f", tu.Gravity, tu.TurnLimit)
	}
	if tu.Width != def.Width || tu.MaxPower != def.MaxPower {
		t.Fatalf("unset fields lost their defaults")
	}
	if m := tu.Munition(game.Napalm); m.Radius != 5 || m.Damage != 30 {
		t.Fatalf("napalm = %+v", m)
	}
	if tu.Munition(game.Mortar) != def.Munition(game.Mortar) {
		t.Fatalf("mortar entry lost")
	}
}

func TestParseTuningRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "gravty: 10\n",
		"invalid power": "min_power: 300\n",
		"bad yaml":      "gravity: [\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTuning([]byte(src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadTuningEmptyPathIsDefault(t *testing.T) {
	tu, err := LoadTuning("")
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tu.Gravity != game.DefaultTuning().Gravity {
		t.Fatalf("gravity = %f", tu.Gravity)
	}
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
