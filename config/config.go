package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"artillery/game"
	"artillery/room"
)

// Config is the process configuration read from the environment.
type Config struct {
	Addr       string
	TickHz     int
	WireFormat string
	TuningFile string
	NatsURL    string
	LogLevel   string
}

// Load reads an optional .env file, then the environment. A missing .env
// is not an error; variables already set in the environment win.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Addr:       envOr("ADDR", ":8080"),
		TickHz:     60,
		WireFormat: envOr("WIRE_FORMAT", "json"),
		TuningFile: os.Getenv("TUNING_FILE"),
		NatsURL:    os.Getenv("NATS_URL"),
		LogLevel:   envOr("LOG_LEVEL", "info"),
	}
	if v, err := GetEnvVariable("TICK_HZ"); err == nil {
		hz, err := strconv.Atoi(v)
		if err != nil || hz <= 0 || hz > room.MaxTickHz {
			return Config{}, fmt.Errorf("TICK_HZ must be an integer in [1, %d], got %q", room.MaxTickHz, v)
		}
		cfg.TickHz = hz
	}
	switch cfg.WireFormat {
	case "json", "msgpack":
	default:
		return Config{}, fmt.Errorf("WIRE_FORMAT must be json or msgpack, got %q", cfg.WireFormat)
	}
	return cfg, nil
}

// LoadTuning decodes a YAML tuning file over the defaults. An empty path
// returns the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return game.Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(b)
}

// ParseTuning decodes YAML over the defaults and validates the result.
// Unknown keys are rejected so typos don't silently keep a default.
func ParseTuning(b []byte) (game.Tuning, error) {
	t := game.DefaultTuning()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return game.Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return game.Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil

}

func envOr(key, def string) string {
	if v, err := GetEnvVariable(key); err == nil {
		return v
	}
	return def
}
