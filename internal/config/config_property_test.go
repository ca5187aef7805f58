package config

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/efreitasn/tradeledger/internal/store"
	"pgregory.net/rapid"
)

// validLogLevels are the accepted log level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// durationDefaults maps every duration env var to its default.
var durationDefaults = map[string]time.Duration{
	"READ_TIMEOUT":     5 * time.Second,
	"WRITE_TIMEOUT":    10 * time.Second,
	"IDLE_TIMEOUT":     60 * time.Second,
	"SHUTDOWN_TIMEOUT": 10 * time.Second,
}

// genDurationString generates a valid Go duration string (e.g. "3s", "500ms", "2m").
func genDurationString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(t, "unit")
		val := rapid.IntRange(1, 600).Draw(t, "val")
		return fmt.Sprintf("%d%s", val, unit)
	})
}

// optional draws either nothing (use the default) or a value from g.
func optional(t *rapid.T, env map[string]string, key string, g *rapid.Generator[string]) string {
	if rapid.Bool().Draw(t, key+"_set") {
		v := g.Draw(t, key)
		env[key] = v
		return v
	}
	return ""
}

func durationField(cfg *Config, key string) time.Duration {
	switch key {
	case "READ_TIMEOUT":
		return cfg.ReadTimeout
	case "WRITE_TIMEOUT":
		return cfg.WriteTimeout
	case "IDLE_TIMEOUT":
		return cfg.IdleTimeout
	default:
		return cfg.ShutdownTimeout
	}
}

func TestProperty_ValidConfigParsing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		env := map[string]string{}

		portStr := optional(t, env, "PORT",
			rapid.Map(rapid.IntRange(1, 65535), strconv.Itoa))
		logLevel := optional(t, env, "LOG_LEVEL", rapid.SampledFrom(validLogLevels))
		limitStr := optional(t, env, "DEFAULT_PAGE_LIMIT",
			rapid.Map(rapid.IntRange(1, 10000), strconv.Itoa))
		sortKey := optional(t, env, "DEFAULT_SORT_KEY", rapid.SampledFrom(store.SortKeys))
		durStrs := make(map[string]string, len(durationDefaults))
		for key := range durationDefaults {
			durStrs[key] = optional(t, env, key, genDurationString())
		}

		cfg, err := LoadFrom(env)
		if err != nil {
			t.Fatalf("LoadFrom() returned error for valid inputs %v: %v", env, err)
		}

		expectedPort := 8080
		if portStr != "" {
			expectedPort, _ = strconv.Atoi(portStr)
		}
		if cfg.Port != expectedPort {
			t.Fatalf("Port = %d, want %d", cfg.Port, expectedPort)
		}

		expectedLogLevel := "info"
		if logLevel != "" {
			expectedLogLevel = logLevel
		}
		if cfg.LogLevel != expectedLogLevel {
			t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, expectedLogLevel)
		}

		expectedLimit := 100
		if limitStr != "" {
			expectedLimit, _ = strconv.Atoi(limitStr)
		}
		if cfg.DefaultPageLimit != expectedLimit {
			t.Fatalf("DefaultPageLimit = %d, want %d", cfg.DefaultPageLimit, expectedLimit)
		}

		expectedSortKey := store.SortTradeID
		if sortKey != "" {
			expectedSortKey = sortKey
		}
		if cfg.DefaultSortKey != expectedSortKey {
			t.Fatalf("DefaultSortKey = %q, want %q", cfg.DefaultSortKey, expectedSortKey)
		}

		for key, def := range durationDefaults {
			expected := def
			if durStrs[key] != "" {
				expected, _ = time.ParseDuration(durStrs[key])
			}
			if got := durationField(cfg, key); got != expected {
				t.Fatalf("%s = %v, want %v (env=%q)", key, got, expected, durStrs[key])
			}
		}
	})
}

func TestProperty_InvalidPortReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		invalidPort := rapid.OneOf(
			rapid.StringMatching(`[a-zA-Z]{1,10}`),
			rapid.Just("12.5"),
			rapid.Just("1.0e2"),
		).Draw(t, "invalidPort")

		if _, err := LoadFrom(map[string]string{"PORT": invalidPort}); err == nil {
			t.Fatalf("LoadFrom() should return error for invalid PORT %q", invalidPort)
		}
	})
}

func TestProperty_InvalidLogLevelReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		invalidLevel := rapid.StringMatching(`[a-z]{1,20}`).Filter(func(s string) bool {
			for _, v := range validLogLevels {
				if s == v {
					return false
				}
			}
			return true
		}).Draw(t, "invalidLevel")

		if _, err := LoadFrom(map[string]string{"LOG_LEVEL": invalidLevel}); err == nil {
			t.Fatalf("LoadFrom() should return error for invalid LOG_LEVEL %q", invalidLevel)
		}
	})
}

func TestProperty_InvalidSortKeyReturnsError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		key := rapid.StringMatching(`[a-z_]{1,20}`).Filter(func(s string) bool {
			return !store.IsSortKey(s)
		}).Draw(t, "sortKey")

		if _, err := LoadFrom(map[string]string{"DEFAULT_SORT_KEY": key}); err == nil {
			t.Fatalf("LoadFrom() should return error for DEFAULT_SORT_KEY %q", key)
		}
	})
}

func TestProperty_InvalidDurationReturnsError(t *testing.T) {
	for key := range durationDefaults {
		t.Run(key, func(t *testing.T) {
			rapid.Check(t, func(t *rapid.T) {
				invalidDur := rapid.OneOf(
					rapid.StringMatching(`[a-zA-Z]{2,10}`),
					rapid.Just("notaduration"),
					rapid.Just("5x"),
					rapid.Just("abc123"),
				).Filter(func(s string) bool {
					_, err := time.ParseDuration(s)
					return err != nil
				}).Draw(t, "invalidDuration")

				if _, err := LoadFrom(map[string]string{key: invalidDur}); err == nil {
					t.Fatalf("LoadFrom() should return error for invalid %s=%q", key, invalidDur)
				}
			})
		})
	}
}
