package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := New()

		Convey("Then sensible defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.RubricPath, ShouldEqual, "data/rubric.csv")
			So(cfg.SamplesPath, ShouldBeEmpty)
			So(cfg.MinTranscriptWords, ShouldEqual, 10)
			So(cfg.MaxTranscriptWords, ShouldEqual, 5000)
			So(cfg.LengthPenalty, ShouldEqual, 0.85)
			So(cfg.PhraseBonus, ShouldEqual, 5)
			So(cfg.Parallelism, ShouldBeGreaterThan, 0)
			So(cfg.DegradedFallback, ShouldBeFalse)
			So(cfg.EmbedProvider, ShouldEqual, ProviderHash)
			So(cfg.EmbedDimension, ShouldEqual, 256)
			So(cfg.EmbedCacheSize, ShouldEqual, 4096)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given configuration loading", t, func() {
		ctx := context.Background()

		Convey("When no overrides exist", func() {
			cfg, err := Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
		})

		Convey("When environment variables override defaults", func() {
			_ = os.Setenv("TALKLENS_ADDR", ":9090")
			_ = os.Setenv("TALKLENS_LOG_LEVEL", "debug")
			_ = os.Setenv("TALKLENS_MIN_TRANSCRIPT_WORDS", "20")
			_ = os.Setenv("TALKLENS_DEGRADED_FALLBACK", "true")
			defer func() {
				_ = os.Unsetenv("TALKLENS_ADDR")
				_ = os.Unsetenv("TALKLENS_LOG_LEVEL")
				_ = os.Unsetenv("TALKLENS_MIN_TRANSCRIPT_WORDS")
				_ = os.Unsetenv("TALKLENS_DEGRADED_FALLBACK")
			}()

			cfg, err := Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.MinTranscriptWords, ShouldEqual, 20)
			So(cfg.DegradedFallback, ShouldBeTrue)
		})

		Convey("When a config file is provided", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			content := "addr: \":7070\"\nrubric_path: fixtures/rubric.csv\nphrase_bonus: 2.5\n"
			So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)

			_ = os.Setenv("TALKLENS_CONFIG", path)
			defer func() { _ = os.Unsetenv("TALKLENS_CONFIG") }()

			cfg, err := Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.RubricPath, ShouldEqual, "fixtures/rubric.csv")
			So(cfg.PhraseBonus, ShouldEqual, 2.5)
			// Untouched keys keep their defaults.
			So(cfg.MinTranscriptWords, ShouldEqual, 10)
		})

		Convey("When env overrides the config file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			So(os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o600), ShouldBeNil)

			_ = os.Setenv("TALKLENS_CONFIG", path)
			_ = os.Setenv("TALKLENS_ADDR", ":6060")
			defer func() {
				_ = os.Unsetenv("TALKLENS_CONFIG")
				_ = os.Unsetenv("TALKLENS_ADDR")
			}()

			cfg, err := Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
		})

		Convey("When the config file is missing", func() {
			_ = os.Setenv("TALKLENS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			defer func() { _ = os.Unsetenv("TALKLENS_CONFIG") }()

			_, err := Load(ctx)
			So(errors.Is(err, ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Load(cancelled)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given configuration validation", t, func() {
		check := func(mutate func(*Config)) error {
			cfg := New()
			mutate(cfg)
			return cfg.validate()
		}

		Convey("Defaults validate", func() {
			So(New().validate(), ShouldBeNil)
		})

		Convey("Empty addr is rejected", func() {
			err := check(func(c *Config) { c.Addr = "" })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Empty rubric path is rejected", func() {
			err := check(func(c *Config) { c.RubricPath = "" })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Zero minimum words is rejected", func() {
			err := check(func(c *Config) { c.MinTranscriptWords = 0 })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Max below min is rejected, but zero max passes", func() {
			err := check(func(c *Config) { c.MaxTranscriptWords = 5 })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

			So(check(func(c *Config) { c.MaxTranscriptWords = 0 }), ShouldBeNil)
		})

		Convey("Length penalty outside (0, 1] is rejected", func() {
			So(errors.Is(check(func(c *Config) { c.LengthPenalty = 0 }), ErrInvalidConfig), ShouldBeTrue)
			So(errors.Is(check(func(c *Config) { c.LengthPenalty = 1.2 }), ErrInvalidConfig), ShouldBeTrue)
			So(check(func(c *Config) { c.LengthPenalty = 1 }), ShouldBeNil)
		})

		Convey("Negative phrase bonus is rejected", func() {
			err := check(func(c *Config) { c.PhraseBonus = -1 })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("Unknown providers are rejected", func() {
			err := check(func(c *Config) { c.EmbedProvider = "quantum" })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("The http provider requires an endpoint", func() {
			err := check(func(c *Config) { c.EmbedProvider = ProviderHTTP })
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

			So(check(func(c *Config) {
				c.EmbedProvider = ProviderHTTP
				c.EmbedEndpoint = "http://localhost:8081"
			}), ShouldBeNil)
		})
	})
}
