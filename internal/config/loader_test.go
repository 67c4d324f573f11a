package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/pennant/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Season, convey.ShouldEqual, 2026)
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverMemory)
				convey.So(cfg.Store.SQLitePath, convey.ShouldEqual, "pennant.db")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PENNANT_ADDR", ":8080")
			_ = os.Setenv("PENNANT_SEASON", "2027")
			_ = os.Setenv("PENNANT_LOG_FORMAT", "json")
			_ = os.Setenv("PENNANT_MAX_SESSIONS", "50")
			_ = os.Setenv("PENNANT_STORE__DRIVER", "sqlite")
			_ = os.Setenv("PENNANT_STORE__SQLITE_PATH", "/tmp/p.db")
			_ = os.Setenv("PENNANT_ARCHIVE__ENABLED", "true")
			_ = os.Setenv("PENNANT_ARCHIVE__BUCKET", "pennant-archive")
			_ = os.Setenv("PENNANT_ARCHIVE__PATH_STYLE", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Season, convey.ShouldEqual, 2027)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxSessions, convey.ShouldEqual, 50)
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.Store.SQLitePath, convey.ShouldEqual, "/tmp/p.db")
				convey.So(cfg.Archive.Enabled, convey.ShouldBeTrue)
				convey.So(cfg.Archive.Bucket, convey.ShouldEqual, "pennant-archive")
				convey.So(cfg.Archive.PathStyle, convey.ShouldBeTrue)
				convey.So(cfg.Archive.Prefix, convey.ShouldEqual, "seasons")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
season: 2028
session_ttl_seconds: 60
store:
  driver: postgres
  postgres_dsn: "postgres://localhost/pennant?sslmode=disable"
archive:
  region: ap-northeast-1
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PENNANT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Season, convey.ShouldEqual, 2028)
				convey.So(cfg.SessionTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.DriverPostgres)
				convey.So(cfg.Store.PostgresDSN, convey.ShouldContainSubstring, "postgres://")
				convey.So(cfg.Archive.Region, convey.ShouldEqual, "ap-northeast-1")
				convey.So(cfg.Archive.Prefix, convey.ShouldEqual, "seasons") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
season: 2028
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PENNANT_CONFIG", tmpFile)
			_ = os.Setenv("PENNANT_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.Season, convey.ShouldEqual, 2028)  // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PENNANT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PENNANT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PENNANT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown store driver", func() {
			_ = os.Setenv("PENNANT_STORE__DRIVER", "mongo")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PENNANT_SEASON", "next_year")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with YAML file containing comments", func() {
			yamlContent := `
# This is a comment
addr: ":9090"  # Inline comment
# Another comment
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PENNANT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should parse YAML with comments", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, k := range []string{
		"PENNANT_CONFIG",
		"PENNANT_ADDR",
		"PENNANT_SEASON",
		"PENNANT_LOG_LEVEL",
		"PENNANT_LOG_FORMAT",
		"PENNANT_MAX_SESSIONS",
		"PENNANT_SESSION_TTL_SECONDS",
		"PENNANT_STORE__DRIVER",
		"PENNANT_STORE__SQLITE_PATH",
		"PENNANT_STORE__POSTGRES_DSN",
		"PENNANT_ARCHIVE__ENABLED",
		"PENNANT_ARCHIVE__BUCKET",
		"PENNANT_ARCHIVE__PATH_STYLE",
	} {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "pennant-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
