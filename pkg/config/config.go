// Package config loads application configuration from file and environment.
package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"postgres"`

	JWT struct {
		Secret         string        `mapstructure:"secret"`
		Issuer         string        `mapstructure:"issuer"`
		AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	} `mapstructure:"jwt"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// Load reads configuration from the given file path, with ALMOX_* environment
// variables overriding file values. A missing file is not an error so the
// service can run on environment variables alone.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ALMOX")
	v.AutomaticEnv()

	setDefaults(v)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("postgres.max_conns", 25)
	v.SetDefault("postgres.min_conns", 5)
	v.SetDefault("jwt.issuer", "almox")
	v.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	v.SetDefault("metrics.enabled", true)

	_ = v.BindEnv("postgres.dsn", "ALMOX_POSTGRES_DSN", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret", "ALMOX_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("http.addr", "ALMOX_HTTP_ADDR")
	_ = v.BindEnv("app.env", "ALMOX_APP_ENV", "APP_ENV")
	_ = v.BindEnv("app.log_level", "ALMOX_LOG_LEVEL", "LOG_LEVEL")
}
