package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ResponderGenAI  = "genai"
	ResponderCanned = "canned"
)

type Config struct {
	Env       string
	Addr      string
	PublicURL string
	LogLevel  string
	SeedDemo  bool

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddr string
	DBDSN     string

	ResponderMode    string
	ResponderTimeout time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	GCPProject       string
	GCPLocation      string

	MessageRate  float64
	MessageBurst int
}

// Load reads the configuration from the environment, after loading dotEnv
// when that file exists.
func Load(dotEnv string) (*Config, error) {
	if dotEnv != "" {
		if _, err := os.Stat(dotEnv); err == nil {
			if err := godotenv.Load(dotEnv); err != nil {
				return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnv)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnv)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("ENV", "DEV")
	v.SetDefault("ADDR", ":8080")
	v.SetDefault("PUBLIC_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SEED_DEMO", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("RESPONDER_MODE", ResponderGenAI)
	v.SetDefault("RESPONDER_TIMEOUT", 30*time.Second)
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GCP_PROJECT", "")
	v.SetDefault("GCP_LOCATION", "")
	v.SetDefault("MESSAGE_RATE", 2.0)
	v.SetDefault("MESSAGE_BURST", 5)
	v.AutomaticEnv()

	c := &Config{
		Env:              strings.ToUpper(v.GetString("ENV")),
		Addr:             v.GetString("ADDR"),
		PublicURL:        v.GetString("PUBLIC_URL"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		SeedDemo:         v.GetBool("SEED_DEMO"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		DBDSN:            v.GetString("DB_DSN"),
		ResponderMode:    strings.ToLower(v.GetString("RESPONDER_MODE")),
		ResponderTimeout: v.GetDuration("RESPONDER_TIMEOUT"),
		GeminiAPIKey:     v.GetString("GEMINI_API_KEY"),
		GeminiModel:      v.GetString("GEMINI_MODEL"),
		GCPProject:       v.GetString("GCP_PROJECT"),
		GCPLocation:      v.GetString("GCP_LOCATION"),
		MessageRate:      v.GetFloat64("MESSAGE_RATE"),
		MessageBurst:     v.GetInt("MESSAGE_BURST"),
	}
	if c.JWTSecret == "" && c.Env != "PROD" {
		c.JWTSecret = "campus-chat-dev-secret"
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.ResponderTimeout <= 0 {
		return errors.Errorf("RESPONDER_TIMEOUT must be positive, got %s", c.ResponderTimeout)
	}
	switch c.ResponderMode {
	case ResponderGenAI, ResponderCanned:
	default:
		return errors.Errorf("unknown RESPONDER_MODE %q", c.ResponderMode)
	}
	if c.MessageRate <= 0 || c.MessageBurst <= 0 {
		return errors.New("MESSAGE_RATE and MESSAGE_BURST must be positive")
	}
	return nil
}
