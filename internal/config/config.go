package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env" validate:"oneof=dev staging prod"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	} `yaml:"log"`

	Server struct {
		Addr            string        `yaml:"addr" validate:"required,hostname_port"`
		ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
		WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	} `yaml:"server"`

	Signup struct {
		// Cuánto queda visible el aviso "Submitted Successfully!".
		NoticeDelay time.Duration `yaml:"notice_delay" validate:"gt=0"`
		// TTL de inactividad de una sesión de formulario.
		SessionTTL time.Duration `yaml:"session_ttl" validate:"gt=0"`
	} `yaml:"signup"`

	Cache struct {
		Kind  string `yaml:"kind" validate:"oneof=memory redis"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db" validate:"gte=0"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled     bool          `yaml:"enabled"`
		Window      time.Duration `yaml:"window" validate:"gt=0"`
		MaxRequests int           `yaml:"max_requests" validate:"gt=0"`
		// Peers (IP o CIDR) cuyo X-Forwarded-For se respeta. Vacío: se usa
		// siempre RemoteAddr.
		TrustedProxies []string `yaml:"trusted_proxies" validate:"dive,cidr|ip"`
	} `yaml:"rate"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" validate:"startswith=/"`
	} `yaml:"metrics"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default devuelve una configuración con todos los defaults aplicados.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load lee el YAML en path (si path no está vacío), aplica defaults, overrides
// por env y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}

	// Guardia: en prod nunca debug
	if c.App.Env == "prod" && strings.EqualFold(c.Log.Level, "debug") {
		c.Log.Level = "info"
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Version == "" {
		c.App.Version = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Signup.NoticeDelay == 0 {
		c.Signup.NoticeDelay = 3000 * time.Millisecond
	}
	if c.Signup.SessionTTL == 0 {
		c.Signup.SessionTTL = 30 * time.Minute
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "signup:"
	}
	if c.Rate.Window == 0 {
		c.Rate.Window = time.Minute
	}
	if c.Rate.MaxRequests == 0 {
		c.Rate.MaxRequests = 600
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return i, true, nil
}

func getEnvBool(key string) (bool, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, true, nil
}

func getEnvDur(key string) (time.Duration, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, true, nil
}

// splitList separa una lista por comas, descartando vacíos.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// applyEnvOverrides pisa el YAML con variables de entorno.
// Un valor presente pero mal formado es un error, no se ignora.
func (c *Config) applyEnvOverrides() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := getEnvStr(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		v, ok, err := getEnvInt(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) {
		v, ok, err := getEnvBool(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok, err := getEnvDur(key)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = v
		}
	}

	// APP
	str("APP_ENV", &c.App.Env)
	c.App.Env = strings.ToLower(c.App.Env)
	str("APP_VERSION", &c.App.Version)
	str("LOG_LEVEL", &c.Log.Level)

	// SERVER
	str("SERVER_ADDR", &c.Server.Addr)
	dur("SERVER_READ_TIMEOUT", &c.Server.ReadTimeout)
	dur("SERVER_WRITE_TIMEOUT", &c.Server.WriteTimeout)
	dur("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)

	// SIGNUP
	dur("SIGNUP_NOTICE_DELAY", &c.Signup.NoticeDelay)
	dur("SIGNUP_SESSION_TTL", &c.Signup.SessionTTL)

	// CACHE
	str("CACHE_KIND", &c.Cache.Kind)
	str("REDIS_ADDR", &c.Cache.Redis.Addr)
	num("REDIS_DB", &c.Cache.Redis.DB)
	str("REDIS_PREFIX", &c.Cache.Redis.Prefix)

	// RATE
	flag("RATE_ENABLED", &c.Rate.Enabled)
	dur("RATE_WINDOW", &c.Rate.Window)
	num("RATE_MAX_REQUESTS", &c.Rate.MaxRequests)
	if v, ok := getEnvStr("RATE_TRUSTED_PROXIES"); ok {
		c.Rate.TrustedProxies = splitList(v)
	}

	// METRICS
	flag("METRICS_ENABLED", &c.Metrics.Enabled)
	str("METRICS_PATH", &c.Metrics.Path)

	return errors.Join(errs...)
}

// Validate valida tags y reglas cruzadas.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Cache.Kind == "redis" && strings.TrimSpace(c.Cache.Redis.Addr) == "" {
		return errors.New("config: cache.redis.addr is required when cache.kind=redis")
	}
	return nil
}
