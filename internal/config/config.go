package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// DefaultFile is looked up in the working directory and ./config when no
// explicit path is given.
const DefaultFile = "application.properties"

type (
	Config struct {
		HTTP
		DB
		Log
	}

	HTTP struct {
		Addr            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		IdleTimeout     time.Duration
		ShutdownTimeout time.Duration
		MaxBodyBytes    int64
		RateLimitRPS    float64
		RateLimitBurst  int
		AllowedOrigins  []string
		TrustedProxies  []netip.Prefix
	}

	DB struct {
		URL               string
		User              string
		Password          string
		Driver            string
		PoolSize          int32
		MinIdle           int32
		IdleTimeout       time.Duration
		MaxLifetime       time.Duration
		ConnectionTimeout time.Duration
		QueryTimeout      time.Duration
	}

	Log struct {
		Level      string
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
)

// Error is returned for every startup configuration problem: a missing or
// unreadable properties file, or a missing required key.
type Error struct {
	Path  string
	Cause error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration: %v", e.Cause)
	}
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

var supportedDrivers = []string{"pgx", "postgres", "postgresql", "org.postgresql.Driver"}

// LoadEnvFiles loads .env and .env.local without overriding variables that
// are already present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads configuration once at process start. Precedence, lowest first:
// defaults, the properties file, then environment variables (db.pool.size is
// overridden by DB_POOL_SIZE and so on). An empty path falls back to
// DefaultFile, which may be absent as long as DB_URL is set.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("properties")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, &Error{Cause: err}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Path: path, Cause: errors.Wrap(err, "unable to read properties file")}
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, ".properties"))
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, &Error{Path: DefaultFile, Cause: errors.Wrap(err, "unable to read properties file")}
			}
		}
	}

	cfg := fromViper(v)
	proxies, err := parsePrefixes(splitList(v.GetString("http.trustedProxies")))
	if err != nil {
		return nil, &Error{Path: v.ConfigFileUsed(), Cause: err}
	}
	cfg.HTTP.TrustedProxies = proxies
	if err := cfg.validate(); err != nil {
		return nil, &Error{Path: v.ConfigFileUsed(), Cause: err}
	}
	return cfg, nil
}

var keys = []string{
	"http.addr", "http.readTimeout", "http.writeTimeout", "http.idleTimeout",
	"http.shutdownTimeout", "http.maxBodyBytes", "http.rateLimit.rps",
	"http.rateLimit.burst", "http.cors.allowedOrigins", "http.trustedProxies",
	"db.url", "db.user", "db.password", "db.driver", "db.pool.size",
	"db.pool.minIdle", "db.pool.idleTimeout", "db.pool.maxLifetime",
	"db.pool.connectionTimeout", "db.queryTimeout",
	"log.level", "log.file", "log.maxSizeMB", "log.maxBackups", "log.maxAgeDays",
	"log.compress",
}

// envAliases are accepted ahead of the names derived from the key.
var envAliases = map[string][]string{
	"http.addr": {"APP_ADDR"},
}

// bindEnv makes every key readable from its snake-cased variable
// (db.pool.minIdle from DB_POOL_MIN_IDLE) as well as from the flattened name
// AutomaticEnv looks up (DB_POOL_MINIDLE).
func bindEnv(v *viper.Viper) error {
	for _, key := range keys {
		names := append([]string{key}, envAliases[key]...)
		names = append(names, EnvName(key))
		if flat := strings.ToUpper(strings.ReplaceAll(key, ".", "_")); flat != EnvName(key) {
			names = append(names, flat)
		}
		if err := v.BindEnv(names...); err != nil {
			return errors.Wrapf(err, "bind env for %s", key)
		}
	}
	return nil
}

// EnvName returns the environment variable for a property key:
// db.pool.minIdle becomes DB_POOL_MIN_IDLE, log.maxSizeMB becomes LOG_MAX_SIZE_MB.
func EnvName(key string) string {
	var b strings.Builder
	var prev rune
	for _, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
		prev = r
	}
	return b.String()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", 5*time.Second)
	v.SetDefault("http.writeTimeout", 10*time.Second)
	v.SetDefault("http.idleTimeout", 60*time.Second)
	v.SetDefault("http.shutdownTimeout", 20*time.Second)
	v.SetDefault("http.maxBodyBytes", 1<<20)
	v.SetDefault("http.rateLimit.rps", 50)
	v.SetDefault("http.rateLimit.burst", 100)
	v.SetDefault("http.cors.allowedOrigins", "")
	v.SetDefault("http.trustedProxies", "")

	v.SetDefault("db.driver", "pgx")
	v.SetDefault("db.pool.size", 10)
	v.SetDefault("db.pool.minIdle", 2)
	v.SetDefault("db.pool.idleTimeout", 30*time.Second)
	v.SetDefault("db.pool.maxLifetime", 30*time.Minute)
	v.SetDefault("db.pool.connectionTimeout", 10*time.Second)
	v.SetDefault("db.queryTimeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 100)
	v.SetDefault("log.maxBackups", 3)
	v.SetDefault("log.maxAgeDays", 28)
	v.SetDefault("log.compress", false)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTP{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.readTimeout"),
			WriteTimeout:    v.GetDuration("http.writeTimeout"),
			IdleTimeout:     v.GetDuration("http.idleTimeout"),
			ShutdownTimeout: v.GetDuration("http.shutdownTimeout"),
			MaxBodyBytes:    v.GetInt64("http.maxBodyBytes"),
			RateLimitRPS:    v.GetFloat64("http.rateLimit.rps"),
			RateLimitBurst:  v.GetInt("http.rateLimit.burst"),
			AllowedOrigins:  splitList(v.GetString("http.cors.allowedOrigins")),
		},
		DB: DB{
			URL:               v.GetString("db.url"),
			User:              v.GetString("db.user"),
			Password:          v.GetString("db.password"),
			Driver:            v.GetString("db.driver"),
			PoolSize:          v.GetInt32("db.pool.size"),
			MinIdle:           v.GetInt32("db.pool.minIdle"),
			IdleTimeout:       v.GetDuration("db.pool.idleTimeout"),
			MaxLifetime:       v.GetDuration("db.pool.maxLifetime"),
			ConnectionTimeout: v.GetDuration("db.pool.connectionTimeout"),
			QueryTimeout:      v.GetDuration("db.queryTimeout"),
		},
		Log: Log{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.maxSizeMB"),
			MaxBackups: v.GetInt("log.maxBackups"),
			MaxAgeDays: v.GetInt("log.maxAgeDays"),
			Compress:   v.GetBool("log.compress"),
		},
	}
}

func (c *Config) validate() error {
	if c.DB.URL == "" {
		return errors.New("db.url is required")
	}
	if !isSupportedDriver(c.DB.Driver) {
		return errors.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.PoolSize < 1 {
		return errors.Errorf("db.pool.size must be positive, got %d", c.DB.PoolSize)
	}
	if c.DB.MinIdle < 0 || c.DB.MinIdle > c.DB.PoolSize {
		return errors.Errorf("db.pool.minIdle must be between 0 and db.pool.size, got %d", c.DB.MinIdle)
	}
	return nil
}

// DSN returns the connection URL without the JDBC prefix older property
// files carry.
func (d DB) DSN() string {
	return strings.TrimPrefix(d.URL, "jdbc:")
}

func isSupportedDriver(driver string) bool {
	for _, d := range supportedDrivers {
		if strings.EqualFold(d, driver) {
			return true
		}
	}
	return false
}

// parsePrefixes accepts CIDRs and bare addresses.
func parsePrefixes(list []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, s := range list {
		if p, err := netip.ParsePrefix(s); err == nil {
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, errors.Errorf("http.trustedProxies: %q is neither an address nor a CIDR", s)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
