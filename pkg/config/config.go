package config

import (
	"os"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/spf13/viper"
)

// EnvConfigFile names the environment variable holding an optional config file path.
const EnvConfigFile = "ACTIVEMAIL_CONFIG"

var configErrors = errx.NewRegistry("CONFIG")

var (
	ErrRead    = configErrors.Register("READ", errx.TypeInternal, 500, "Failed to read config file")
	ErrInvalid = configErrors.Register("INVALID", errx.TypeValidation, 400, "Invalid configuration")
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mailer    MailerConfig
	Templates TemplatesConfig
	Queue     QueueConfig
	Hooks     HooksConfig
	Auth      AuthConfig
}

// Load reads the file named by ACTIVEMAIL_CONFIG, when set, and the environment.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(EnvConfigFile))
}

// LoadFile reads path (yaml, json or toml, by extension) when non-empty.
// Environment variables override file values: the key mailer.smtp.host is
// read from MAILER_SMTP_HOST.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, configErrors.NewWithCause(ErrRead, err).WithDetail("path", path)
		}
	}

	cfg := &Config{
		Server:    loadServerConfig(v),
		Database:  loadDatabaseConfig(v),
		Redis:     loadRedisConfig(v),
		Mailer:    loadMailerConfig(v),
		Templates: loadTemplatesConfig(v),
		Queue:     loadQueueConfig(v),
		Hooks:     loadHooksConfig(v),
		Auth:      loadAuthConfig(v),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	setServerDefaults(v)
	setDatabaseDefaults(v)
	setRedisDefaults(v)
	setMailerDefaults(v)
	setTemplatesDefaults(v)
	setQueueDefaults(v)
	setHooksDefaults(v)
	setAuthDefaults(v)
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	invalid := func(key, reason string) error {
		return configErrors.New(ErrInvalid).WithDetail("key", key).WithDetail("reason", reason)
	}

	switch c.Mailer.Provider {
	case MailerConsole, MailerSES:
	case MailerSMTP:
		if c.Mailer.SMTP.Host == "" || c.Mailer.SMTP.Port == 0 {
			return invalid("mailer.smtp", "host and port are required for the smtp provider")
		}
	default:
		return invalid("mailer.provider", "must be console, ses or smtp")
	}

	switch c.Templates.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Database.URL == "" {
			return invalid("database.url", "required for the postgres template store")
		}
	case StoreFS:
		switch c.Templates.FSMode {
		case FSLocal:
		case FSS3:
			if c.Templates.Bucket == "" {
				return invalid("templates.bucket", "required for the s3 file store")
			}
		default:
			return invalid("templates.fs_mode", "must be local or s3")
		}
	default:
		return invalid("templates.store", "must be memory, postgres or fs")
	}

	needsRedis := c.Templates.CacheTTL > 0 || c.Queue.Enabled || c.Hooks.Suppression
	if needsRedis && c.Redis.Addr == "" {
		return invalid("redis.addr", "required by the template cache, queue or suppression hook")
	}

	if c.Queue.Enabled && (c.Queue.Concurrency <= 0 || len(c.Queue.Queues) == 0) {
		return invalid("queue", "concurrency and at least one queue are required")
	}

	if len(c.Auth.JWTSecret) < MinJWTSecretLength {
		return invalid("auth.jwt_secret", "a signing secret of at least 32 bytes is required")
	}

	return nil
}

// stringList reads a list given either as a yaml/json list or as a
// comma-separated string (the form environment variables use).
func stringList(v *viper.Viper, key string) []string {
	if s, ok := v.Get(key).(string); ok {
		var out []string
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return v.GetStringSlice(key)
}
