package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/activemail/pkg/config"
	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, config.MailerConsole, cfg.Mailer.Provider)
	assert.Equal(t, config.StoreMemory, cfg.Templates.Store)
	assert.Equal(t, []string{"default"}, cfg.Queue.Queues)
	assert.Equal(t, 3, cfg.Queue.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Queue.RetryDelay)
	assert.True(t, cfg.Hooks.Logging)
	assert.Empty(t, cfg.Hooks.AllowedDomains)
	assert.Equal(t, "activemail", cfg.Auth.Issuer)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_WithoutJWTSecret(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := config.Load()
	assert.True(t, errx.HasCode(err, config.ErrInvalid))
}

func TestLoad_Env(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAILER_PROVIDER", "smtp")
	t.Setenv("MAILER_SMTP_HOST", "smtp.example.com")
	t.Setenv("MAILER_FROM_NAME", "Acme")
	t.Setenv("MAILER_FROM_ADDRESS", "hello@acme.test")
	t.Setenv("HOOKS_ALLOWED_DOMAINS", "acme.test, example.com")
	t.Setenv("QUEUE_QUEUES", "mail,bulk")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "smtp.example.com", cfg.Mailer.SMTP.Host)
	assert.Equal(t, 587, cfg.Mailer.SMTP.Port)
	assert.Equal(t, `"Acme" <hello@acme.test>`, cfg.Mailer.From())
	assert.Equal(t, []string{"acme.test", "example.com"}, cfg.Hooks.AllowedDomains)
	assert.Equal(t, []string{"mail", "bulk"}, cfg.Queue.Queues)
}

func TestLoadFile_YAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activemail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
templates:
  store: fs
  fs_mode: s3
  bucket: mail-templates
  prefix: prod
redis:
  addr: localhost:6379
queue:
  enabled: true
  queues: [mail, bulk]
hooks:
  allowed_domains:
    - acme.test
`), 0o644))
	t.Setenv("TEMPLATES_PREFIX", "staging")
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, config.StoreFS, cfg.Templates.Store)
	assert.Equal(t, config.FSS3, cfg.Templates.FSMode)
	assert.Equal(t, "mail-templates", cfg.Templates.Bucket)
	assert.Equal(t, "staging", cfg.Templates.Prefix)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, []string{"mail", "bulk"}, cfg.Queue.Queues)
	assert.Equal(t, []string{"acme.test"}, cfg.Hooks.AllowedDomains)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errx.HasCode(err, config.ErrRead))
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Mailer:    config.MailerConfig{Provider: config.MailerConsole},
			Templates: config.TemplatesConfig{Store: config.StoreMemory},
			Auth:      config.AuthConfig{JWTSecret: testSecret},
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown provider", func(c *config.Config) { c.Mailer.Provider = "pigeon" }},
		{"smtp without host", func(c *config.Config) { c.Mailer.Provider = config.MailerSMTP }},
		{"postgres without url", func(c *config.Config) { c.Templates.Store = config.StorePostgres }},
		{"unknown store", func(c *config.Config) { c.Templates.Store = "etcd" }},
		{"s3 without bucket", func(c *config.Config) {
			c.Templates.Store = config.StoreFS
			c.Templates.FSMode = config.FSS3
		}},
		{"cache without redis", func(c *config.Config) { c.Templates.CacheTTL = time.Minute }},
		{"missing jwt secret", func(c *config.Config) { c.Auth.JWTSecret = "" }},
		{"short jwt secret", func(c *config.Config) { c.Auth.JWTSecret = "secret" }},
		{"queue without workers", func(c *config.Config) {
			c.Redis.Addr = "localhost:6379"
			c.Queue.Enabled = true
			c.Queue.Queues = []string{"default"}
		}},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.True(t, errx.HasCode(cfg.Validate(), config.ErrInvalid))
		})
	}
}
