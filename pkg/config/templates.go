package config

import (
	"time"

	"github.com/spf13/viper"
)

// Template stores.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreFS       = "fs"

	FSLocal = "local"
	FSS3    = "s3"
)

// TemplatesConfig selects where template overrides are read from.
type TemplatesConfig struct {
	Store string
	// FSMode, Dir, Bucket and Prefix apply to the fs store.
	FSMode string
	Dir    string
	Bucket string
	Prefix string
	// CacheTTL enables the redis cache when positive.
	CacheTTL time.Duration
	// Migrate creates the postgres table on start.
	Migrate bool
}

func setTemplatesDefaults(v *viper.Viper) {
	v.SetDefault("templates.store", StoreMemory)
	v.SetDefault("templates.fs_mode", FSLocal)
	v.SetDefault("templates.dir", "./templates")
	v.SetDefault("templates.bucket", "")
	v.SetDefault("templates.prefix", "")
	v.SetDefault("templates.cache_ttl", "0s")
	v.SetDefault("templates.migrate", false)
}

func loadTemplatesConfig(v *viper.Viper) TemplatesConfig {
	return TemplatesConfig{
		Store:    v.GetString("templates.store"),
		FSMode:   v.GetString("templates.fs_mode"),
		Dir:      v.GetString("templates.dir"),
		Bucket:   v.GetString("templates.bucket"),
		Prefix:   v.GetString("templates.prefix"),
		CacheTTL: v.GetDuration("templates.cache_ttl"),
		Migrate:  v.GetBool("templates.migrate"),
	}
}
