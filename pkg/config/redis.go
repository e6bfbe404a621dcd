package config

import "github.com/spf13/viper"

// RedisConfig configures the redis client. An empty Addr disables redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func setRedisDefaults(v *viper.Viper) {
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

func loadRedisConfig(v *viper.Viper) RedisConfig {
	return RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
}
