package config

import (
	"time"

	"github.com/spf13/viper"
)

// MinJWTSecretLength is the shortest HS256 signing secret accepted.
const MinJWTSecretLength = 32

// AuthConfig holds the bearer token settings for the HTTP API.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

func setAuthDefaults(v *viper.Viper) {
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "activemail")
	v.SetDefault("auth.token_ttl", "1h")
}

func loadAuthConfig(v *viper.Viper) AuthConfig {
	return AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
		TokenTTL:  v.GetDuration("auth.token_ttl"),
	}
}
