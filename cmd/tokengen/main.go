// Command tokengen prints an API token signed with the configured secret.
//
//	AUTH_JWT_SECRET=... go run ./cmd/tokengen -subject billing -scopes messages:send
package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/auth"
	"github.com/Abraxas-365/activemail/pkg/config"
	"github.com/Abraxas-365/activemail/pkg/logx"
)

func main() {
	subject := flag.String("subject", "", "caller name stored in the token")
	scopes := flag.String("scopes", auth.ScopeMessagesSend, "comma-separated scopes, * for all")
	ttl := flag.Duration("ttl", 0, "token lifetime, defaults to auth.token_ttl")
	flag.Parse()

	if *subject == "" {
		logx.Fatalf("-subject is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	var granted []string
	for _, s := range strings.Split(*scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			granted = append(granted, s)
		}
	}

	token, err := auth.NewJWTService(cfg.Auth.JWTSecret, lifetime, cfg.Auth.Issuer).GenerateAccessToken(*subject, granted)
	if err != nil {
		logx.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
