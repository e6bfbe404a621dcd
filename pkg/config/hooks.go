package config

import "github.com/spf13/viper"

// HooksConfig selects the pre-send hooks installed on the client.
type HooksConfig struct {
	Logging        bool
	AllowedDomains []string
	Suppression    bool
	SuppressionKey string
}

func setHooksDefaults(v *viper.Viper) {
	v.SetDefault("hooks.logging", true)
	v.SetDefault("hooks.allowed_domains", "")
	v.SetDefault("hooks.suppression", false)
	v.SetDefault("hooks.suppression_key", "activemsg:suppressed")
}

func loadHooksConfig(v *viper.Viper) HooksConfig {
	return HooksConfig{
		Logging:        v.GetBool("hooks.logging"),
		AllowedDomains: stringList(v, "hooks.allowed_domains"),
		Suppression:    v.GetBool("hooks.suppression"),
		SuppressionKey: v.GetString("hooks.suppression_key"),
	}
}
