package config

import (
	"net/mail"

	"github.com/spf13/viper"
)

// Mailer providers.
const (
	MailerConsole = "console"
	MailerSES     = "ses"
	MailerSMTP    = "smtp"
)

// MailerConfig configures email delivery.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	AWSRegion   string
	// ConfigSet is the SES configuration set applied to every send.
	ConfigSet string
	SMTP      SMTPConfig
}

// SMTPConfig configures the smtp provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// From returns the default sender as an RFC 5322 address.
func (c MailerConfig) From() string {
	if c.FromName == "" {
		return c.FromAddress
	}
	return (&mail.Address{Name: c.FromName, Address: c.FromAddress}).String()
}

func setMailerDefaults(v *viper.Viper) {
	v.SetDefault("mailer.provider", MailerConsole)
	v.SetDefault("mailer.from_address", "noreply@activemail.local")
	v.SetDefault("mailer.from_name", "")
	v.SetDefault("mailer.aws_region", "us-east-1")
	v.SetDefault("mailer.config_set", "")
	v.SetDefault("mailer.smtp.host", "")
	v.SetDefault("mailer.smtp.port", 587)
	v.SetDefault("mailer.smtp.username", "")
	v.SetDefault("mailer.smtp.password", "")
}

func loadMailerConfig(v *viper.Viper) MailerConfig {
	return MailerConfig{
		Provider:    v.GetString("mailer.provider"),
		FromAddress: v.GetString("mailer.from_address"),
		FromName:    v.GetString("mailer.from_name"),
		AWSRegion:   v.GetString("mailer.aws_region"),
		ConfigSet:   v.GetString("mailer.config_set"),
		SMTP: SMTPConfig{
			Host:     v.GetString("mailer.smtp.host"),
			Port:     v.GetInt("mailer.smtp.port"),
			Username: v.GetString("mailer.smtp.username"),
			Password: v.GetString("mailer.smtp.password"),
		},
	}
}
