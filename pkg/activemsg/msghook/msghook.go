// Package msghook provides ready-made pre-send hooks for activemsg clients.
package msghook

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/logx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

// DefaultSuppressionKey is the redis set holding addresses that must not be mailed.
const DefaultSuppressionKey = "activemsg:suppressed"

// Logging records every message about to be delivered. It never vetoes.
func Logging(logger *logx.Logger) activemsg.PreSendHook {
	return func(_ context.Context, ev activemsg.ComposeEvent) bool {
		entry := logx.Component("msghook")
		if logger != nil {
			entry = logger.Component("msghook")
		}
		entry.WithFields(logx.Fields{
			"template": ev.Active.TemplateName(),
			"to":       ev.Active.To(),
			"subject":  ev.Active.Subject(),
		}).Info("sending active message")
		return true
	}
}

// Suppression vetoes a message when any recipient is a member of the redis
// set at key. Recipients are compared by bare address, lower-cased, so
// "Ann <ann@acme.test>" matches ann@acme.test. When redis is unreachable
// the message is let through and the error logged.
func Suppression(rdb redis.Cmdable, key string) activemsg.PreSendHook {
	if key == "" {
		key = DefaultSuppressionKey
	}

	return func(ctx context.Context, ev activemsg.ComposeEvent) bool {
		for _, to := range ev.Active.To() {
			addr := bareAddress(to)
			suppressed, err := rdb.SIsMember(ctx, key, addr).Result()
			if err != nil {
				logx.Component("msghook").
					WithError(err).
					WithField("key", key).
					Warn("suppression lookup failed, message not suppressed")
				return true
			}
			if suppressed {
				logx.Component("msghook").
					WithField("template", ev.Active.TemplateName()).
					WithField("recipient", addr).
					Info("recipient is suppressed, message vetoed")
				return false
			}
		}
		return true
	}
}

// Suppress adds addresses to the suppression set read by Suppression.
// Display names are dropped.
func Suppress(ctx context.Context, rdb redis.Cmdable, key string, addrs ...string) error {
	if key == "" {
		key = DefaultSuppressionKey
	}
	if len(addrs) == 0 {
		return nil
	}
	members := lo.Map(addrs, func(a string, _ int) any {
		return bareAddress(a)
	})
	return rdb.SAdd(ctx, key, members...).Err()
}

// AllowDomains vetoes a message when a recipient's domain is not in domains.
// An empty domain list allows everything.
func AllowDomains(domains ...string) activemsg.PreSendHook {
	allowed := lo.SliceToMap(domains, func(d string) (string, struct{}) {
		return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(d), "@")), struct{}{}
	})

	return func(_ context.Context, ev activemsg.ComposeEvent) bool {
		if len(allowed) == 0 {
			return true
		}

		rejected, found := lo.Find(ev.Active.To(), func(to string) bool {
			_, ok := allowed[domainOf(to)]
			return !ok
		})
		if found {
			logx.Component("msghook").
				WithField("template", ev.Active.TemplateName()).
				WithField("recipient", rejected).
				Info("recipient domain not allowed, message vetoed")
			return false
		}
		return true
	}
}

func domainOf(addr string) string {
	bare := bareAddress(addr)
	at := strings.LastIndexByte(bare, '@')
	if at < 0 {
		return ""
	}
	return bare[at+1:]
}

// bareAddress returns the lower-cased addr-spec of an RFC 5322 address.
// Text that does not parse is only trimmed and lower-cased.
func bareAddress(addr string) string {
	if parsed, err := mail.ParseAddress(addr); err == nil {
		return strings.ToLower(parsed.Address)
	}
	return strings.ToLower(strings.TrimSpace(addr))
}
