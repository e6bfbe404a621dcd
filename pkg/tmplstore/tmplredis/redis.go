package tmplredis

import (
	"context"
	"errors"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/logx"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a lookup result stays cached.
const DefaultTTL = 5 * time.Minute

// CachedStore caches the lookups of a backing store in redis. Missing
// templates are cached too, as an empty object. Redis failures fall back to
// the backing store.
type CachedStore struct {
	rdb     redis.Cmdable
	backing activemsg.TemplateStore
	ttl     time.Duration
	prefix  string
}

var _ tmplstore.Store = (*CachedStore)(nil)

// Option configures a CachedStore.
type Option func(*CachedStore)

// WithTTL sets the cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *CachedStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix sets the prefix of cache keys.
func WithKeyPrefix(prefix string) Option {
	return func(s *CachedStore) {
		s.prefix = prefix
	}
}

// NewCachedStore wraps backing with a redis cache.
func NewCachedStore(rdb redis.Cmdable, backing activemsg.TemplateStore, opts ...Option) *CachedStore {
	s := &CachedStore{
		rdb:     rdb,
		backing: backing,
		ttl:     DefaultTTL,
		prefix:  "activemsg:template:",
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *CachedStore) key(name string) string { return s.prefix + name }

// Template serves name from the cache, loading and caching it on a miss.
func (s *CachedStore) Template(ctx context.Context, name string) (activemsg.TemplateOverride, error) {
	data, err := s.rdb.Get(ctx, s.key(name)).Bytes()
	switch {
	case err == nil:
		o, decodeErr := tmplstore.Decode(name, data)
		if decodeErr == nil {
			if len(o) == 0 {
				return nil, nil
			}
			return o, nil
		}
		log().WithError(decodeErr).WithField("template", name).Warn("dropping undecodable cache entry")
	case !errors.Is(err, redis.Nil):
		log().WithError(err).WithField("template", name).Warn("template cache read failed")
	}

	o, err := s.backing.Template(ctx, name)
	if err != nil {
		return nil, err
	}

	s.store(ctx, name, o)
	return o, nil
}

func (s *CachedStore) store(ctx context.Context, name string, o activemsg.TemplateOverride) {
	data, err := tmplstore.Encode(name, o)
	if err != nil {
		log().WithError(err).WithField("template", name).Warn("template not cached")
		return
	}
	if err := s.rdb.Set(ctx, s.key(name), data, s.ttl).Err(); err != nil {
		log().WithError(err).WithField("template", name).Warn("template cache write failed")
	}
}

// Invalidate drops the cached entry for name.
func (s *CachedStore) Invalidate(ctx context.Context, name string) error {
	if err := s.rdb.Del(ctx, s.key(name)).Err(); err != nil {
		return tmplstore.Backend(name, err)
	}
	return nil
}

// Save writes through to the backing store, then invalidates the cache.
func (s *CachedStore) Save(ctx context.Context, name string, override activemsg.TemplateOverride) error {
	w, ok := s.backing.(tmplstore.Writer)
	if !ok {
		return tmplstore.Backend(name, errors.New("backing store is read-only"))
	}
	if err := w.Save(ctx, name, override); err != nil {
		return err
	}
	return s.Invalidate(ctx, name)
}

// Delete removes name from the backing store and the cache.
func (s *CachedStore) Delete(ctx context.Context, name string) error {
	w, ok := s.backing.(tmplstore.Writer)
	if !ok {
		return tmplstore.Backend(name, errors.New("backing store is read-only"))
	}
	if err := w.Delete(ctx, name); err != nil {
		return err
	}
	return s.Invalidate(ctx, name)
}

// Names lists the backing store's templates; it is never cached.
func (s *CachedStore) Names(ctx context.Context) ([]string, error) {
	l, ok := s.backing.(tmplstore.Lister)
	if !ok {
		return nil, nil
	}
	return l.Names(ctx)
}

func log() *logx.Entry {
	return logx.Component("tmplredis")
}
