package msgqueue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/errx"
	"github.com/Abraxas-365/activemail/pkg/msgqueue"
	"github.com/Abraxas-365/activemail/pkg/msgqueue/msgqueueredis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type welcome struct{ name string }

func (welcome) DefaultFrom() string          { return "noreply@example.com" }
func (welcome) DefaultTo() []string          { return []string{"ann@example.com"} }
func (welcome) DefaultSubject() string       { return "Welcome {name}" }
func (welcome) DefaultBodyHTML() string      { return "<p>Hi {name}</p>" }
func (w welcome) Attributes() map[string]any { return map[string]any{"name": w.name} }

type outbox struct {
	result bool
	sent   []string
}

type transport struct{ subject string }

func (t *transport) SetSubject(s string) activemsg.TransportMessage { t.subject = s; return t }
func (t *transport) SetTo(...string) activemsg.TransportMessage     { return t }
func (t *transport) SetFrom(string) activemsg.TransportMessage      { return t }
func (t *transport) SetReplyTo(string) activemsg.TransportMessage   { return t }

func (o *outbox) Compose(context.Context, string, map[string]any) (activemsg.TransportMessage, error) {
	return &transport{}, nil
}

func (o *outbox) Send(_ context.Context, msg activemsg.TransportMessage) bool {
	o.sent = append(o.sent, msg.(*transport).subject)
	return o.result
}

func registry() *activemsg.Registry {
	r := activemsg.NewRegistry()
	r.Register("welcome", func(params map[string]any) (activemsg.Variant, error) {
		name, _ := params["name"].(string)
		if name == "" {
			return nil, errors.New("name is required")
		}
		return welcome{name: name}, nil
	})
	return r
}

func setup(t *testing.T, mailer *outbox, opts ...msgqueue.WorkerOption) (*msgqueue.Client, *msgqueueredis.RedisQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := msgqueueredis.NewRedisQueue(rdb, 0)
	opts = append([]msgqueue.WorkerOption{msgqueue.WithQueues("mail"), msgqueue.WithDefaultRetryDelay(0)}, opts...)
	return msgqueue.NewClient(q, registry(), activemsg.NewClient(mailer), opts...), q
}

func next(t *testing.T, q *msgqueueredis.RedisQueue) *msgqueue.JobInfo {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))
	info, err := q.Dequeue(ctx, []string{"mail"}, time.Second)
	require.NoError(t, err)
	require.NotNil(t, info)
	return info
}

func TestClient_ProcessSendsMessage(t *testing.T) {
	ctx := context.Background()
	mailer := &outbox{result: true}
	c, q := setup(t, mailer)

	id, err := c.Enqueue(ctx, msgqueue.Job{Message: "welcome", Params: map[string]any{"name": "Ann"}})
	require.NoError(t, err)

	c.Process(ctx, next(t, q))

	info, err := c.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusSent, info.Status)
	assert.Equal(t, "mail", info.Queue)
	assert.Equal(t, 3, info.MaxRetries)
	assert.Equal(t, []string{"Welcome Ann"}, mailer.sent)
}

func TestClient_ProcessAppliesFields(t *testing.T) {
	ctx := context.Background()
	mailer := &outbox{result: true}
	c, q := setup(t, mailer)

	_, err := c.Enqueue(ctx, msgqueue.Job{
		Message: "welcome",
		Params:  map[string]any{"name": "Ann"},
		Fields:  activemsg.Fields{Subject: "Hey {name}"},
	})
	require.NoError(t, err)

	c.Process(ctx, next(t, q))

	assert.Equal(t, []string{"Hey Ann"}, mailer.sent)
}

func TestClient_RetriesUnsentUntilMaxRetries(t *testing.T) {
	ctx := context.Background()
	mailer := &outbox{result: false}
	c, q := setup(t, mailer, msgqueue.WithMaxRetries(1))

	id, err := c.Enqueue(ctx, msgqueue.Job{Message: "welcome", Params: map[string]any{"name": "Ann"}})
	require.NoError(t, err)

	c.Process(ctx, next(t, q))
	info, err := c.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusRetrying, info.Status)

	c.Process(ctx, next(t, q))
	info, err = c.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusFailed, info.Status)
	assert.Equal(t, 2, info.Attempts)
	assert.Len(t, mailer.sent, 2)
}

func TestClient_VetoFailsAtOnce(t *testing.T) {
	ctx := context.Background()
	mailer := &outbox{result: true}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	q := msgqueueredis.NewRedisQueue(rdb, 0)
	sender := activemsg.NewClient(mailer, activemsg.WithHooks(func(context.Context, activemsg.ComposeEvent) bool {
		return false
	}))
	c := msgqueue.NewClient(q, registry(), sender, msgqueue.WithQueues("mail"), msgqueue.WithMaxRetries(3))

	id, err := c.Enqueue(ctx, msgqueue.Job{Message: "welcome", Params: map[string]any{"name": "Ann"}})
	require.NoError(t, err)

	c.Process(ctx, next(t, q))

	info, err := c.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusFailed, info.Status)
	assert.Equal(t, 1, info.Attempts)
	assert.Contains(t, info.Error, "vetoed")
	assert.Empty(t, mailer.sent)
}

func TestClient_InvalidMessageFailsAtOnce(t *testing.T) {
	ctx := context.Background()
	mailer := &outbox{result: true}
	c, q := setup(t, mailer)

	id, err := c.Enqueue(ctx, msgqueue.Job{
		Message: "welcome",
		Params:  map[string]any{"name": "Ann"},
		Fields:  activemsg.Fields{Subject: "   "},
	})
	require.NoError(t, err)

	c.Process(ctx, next(t, q))

	stored, err := c.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "subject cannot be blank.")
	assert.Empty(t, mailer.sent)
}

func TestClient_EnqueueRejectsUnknownOrInvalid(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t, &outbox{})

	_, err := c.Enqueue(ctx, msgqueue.Job{})
	assert.True(t, errx.HasCode(err, msgqueue.ErrInvalidJob))

	_, err = c.Enqueue(ctx, msgqueue.Job{Message: "nope"})
	assert.True(t, errx.HasCode(err, activemsg.ErrUnknownMessage))

	_, err = c.EnqueueDelayed(ctx, msgqueue.Job{Message: "welcome"}, time.Minute)
	assert.True(t, errx.HasCode(err, activemsg.ErrInvalidParams))
}

func TestClient_StartProcessesUntilCancelled(t *testing.T) {
	mailer := &outbox{result: true}
	c, _ := setup(t, mailer,
		msgqueue.WithConcurrency(1),
		msgqueue.WithPollInterval(10*time.Millisecond),
		msgqueue.WithDequeueTimeout(time.Second),
		msgqueue.WithShutdownTimeout(3*time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	id, err := c.Enqueue(context.Background(), msgqueue.Job{Message: "welcome", Params: map[string]any{"name": "Ann"}})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		info, err := c.GetJob(context.Background(), id)
		return err == nil && info.Status == msgqueue.JobStatusSent
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
