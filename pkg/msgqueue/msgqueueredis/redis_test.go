package msgqueueredis_test

import (
	"context"
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

func newQueue(t *testing.T) (*miniredis.Miniredis, *msgqueueredis.RedisQueue) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, msgqueueredis.NewRedisQueue(rdb, time.Hour)
}

func job() msgqueue.Job {
	return msgqueue.Job{
		Message:    "welcome",
		Params:     map[string]any{"name": "Ann"},
		Fields:     activemsg.Fields{Subject: "Hello"},
		Queue:      "mail",
		MaxRetries: 1,
	}
}

func TestRedisQueue_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mr, q := newQueue(t)

	id, err := q.Enqueue(ctx, job())
	require.NoError(t, err)

	info, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusPending, info.Status)
	assert.Equal(t, "welcome", info.Message)
	assert.Equal(t, "Hello", info.Fields.Subject)
	assert.Equal(t, "Ann", info.Params["name"])

	got, err := q.Dequeue(ctx, []string{"mail"}, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, msgqueue.JobStatusActive, got.Status)
	assert.Equal(t, 1, got.Attempts)

	require.NoError(t, q.Complete(ctx, id))
	info, err = q.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusSent, info.Status)
	assert.Equal(t, time.Hour, mr.TTL("msgqueue:job:"+id))
}

func TestRedisQueue_DequeueTimeout(t *testing.T) {
	_, q := newQueue(t)

	got, err := q.Dequeue(context.Background(), []string{"empty"}, time.Second)

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisQueue_DelayedAndPromoted(t *testing.T) {
	ctx := context.Background()
	mr, q := newQueue(t)

	later, err := q.EnqueueDelayed(ctx, job(), time.Hour)
	require.NoError(t, err)
	now, err := q.EnqueueDelayed(ctx, job(), -time.Second)
	require.NoError(t, err)

	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))

	ready, err := mr.List("msgqueue:queue:mail")
	require.NoError(t, err)
	assert.Equal(t, []string{now}, ready)

	scheduled, err := mr.ZMembers("msgqueue:scheduled:mail")
	require.NoError(t, err)
	assert.Equal(t, []string{later}, scheduled)
}

func TestRedisQueue_FailAndRetry(t *testing.T) {
	ctx := context.Background()
	_, q := newQueue(t)

	id, err := q.Enqueue(ctx, job())
	require.NoError(t, err)

	_, err = q.Dequeue(ctx, []string{"mail"}, time.Second)
	require.NoError(t, err)
	retry, err := q.Fail(ctx, id, "smtp down", true)
	require.NoError(t, err)
	assert.True(t, retry)

	require.NoError(t, q.Retry(ctx, id, 0))
	require.NoError(t, q.PromoteScheduled(ctx, []string{"mail"}))

	again, err := q.Dequeue(ctx, []string{"mail"}, time.Second)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, 2, again.Attempts)

	retry, err = q.Fail(ctx, id, "smtp still down", true)
	require.NoError(t, err)
	assert.False(t, retry)

	info, err := q.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, msgqueue.JobStatusFailed, info.Status)
	assert.Equal(t, "smtp still down", info.Error)
}

func TestRedisQueue_NonRetryableFailure(t *testing.T) {
	ctx := context.Background()
	_, q := newQueue(t)

	id, err := q.Enqueue(ctx, job())
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, []string{"mail"}, time.Second)
	require.NoError(t, err)

	retry, err := q.Fail(ctx, id, "invalid message", false)

	require.NoError(t, err)
	assert.False(t, retry)
}

func TestRedisQueue_GetJobNotFound(t *testing.T) {
	_, q := newQueue(t)

	_, err := q.GetJob(context.Background(), "missing")

	assert.True(t, errx.HasCode(err, msgqueueredis.ErrNotFound))
}
