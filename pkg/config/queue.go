package config

import (
	"time"

	"github.com/spf13/viper"
)

// QueueConfig configures deferred sending.
type QueueConfig struct {
	Enabled         bool
	Queues          []string
	Concurrency     int
	MaxRetries      int
	PollInterval    time.Duration
	ShutdownTimeout time.Duration
	DequeueTimeout  time.Duration
	RetryDelay      time.Duration
	// JobTTL bounds how long finished jobs stay readable; zero keeps them.
	JobTTL time.Duration
}

func setQueueDefaults(v *viper.Viper) {
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.queues", "default")
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.poll_interval", "1s")
	v.SetDefault("queue.shutdown_timeout", "30s")
	v.SetDefault("queue.dequeue_timeout", "5s")
	v.SetDefault("queue.retry_delay", "30s")
	v.SetDefault("queue.job_ttl", "168h")
}

func loadQueueConfig(v *viper.Viper) QueueConfig {
	return QueueConfig{
		Enabled:         v.GetBool("queue.enabled"),
		Queues:          stringList(v, "queue.queues"),
		Concurrency:     v.GetInt("queue.concurrency"),
		MaxRetries:      v.GetInt("queue.max_retries"),
		PollInterval:    v.GetDuration("queue.poll_interval"),
		ShutdownTimeout: v.GetDuration("queue.shutdown_timeout"),
		DequeueTimeout:  v.GetDuration("queue.dequeue_timeout"),
		RetryDelay:      v.GetDuration("queue.retry_delay"),
		JobTTL:          v.GetDuration("queue.job_ttl"),
	}
}
