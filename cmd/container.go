// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis, AWS) and wires the
// mailer, template store, activemsg client and send queue from config.
package main

import (
	"context"
	"sync"

	"github.com/Abraxas-365/activemail/pkg/activemsg"
	"github.com/Abraxas-365/activemail/pkg/activemsg/msgapi"
	"github.com/Abraxas-365/activemail/pkg/activemsg/msghook"
	"github.com/Abraxas-365/activemail/pkg/activemsg/msgvalidator"
	"github.com/Abraxas-365/activemail/pkg/auth"
	"github.com/Abraxas-365/activemail/pkg/config"
	"github.com/Abraxas-365/activemail/pkg/fsx"
	"github.com/Abraxas-365/activemail/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/activemail/pkg/fsx/fsxs3"
	"github.com/Abraxas-365/activemail/pkg/logx"
	"github.com/Abraxas-365/activemail/pkg/msgqueue"
	"github.com/Abraxas-365/activemail/pkg/msgqueue/msgqueueredis"
	"github.com/Abraxas-365/activemail/pkg/notifx"
	"github.com/Abraxas-365/activemail/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/activemail/pkg/notifx/notifxses"
	"github.com/Abraxas-365/activemail/pkg/notifx/notifxsmtp"
	"github.com/Abraxas-365/activemail/pkg/tmplstore"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplfs"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplmemory"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplpostgres"
	"github.com/Abraxas-365/activemail/pkg/tmplstore/tmplredis"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and the composed messaging services.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB    *sqlx.DB
	Redis *redis.Client
	AWS   *aws.Config

	// Messaging
	Mailer    *notifx.Mailer
	Templates tmplstore.Store
	Registry  *activemsg.Registry
	Client    *activemsg.Client
	Queue     *msgqueue.Client
	Handlers  *msgapi.Handlers

	// Auth
	Tokens *auth.JWTService
	Auth   *auth.TokenMiddleware

	workers sync.WaitGroup
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initMailer()
	c.initTemplates()
	c.initMessaging()
	c.initAuth()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure: DB, Redis, AWS
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	if dsn := c.Config.Database.URL; dsn != "" {
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
		db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
		db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
		c.DB = db
		logx.Info("  ✅ Database connected")
	}

	if addr := c.Config.Redis.Addr; addr != "" {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
			logx.Fatalf("Failed to connect to Redis: %v", err)
		}
		logx.Info("  ✅ Redis connected")
	}

	needsAWS := c.Config.Mailer.Provider == config.MailerSES ||
		(c.Config.Templates.Store == config.StoreFS && c.Config.Templates.FSMode == config.FSS3)
	if needsAWS {
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(), awsConfig.WithRegion(c.Config.Mailer.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		c.AWS = &awsCfg
		logx.Infof("  ✅ AWS configured (region: %s)", c.Config.Mailer.AWSRegion)
	}

	logx.Info("✅ Infrastructure initialized")
}

// ---------------------------------------------------------------------------
// Mailer
// ---------------------------------------------------------------------------

func (c *Container) initMailer() {
	mc := c.Config.Mailer

	var provider notifx.EmailSender
	switch mc.Provider {
	case config.MailerSES:
		provider = notifxses.NewSESProvider(ses.NewFromConfig(*c.AWS), mc.From())
	case config.MailerSMTP:
		p, err := notifxsmtp.NewSMTPProvider(notifxsmtp.Config{
			Host:     mc.SMTP.Host,
			Port:     mc.SMTP.Port,
			Username: mc.SMTP.Username,
			Password: mc.SMTP.Password,
			From:     mc.From(),
		})
		if err != nil {
			logx.Fatalf("Failed to configure SMTP: %v", err)
		}
		provider = p
	default:
		provider = notifxconsole.NewConsoleProvider(nil)
	}

	var opts []notifx.MailerOption
	if mc.ConfigSet != "" {
		opts = append(opts, notifx.WithDefaultSendOptions(notifx.WithConfigID(mc.ConfigSet)))
	}
	c.Mailer = notifx.NewMailer(provider, opts...)

	if err := c.Mailer.RegisterView(TransactionalView, transactionalHTML, transactionalText); err != nil {
		logx.Fatalf("Failed to register view %s: %v", TransactionalView, err)
	}

	logx.Infof("  ✅ Mailer configured (provider: %s)", mc.Provider)
}

// ---------------------------------------------------------------------------
// Template store
// ---------------------------------------------------------------------------

func (c *Container) initTemplates() {
	tc := c.Config.Templates

	var store tmplstore.Store
	switch tc.Store {
	case config.StorePostgres:
		pg := tmplpostgres.NewPostgresStore(c.DB)
		if tc.Migrate {
			if err := pg.Migrate(context.Background()); err != nil {
				logx.Fatalf("Failed to migrate template table: %v", err)
			}
		}
		store = pg
	case config.StoreFS:
		store = tmplfs.NewFileStore(c.fileSystem(), "")
	default:
		store = tmplmemory.NewMemoryStore(nil)
	}

	if tc.CacheTTL > 0 {
		store = tmplredis.NewCachedStore(c.Redis, store, tmplredis.WithTTL(tc.CacheTTL))
		logx.Infof("  ✅ Template cache enabled (ttl: %s)", tc.CacheTTL)
	}

	c.Templates = store
	logx.Infof("  ✅ Template store configured (store: %s)", tc.Store)
}

func (c *Container) fileSystem() fsx.FileSystem {
	tc := c.Config.Templates

	if tc.FSMode == config.FSS3 {
		logx.Infof("  ✅ S3 template files (bucket: %s, prefix: %s)", tc.Bucket, tc.Prefix)
		return fsxs3.NewS3FileSystem(s3.NewFromConfig(*c.AWS), tc.Bucket, tc.Prefix)
	}

	localFS, err := fsxlocal.NewLocalFileSystem(tc.Dir)
	if err != nil {
		logx.Fatalf("Failed to initialize local file system: %v", err)
	}
	logx.Infof("  ✅ Local template files (path: %s)", localFS.BasePath())
	return localFS
}

// ---------------------------------------------------------------------------
// Messaging: client, registry, queue, HTTP handlers
// ---------------------------------------------------------------------------

func (c *Container) initMessaging() {
	logx.Info("📦 Initializing messaging...")

	validator, err := msgvalidator.New()
	if err != nil {
		logx.Fatalf("Failed to build validator: %v", err)
	}

	c.Client = activemsg.NewClient(c.Mailer,
		activemsg.WithTemplateStore(c.Templates),
		activemsg.WithValidator(validator),
		activemsg.WithHooks(c.hooks()...),
	)

	c.Registry = activemsg.NewRegistry()
	registerMessages(c.Registry, c.Config.Mailer.From())

	apiOpts := []msgapi.Option{msgapi.WithTemplates(c.Templates)}

	if qc := c.Config.Queue; qc.Enabled {
		c.Queue = msgqueue.NewClient(
			msgqueueredis.NewRedisQueue(c.Redis, qc.JobTTL),
			c.Registry,
			c.Client,
			msgqueue.WithQueues(qc.Queues...),
			msgqueue.WithConcurrency(qc.Concurrency),
			msgqueue.WithMaxRetries(qc.MaxRetries),
			msgqueue.WithPollInterval(qc.PollInterval),
			msgqueue.WithShutdownTimeout(qc.ShutdownTimeout),
			msgqueue.WithDequeueTimeout(qc.DequeueTimeout),
			msgqueue.WithDefaultRetryDelay(qc.RetryDelay),
		)
		apiOpts = append(apiOpts, msgapi.WithQueue(c.Queue))
		logx.Infof("  ✅ Send queue configured (queues: %v)", qc.Queues)
	}

	if c.Config.Hooks.Suppression {
		apiOpts = append(apiOpts, msgapi.WithSuppression(c.Redis, c.Config.Hooks.SuppressionKey))
	}

	c.Handlers = msgapi.New(c.Registry, c.Client, apiOpts...)
	logx.Infof("  ✅ Messages registered: %v", c.Registry.Names())
}

func (c *Container) initAuth() {
	ac := c.Config.Auth
	c.Tokens = auth.NewJWTService(ac.JWTSecret, ac.TokenTTL, ac.Issuer)
	c.Auth = auth.NewAuthMiddleware(c.Tokens)
	logx.Infof("  ✅ API token auth configured (issuer: %s)", ac.Issuer)
}

func (c *Container) hooks() []activemsg.PreSendHook {
	hc := c.Config.Hooks

	var hooks []activemsg.PreSendHook
	if len(hc.AllowedDomains) > 0 {
		hooks = append(hooks, msghook.AllowDomains(hc.AllowedDomains...))
	}
	if hc.Suppression {
		hooks = append(hooks, msghook.Suppression(c.Redis, hc.SuppressionKey))
	}
	if hc.Logging {
		hooks = append(hooks, msghook.Logging(nil))
	}
	return hooks
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) StartBackgroundServices(ctx context.Context) {
	if c.Queue == nil {
		return
	}

	logx.Info("🔄 Starting send queue workers...")
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		if err := c.Queue.Start(ctx); err != nil {
			logx.Errorf("Send queue stopped: %v", err)
		}
	}()
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	// Workers hold the redis client until their in-flight sends finish.
	c.workers.Wait()

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
