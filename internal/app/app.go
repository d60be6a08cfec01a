package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lovoo/goka"
	"github.com/niksmo/misslily/config"
	"github.com/niksmo/misslily/internal/adapter"
	"github.com/niksmo/misslily/internal/adapter/auth"
	"github.com/niksmo/misslily/internal/adapter/httphandler"
	"github.com/niksmo/misslily/internal/adapter/kafka"
	"github.com/niksmo/misslily/internal/adapter/storage"
	"github.com/niksmo/misslily/internal/core/ingest"
	"github.com/niksmo/misslily/internal/core/live"
	"github.com/niksmo/misslily/internal/core/service"
	"github.com/niksmo/misslily/pkg/retry"
	"github.com/niksmo/misslily/pkg/schema"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/time/rate"
)

// startupRetry covers dependencies that come up together with the service.
var startupRetry = retry.RetryConfig{
	MaxAttempts: 10,
	Backoff:     retry.LinearBackoff(time.Second),
}

type serdes struct {
	change         schema.Serde
	inquiry        schema.Serde
	contactMessage schema.Serde
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tls        *tls.Config
	wg         sync.WaitGroup
	db         storage.SQLDB
	rdb        *redis.Client
	serdes     serdes
	hub        *live.Hub
	producer   kafka.ChangeProducer
	consumer   kafka.ChangeConsumer
	emitter    kafka.IntakeEmitter
	processor  *kafka.IntakeProcessor
	service    service.Service
	sessions   auth.Sessions
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initTLS()
	app.initStorage()
	app.initSessions()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	t := app.cfg.Broker.TLS
	if !t.Enabled() {
		return
	}

	tlsConfig, err := adapter.LoadTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tls = tlsConfig

	gokaConfig := goka.DefaultConfig()
	gokaConfig.Net.TLS.Enable = true
	gokaConfig.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(gokaConfig)
}

func (app *App) kafkaOpts() []kgo.Opt {
	if app.tls == nil {
		return nil
	}
	return []kgo.Opt{kgo.DialTLSConfig(app.tls)}
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	db, err := storage.OpenSQLDB(app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}

	err = retry.Do(app.ctx, startupRetry, func() error {
		return db.Ping(app.ctx)
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.db = db
}

func (app *App) initSessions() {
	const op = "App.initSessions"

	rdb, err := retry.DoWithResult(app.ctx, startupRetry, func() (*redis.Client, error) {
		return auth.OpenRedis(app.ctx, app.cfg.RedisURL)
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.rdb = rdb

	sessions, err := auth.NewSessions(
		auth.Credentials{
			Email:        app.cfg.Admin.Email,
			PasswordHash: app.cfg.Admin.PasswordHash,
		},
		app.cfg.Admin.JWTSecret,
		auth.NewRedisRevocations(rdb),
		auth.TTLOpt(app.cfg.Admin.SessionTTL),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sessions = sessions
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx
	topics := app.cfg.Broker.Topics

	registry, err := schema.NewSchemaRegistry(app.cfg.Broker.SchemaRegistryURLs...)
	if err != nil {
		app.fallDown(op, err)
	}

	newSerde := func(
		ctor func(context.Context, ...schema.Opt) (schema.Serde, error), topic string,
	) schema.Serde {
		s, err := retry.DoWithResult(ctx, startupRetry, func() (schema.Serde, error) {
			return ctor(ctx,
				schema.SubjectOpt(topic+"-value"),
				schema.SchemaIdentifierOpt(registry),
			)
		})
		if err != nil {
			app.fallDown(op, err)
		}
		return s
	}

	app.serdes.change = newSerde(schema.NewSerdeChangeEventV1, topics.Changes)
	app.serdes.inquiry = newSerde(schema.NewSerdeInquiryV1, topics.Inquiries)
	app.serdes.contactMessage = newSerde(
		schema.NewSerdeContactMessageV1, topics.ContactMessages,
	)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	b := app.cfg.Broker

	producer, err := retry.DoWithResult(ctx, startupRetry, func() (kafka.ChangeProducer, error) {
		return kafka.NewChangeProducer(
			kafka.ProducerClientOpt(ctx, b.SeedBrokers, b.Topics.Changes, app.kafkaOpts()...),
			kafka.ProducerEncoderOpt(app.serdes.change),
		)
	})
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = producer

	emitter, err := kafka.NewIntakeEmitter(
		b.SeedBrokers,
		b.Topics.Inquiries,
		b.Topics.ContactMessages,
		app.serdes.inquiry,
		app.serdes.contactMessage,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.emitter = emitter

	store := storage.NewDocumentsRepository(app.db)
	app.hub = live.NewHub(store, app.cfg.Live.Coalesce)

	// Every instance reads the whole change feed.
	group := b.Consumers.ChangesGroupPrefix + "-" + uuid.NewString()
	consumer, err := kafka.NewChangeConsumer(
		kafka.ConsumerClientOpt(b.SeedBrokers, b.Topics.Changes, group, app.kafkaOpts()...),
		kafka.ConsumerDecoderOpt(app.serdes.change),
		kafka.ChangeConsumerNotifierOpt(app.hub),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.consumer = consumer
}

func (app *App) initCoreService() {
	img := app.cfg.Images
	app.service = service.New(service.Deps{
		Store:         storage.NewDocumentsRepository(app.db),
		Changes:       app.producer,
		Intake:        app.emitter,
		Subscriber:    app.hub,
		ProductPhotos: toProfile(img.Products),
		CategoryIcons: toProfile(img.Categories),

		WhatsAppNumber: app.cfg.WhatsAppNumber,
	})
}

func toProfile(p config.ImageProfile) ingest.Profile {
	return ingest.Profile{
		MaxBytes: int64(p.MaxBytes),
		MaxWidth: p.MaxWidth,
		Quality:  p.Quality,
	}
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	b := app.cfg.Broker
	processor, err := kafka.NewIntakeProcessor(
		b.SeedBrokers,
		b.Consumers.IntakeGroup,
		b.Topics.Inquiries,
		b.Topics.ContactMessages,
		app.serdes.inquiry,
		app.serdes.contactMessage,
		app.service,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.processor = processor

	h := app.cfg.HTTP
	router := httphandler.NewRouter(app.service, app.service, app.sessions,
		httphandler.RouterConfig{
			RequestTimeout:  h.RequestTimeout,
			UploadTimeout:   h.UploadTimeout,
			AllowedOrigins:  h.AllowedOrigins,
			SubmitRate:      rate.Limit(h.SubmitRate),
			SubmitBurst:     h.SubmitBurst,
			SecureCookie:    h.SecureCookie,
			TrustProxy:      h.TrustProxy,
			StreamHeartbeat: h.StreamHeartbeat,
		},
	)
	app.httpServer = httphandler.NewHTTPServer(h.Addr, router, h.ReadTimeout, h.IdleTimeout)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.consumer.Run(app.ctx)

	app.wg.Add(1)
	go app.processor.Run(app.ctx, stopFn, &app.wg)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.hub.Close()
	app.consumer.Close()
	app.processor.Close()
	app.wg.Wait()
	app.emitter.Close()
	app.producer.Close()
	if err := app.rdb.Close(); err != nil {
		slog.Error("failed to close redis client", "err", err)
	}
	app.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
