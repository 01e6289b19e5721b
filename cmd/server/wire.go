package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"swissshield/internal/admin"
	"swissshield/internal/admin/adapters"
	"swissshield/internal/directory"
	"swissshield/internal/downloadtoken"
	"swissshield/internal/letter"
	"swissshield/internal/order"
	orderhandler "swissshield/internal/order/handler"
	ordermetrics "swissshield/internal/order/metrics"
	"swissshield/internal/payment"
	"swissshield/internal/payment/devpay"
	stripegw "swissshield/internal/payment/stripe"
	"swissshield/internal/platform/config"
	"swissshield/internal/platform/kafka"
	"swissshield/internal/platform/metrics"
	"swissshield/internal/platform/postgres"
	"swissshield/internal/platform/redis"
	rlmetrics "swissshield/internal/ratelimit/metrics"
	rlmiddleware "swissshield/internal/ratelimit/middleware"
	rlmodels "swissshield/internal/ratelimit/models"
	"swissshield/internal/ratelimit/store/bucket"
	"swissshield/pkg/platform/audit"
	"swissshield/pkg/platform/audit/publisher"
	"swissshield/pkg/platform/audit/store/fanout"
	auditkafka "swissshield/pkg/platform/audit/store/kafka"
	auditmemory "swissshield/pkg/platform/audit/store/memory"
	auditpostgres "swissshield/pkg/platform/audit/store/postgres"
	"swissshield/pkg/platform/httputil"
	"swissshield/pkg/platform/middleware/device"
	"swissshield/pkg/platform/middleware/metadata"
	"swissshield/pkg/platform/middleware/request"
	"swissshield/pkg/platform/middleware/requesttime"
)

// App is the wired server and the resources it owns.
type App struct {
	Router    http.Handler
	Directory *directory.Directory

	redis   *redis.Client
	db      *sql.DB
	kafka   *kgo.Client
	auditor *publisher.Publisher
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	if a.auditor != nil {
		a.auditor.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func build(ctx context.Context, cfg config.Server, log *slog.Logger) (_ *App, err error) {
	app := &App{}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if app.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if app.db, err = postgres.Open(ctx, cfg.Postgres); err != nil {
		return nil, err
	}
	if app.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		return nil, err
	}

	if app.Directory, err = loadDirectory(cfg.Directory); err != nil {
		return nil, err
	}
	policyName := cfg.Letter.LanguagePolicy
	if policyName == "" {
		policyName = app.Directory.LanguagePolicy()
	}
	policy, err := letter.NewLanguagePolicy(policyName)
	if err != nil {
		return nil, err
	}
	renderer := letter.NewRenderer(policy,
		letter.WithPayrollPage(cfg.Letter.PayrollPage),
		letter.WithLogger(log),
	)

	auditStore, auditReader, err := buildAuditStore(ctx, app, cfg)
	if err != nil {
		return nil, err
	}
	app.auditor = publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(1024),
		publisher.WithLogger(log),
		publisher.WithMetrics(publisher.NewMetrics()),
	)

	r := chi.NewRouter()
	httpMetrics := metrics.New()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata(cfg.TrustedProxies))
	r.Use(device.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(log))
	r.Use(httpMetrics.Middleware)
	r.Use(request.Timeout(cfg.RequestTimeout))

	gateway, err := buildGateway(app, cfg, log, r)
	if err != nil {
		return nil, err
	}

	orders := order.NewService(app.Directory, renderer, gateway,
		downloadtoken.New(cfg.Download.TokenKey, downloadtoken.WithTTL(cfg.Download.TokenTTL)),
		order.WithBaseURL(cfg.BaseURL),
		order.WithLogger(log),
		order.WithMetrics(ordermetrics.New()),
		order.WithAuditPublisher(app.auditor),
	)

	var buckets rlmiddleware.BucketStore = bucket.NewInMemoryBucketStore()
	if app.redis != nil {
		buckets = bucket.NewRedisBucketStore(app.redis.Client)
	}
	limiter := rlmiddleware.New(buckets, log, rlmiddleware.WithMetrics(rlmetrics.New()))
	checkoutPolicy := rlmodels.Policy{Limit: cfg.RateLimit.CheckoutLimit, Window: cfg.RateLimit.CheckoutWindow}
	downloadPolicy := rlmodels.Policy{Limit: cfg.RateLimit.CheckoutLimit * 6, Window: cfg.RateLimit.CheckoutWindow}

	orderhandler.New(orders, log,
		orderhandler.WithCheckoutLimiter(limiter.RateLimit(rlmodels.ScopeCheckout, checkoutPolicy)),
		orderhandler.WithDownloadLimiter(limiter.RateLimit(rlmodels.ScopeDownload, downloadPolicy)),
	).Register(r)

	adminOpts := []admin.Option{admin.WithLogger(log)}
	if auditReader != nil {
		adminOpts = append(adminOpts, admin.WithAuditStore(adapters.NewAuditStoreAdapter(auditReader)))
	}
	adminSvc, err := admin.New(adapters.NewDirectoryAdapter(app.Directory), adminOpts...)
	if err != nil {
		return nil, err
	}
	admin.NewHandler(adminSvc, []byte(cfg.AdminTokenHash), log).Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", app.health)

	app.Router = r
	return app, nil
}

func loadDirectory(cfg config.DirectoryConfig) (*directory.Directory, error) {
	if cfg.File != "" {
		return directory.LoadFile(cfg.File)
	}
	return directory.Load(cfg.Variant)
}

// buildAuditStore prefers Postgres for the readable trail, falls back to
// memory, and mirrors to Kafka when brokers are configured.
func buildAuditStore(ctx context.Context, app *App, cfg config.Server) (audit.Store, audit.Lister, error) {
	var primary interface {
		audit.Store
		audit.Lister
	}
	if app.db != nil {
		pg := auditpostgres.New(app.db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate audit store: %w", err)
		}
		primary = pg
	} else {
		primary = auditmemory.NewInMemoryStore()
	}
	if app.kafka == nil {
		return primary, primary, nil
	}
	return fanout.New(primary, auditkafka.New(app.kafka, cfg.Kafka.AuditTopic)), primary, nil
}

func buildGateway(app *App, cfg config.Server, log *slog.Logger, r chi.Router) (payment.Gateway, error) {
	switch cfg.Payment.Provider {
	case config.ProviderStripe:
		opts := []stripegw.Option{stripegw.WithAmount(cfg.Payment.AmountCents, cfg.Payment.Currency)}
		if cfg.Payment.StripePriceID != "" {
			opts = append(opts, stripegw.WithPriceID(cfg.Payment.StripePriceID))
		}
		return stripegw.New(cfg.Payment.StripeSecretKey, opts...), nil
	case config.ProviderDev:
		var store devpay.SessionStore = devpay.NewMemoryStore()
		if app.redis != nil {
			store = devpay.NewRedisStore(app.redis.Client)
		}
		gw := devpay.New(store, cfg.BaseURL)
		devpay.NewHandler(gw, log).Register(r)
		log.Warn("dev payment provider enabled; checkouts are not charged")
		return gw, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Payment.Provider)
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{
		"directory": fmt.Sprintf("%d entries", a.Directory.Len()),
	}}
	check := func(name string, err error) {
		if err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			return
		}
		resp.Checks[name] = "ok"
	}
	if a.redis != nil {
		check("redis", a.redis.Health(ctx))
	}
	if a.db != nil {
		check("postgres", a.db.PingContext(ctx))
	}
	if a.kafka != nil {
		check("kafka", a.kafka.Ping(ctx))
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
