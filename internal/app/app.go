package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ivankudzin/sanctionbot/internal/config"
	"github.com/ivankudzin/sanctionbot/internal/infra/discord"
	"github.com/ivankudzin/sanctionbot/internal/infra/metrics"
	"github.com/ivankudzin/sanctionbot/internal/jobs/expiry"
	"github.com/ivankudzin/sanctionbot/internal/repo/memory"
	"github.com/ivankudzin/sanctionbot/internal/services/audit"
	"github.com/ivankudzin/sanctionbot/internal/services/moderation"
	httptransport "github.com/ivankudzin/sanctionbot/internal/transport/http"
	"github.com/ivankudzin/sanctionbot/internal/ui"
)

// Responder delivers rendered screens back to the platform.
type Responder interface {
	Respond(ctx context.Context, in discord.Interaction, screen ui.Screen, ephemeral bool) error
	Update(ctx context.Context, in discord.Interaction, screen ui.Screen) error
}

type App struct {
	cfg    config.Config
	logger *zap.Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	client    *discord.Client
	responder Responder
	http      *httptransport.Server

	auditService      *audit.Service
	moderationService *moderation.Service
	sweeper           *expiry.Job

	histories *viewRegistry[*historyView]
	erasures  *viewRegistry[*eraseView]

	now func() time.Time
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		registry:  registry,
		metrics:   m,
		histories: newViewRegistry[*historyView](viewHistory, cfg.Moderation.MaxViews, cfg.Moderation.HistoryViewTTL, m),
		erasures:  newViewRegistry[*eraseView](viewErase, cfg.Moderation.MaxViews, cfg.Moderation.EraseViewTTL, m),
		now:       time.Now,
	}

	client, err := discord.NewClient(discord.Options{
		Token:    cfg.Discord.Token,
		AppID:    cfg.Discord.AppID,
		GuildID:  cfg.Discord.GuildID,
		Commands: slashCommands(),
	}, logger.Named("discord"), a.routeInteraction)
	if err != nil {
		return nil, fmt.Errorf("create discord client: %w", err)
	}
	a.client = client
	a.responder = client

	store := memory.NewSanctionRepo()
	a.auditService = audit.NewService(memory.NewAuditRepo(0), logger)
	a.moderationService = moderation.NewService(store, client, a.auditService, m, cfg.Moderation.MuteRoleName)
	a.sweeper = expiry.New(store, client, cfg.Moderation.MuteRoleName, logger.Named("expiry"))
	a.sweeper.AttachObservability(a.auditService, m)
	a.sweeper.Throttle(rate.Limit(cfg.Moderation.SweepRate), cfg.Moderation.SweepBurst)

	if addr := strings.TrimSpace(cfg.HTTP.Addr); addr != "" {
		router := httptransport.NewRouter(httptransport.Dependencies{
			Gatherer: registry,
			Audit:    a.auditService,
			DryRun:   client.DryRun(),
			Logger:   logger.Named("http"),
		})
		a.http = httptransport.NewServer(addr, router, cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, logger.Named("http"))
	}

	return a, nil
}

// Run blocks until ctx is cancelled or one of the components fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("sanction bot starting",
		zap.Bool("dry_run", a.client.DryRun()),
		zap.Duration("sweep_interval", a.cfg.Moderation.SweepInterval),
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.client.Start(ctx)
	})
	group.Go(func() error {
		return a.sweeper.Loop(ctx, a.cfg.Moderation.SweepInterval)
	})
	if a.http != nil {
		group.Go(func() error {
			return a.http.Run(ctx)
		})
	}

	err := group.Wait()
	a.logger.Info("sanction bot stopped")
	return err
}
