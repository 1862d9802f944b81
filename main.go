package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/config"
	"github.com/yeremiapane/restaurant-backoffice/dashboard"
	"github.com/yeremiapane/restaurant-backoffice/database"
	"github.com/yeremiapane/restaurant-backoffice/events"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/media"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/router"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

type app struct {
	cfg       *config.Config
	db        *gorm.DB
	engine    *gin.Engine
	sessions  *panel.Sessions
	blacklist *utils.Blacklist
	closers   []func() error
}

// newApp wires every component from cfg. Optional integrations (AMQP, S3,
// Telegram) are skipped with a warning when they cannot be reached.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	var (
		gw         gateway.Gateway
		localStore *gateway.Store
	)
	switch cfg.Gateway.Backend {
	case config.BackendLocal:
		localStore = gateway.NewStore(db)
		gw = localStore
		utils.InfoLogger.Info("Using local record store")
	default:
		client, err := gateway.NewClient(cfg.Gateway.Client())
		if err != nil {
			return nil, err
		}
		gw = client
		utils.InfoLogger.WithField("url", cfg.Gateway.BaseURL).Info("Using remote record gateway")
	}

	if err := database.Migrate(db, localStore); err != nil {
		return nil, err
	}
	if _, err := database.SeedAdmin(db, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, db: db}

	hub := notify.NewHub()
	notifiers := notify.Multi{notify.LogNotifier{}, hub}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			utils.ErrorLogger.Warnf("Telegram alerts disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQP.Enabled() {
		p, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			utils.ErrorLogger.Warnf("Change events disabled: %v", err)
		} else {
			publisher = p
			a.closers = append(a.closers, p.Close)
		}
	}

	var uploader media.Uploader
	if cfg.S3.Enabled() {
		up, err := media.NewS3Uploader(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicURL)
		if err != nil {
			utils.ErrorLogger.Warnf("Image uploads disabled: %v", err)
		} else {
			uploader = up
		}
	}

	set := services.NewSet(services.Deps{
		Gateway:   gw,
		Notifier:  notifiers,
		Publisher: publisher,
	})
	a.sessions = panel.NewSessions(set)
	a.blacklist = utils.NewBlacklist(time.Hour)

	a.engine = router.SetupRouter(router.Deps{
		DB:           db,
		Services:     set,
		Sessions:     a.sessions,
		Dashboard:    dashboard.NewLoader(set),
		Hub:          hub,
		Tokens:       utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Blacklist:    a.blacklist,
		Uploader:     uploader,
		CORSOrigin:   cfg.CORSOrigin,
		LoginLimiter: middlewares.NewStrictRateLimiter(),
	})
	return a, nil
}

func (a *app) start() {
	a.sessions.Start()
	a.blacklist.Start()
}

func (a *app) stop() {
	a.sessions.Stop()
	a.blacklist.Stop()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			utils.ErrorLogger.Errorf("Error during shutdown: %v", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel)
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to start: %v", err)
	}
	a.start()
	defer a.stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.engine,
	}
	go func() {
		utils.InfoLogger.Infof("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Info("Shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("Server shutdown: %v", err)
	}
}
