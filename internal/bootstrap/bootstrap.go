package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	domainauth "taskflow-server-go/internal/domain/auth"
	"taskflow-server-go/internal/domain/auth/session"
	"taskflow-server-go/internal/domain/eventbus"
	domaintask "taskflow-server-go/internal/domain/task"
	domainuser "taskflow-server-go/internal/domain/user"
	platformconfig "taskflow-server-go/internal/platform/config"
	platformerrors "taskflow-server-go/internal/platform/errors"
	platformlogging "taskflow-server-go/internal/platform/logging"
	platformstorage "taskflow-server-go/internal/platform/storage"
	httptransport "taskflow-server-go/internal/transport/http"
)

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	configPath string

	config   *platformconfig.Config
	logger   *platformlogging.Logger
	db       *gorm.DB
	bus      *eventbus.Bus
	sessions *session.Provider

	users *domainuser.Service
	tasks *domaintask.Service
	auth  *domainauth.Service
}

// Options configures a server run.
type Options struct {
	// ConfigPath points at an optional yaml config file.
	ConfigPath string
}

// Run starts the whole service lifecycle: configuration, dependencies,
// route registration and graceful shutdown.
func Run(ctx context.Context, opts Options) error {
	state := &appState{configPath: opts.ConfigPath}

	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.validate",
			"config/logger not initialised",
		)
	}
	defer logger.Close()

	if state.auth == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.validate",
			"auth service not initialised",
		)
	}

	defer func() {
		if err := state.sessions.Close(); err != nil {
			logger.Warn("session store did not close cleanly: %v", err)
		}
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return fmt.Errorf("failed to start http server: %w", err)
	}

	return waitForShutdown(signalCtx, cancel, logger, group)
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap.execute",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph declares the ordered initialization steps and their
// dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "storage:init-database",
			Title:     "Initialise database",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   initDatabaseStep,
		},
		{
			ID:        "eventbus:init",
			Title:     "Initialise event bus",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEventBusStep,
		},
		{
			ID:        "session:init-provider",
			Title:     "Initialise session store provider",
			DependsOn: []string{"config:load", "logging:init"},
			Kind:      platformerrors.KindSession,
			Execute:   initSessionProviderStep,
		},
		{
			ID:        "services:init",
			Title:     "Initialise domain services",
			DependsOn: []string{"storage:init-database", "session:init-provider", "eventbus:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initServicesStep,
		},
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	config, err := platformconfig.NewLoader(state.configPath).Load()
	if err != nil {
		return err
	}
	state.config = config
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(
			platformerrors.KindBootstrap,
			"logging:init",
			"failed to initialize logging",
			err,
		)
	}
	state.logger = logger

	logger.InfoTag("boot", "logging ready [%s]", state.config.Log.Level)
	if state.config.UsingInsecureSecret() {
		logger.Warn("JWT_SECRET is not set, using the built-in development secret; do not run this in production")
	}
	return nil
}

func initDatabaseStep(_ context.Context, state *appState) error {
	db, err := platformstorage.Open(state.config.Database.DSN)
	if err != nil {
		return platformerrors.Wrap(
			platformerrors.KindStorage,
			"storage:init-database",
			"failed to open database",
			err,
		)
	}
	state.db = db
	state.logger.InfoTag("boot", "database ready at %s", state.config.Database.DSN)
	return nil
}

func initEventBusStep(_ context.Context, state *appState) error {
	state.bus = eventbus.New()
	registerAuditSubscribers(state.bus, state.logger)
	return nil
}

func initSessionProviderStep(_ context.Context, state *appState) error {
	state.sessions = session.NewProvider(session.Options{
		Redis: session.RedisOptions{
			URL:        state.config.Redis.URL,
			Timeout:    state.config.Redis.Timeout.Std(),
			MaxRetries: state.config.Redis.MaxRetries,
		},
		Logger: state.logger,
	})
	return nil
}

func initServicesStep(_ context.Context, state *appState) error {
	userRepo := platformstorage.NewUserRepository(state.db)
	taskRepo := platformstorage.NewTaskRepository(state.db)

	state.users = domainuser.NewService(userRepo, state.logger)
	state.tasks = domaintask.NewService(taskRepo, state.logger, state.bus)

	codec := domainauth.NewTokenCodec(state.config.Auth.Secret, state.config.Auth.TokenTTL.Std())
	state.auth = domainauth.NewService(codec, state.sessions, state.users, state.logger, state.bus)

	return nil
}

// registerAuditSubscribers attaches log-only listeners for the domain
// lifecycle events.
func registerAuditSubscribers(bus *eventbus.Bus, logger *platformlogging.Logger) {
	_ = bus.SubscribeAsync(eventbus.TopicUserRegistered, func(ev eventbus.AuthEvent) {
		logger.InfoTag("audit", "user registered: %s (%s)", ev.UserID, ev.Email)
	})
	_ = bus.SubscribeAsync(eventbus.TopicUserLoggedIn, func(ev eventbus.AuthEvent) {
		if ev.Degraded {
			logger.WarnTag("audit", "user logged in with non-revocable token: %s", ev.UserID)
			return
		}
		logger.InfoTag("audit", "user logged in: %s", ev.UserID)
	})
	_ = bus.SubscribeAsync(eventbus.TopicUserLoggedOut, func(ev eventbus.AuthEvent) {
		logger.InfoTag("audit", "user logged out: %s", ev.UserID)
	})
	_ = bus.SubscribeAsync(eventbus.TopicTaskCreated, func(ev eventbus.TaskEvent) {
		logger.InfoTag("audit", "task created: %s by %s", ev.TaskID, ev.OwnerID)
	})
	_ = bus.SubscribeAsync(eventbus.TopicTaskDeleted, func(ev eventbus.TaskEvent) {
		logger.InfoTag("audit", "task deleted: %s by %s", ev.TaskID, ev.OwnerID)
	})
}

func startHTTPServer(
	state *appState,
	g *errgroup.Group,
	groupCtx context.Context,
) (*http.Server, error) {
	config := state.config
	logger := state.logger

	httpRouter, err := httptransport.Build(httptransport.Options{
		Config: config,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	router := httpRouter.Engine
	apiGroup := httpRouter.API

	guard := httptransport.NewAuthGuard(state.auth.Codec(), state.auth.Sessions(), logger)

	services := []interface {
		Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
	}{
		httptransport.NewAuthAPI(state.auth, guard, config, logger),
		httptransport.NewTaskAPI(state.tasks, guard, config, logger),
		httptransport.NewUserAPI(state.users, guard, config, logger),
	}
	for _, svc := range services {
		if err := svc.Start(groupCtx, router, apiGroup); err != nil {
			return nil, platformerrors.Wrap(
				platformerrors.KindTransport,
				"http:register-routes",
				"failed to register routes",
				err,
			)
		}
	}

	addr := config.Server.IP + ":" + strconv.Itoa(config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "server listening on http://%s", addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed: %v", err)
			return err
		}
		return nil
	})

	return httpServer, nil
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("boot", "shutdown signal received, cleaning up")

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("error during shutdown: %v", err)
			return err
		}
		logger.InfoTag("boot", "all services stopped")
	case <-time.After(15 * time.Second):
		logger.Error("shutdown timed out, forcing exit")
		return errors.New("shutdown timed out")
	}
	return nil
}
