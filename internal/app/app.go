package app

import (
	"context"
	"net/http"
	"time"

	"zoo_roulette/database"
	"zoo_roulette/internal/config"
	"zoo_roulette/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	serviceProvider *serviceProvider
	router          *chi.Mux
}

func NewApp(ctx context.Context) (*App, error) {
	a := &App{}

	if err := a.initDeps(ctx); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initMigrations,
		a.initRouter,
	}

	for _, f := range inits {
		if err := f(ctx); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) initConfig(_ context.Context) error {
	// .env не обязателен: в контейнере переменные задаются окружением
	if err := config.Load(".env"); err != nil {
		log := a.serviceProviderLazy().Logger()
		log.Info("no .env file, using environment variables")
	}

	return nil
}

func (a *App) initMigrations(_ context.Context) error {
	return database.Migrate(a.serviceProviderLazy().PGConfig().DSN())
}

func (a *App) initRouter(ctx context.Context) error {
	sp := a.serviceProviderLazy()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := sp.AuthMiddleware()
	gameHandler := sp.GameHandler(ctx)
	authHandler := sp.AuthHandler(ctx)
	lbHandler := sp.LeaderboardHandler(ctx)

	r.Route("/api/game", func(r chi.Router) {
		// Чтение доступно анонимно, но с токеном история обогащается
		// ставками пользователя
		r.Group(func(r chi.Router) {
			r.Use(authMw.AuthenticateOptional)
			r.Get("/state", gameHandler.State)
			r.Get("/history", gameHandler.History)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.Authenticate)
			r.Post("/bet", gameHandler.Bet)
			r.Post("/bets/batch", gameHandler.BatchBets)
		})

		r.Get("/heartbeat", gameHandler.Heartbeat)
		r.Post("/create", gameHandler.Create)
	})

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMw.Authenticate)
			r.Get("/profile", authHandler.Profile)
		})
	})

	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Get("/", lbHandler.Top)
		r.Get("/rank/{userID}", lbHandler.Rank)
	})

	a.router = r

	return nil
}

func (a *App) serviceProviderLazy() *serviceProvider {
	if a.serviceProvider == nil {
		a.serviceProvider = newServiceProvider()
	}

	return a.serviceProvider
}

func (a *App) Run(ctx context.Context) error {
	sp := a.serviceProvider
	log := sp.Logger()

	// Фоновый планировщик: расчет просроченных раундов и открытие новых
	go sp.SchedulerService(ctx).Run(ctx)

	if port := sp.MetricsConfig().Port(); len(port) > 0 {
		metricsSrv := startMetrics(sp, port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	srv := &http.Server{
		Addr:              sp.HTTPConfig().Address(),
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("server started", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func startMetrics(sp *serviceProvider, port string) *http.Server {
	return metrics.StartServer(port, func(ctx context.Context) error {
		return sp.dbc.Ping(ctx)
	})
}
