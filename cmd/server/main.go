package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"foodtruck-pos/internal/ai"
	"foodtruck-pos/internal/auth"
	"foodtruck-pos/internal/businessday"
	"foodtruck-pos/internal/catalog"
	"foodtruck-pos/internal/config"
	"foodtruck-pos/internal/database"
	"foodtruck-pos/internal/dispatch"
	"foodtruck-pos/internal/handlers"
	"foodtruck-pos/internal/logging"
	"foodtruck-pos/internal/order"
	"foodtruck-pos/internal/queue"
	"foodtruck-pos/internal/sales"
	"foodtruck-pos/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "foodtruck-pos",
		Usage: "point of sale and sales reports for a food truck",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "optional dotenv file to load before the environment"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API (default)", Action: serve},
			{Name: "migrate", Usage: "create or update the database schema and exit", Action: migrate},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("foodtruck-pos stopped")
	}
}

// boot loads config, builds the logger and connects to the database.
func boot(c *cli.Context) (*config.Config, *logrus.Logger, *gorm.DB, error) {
	cfg, foundEnv, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, nil, nil, err
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if !foundEnv {
		log.Warn("No .env file found, using the process environment")
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, nil, nil, errors.Wrap(err, "migrate database")
	}
	return cfg, log, db, nil
}

func migrate(c *cli.Context) error {
	_, log, _, err := boot(c)
	if err != nil {
		return err
	}
	log.Info("Database schema is up to date")
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, db, err := boot(c)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Services, all sharing one store
	store := database.NewStore(db)
	h := &handlers.Handler{
		Log:      log,
		DB:       store,
		Users:    store,
		Tokens:   auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Catalog:  catalog.New(store),
		Business: businessday.NewService(store, time.Now, loc),
		Orders:   order.NewService(store, time.Now),
		Queue:    queue.New(store),
		Sales:    sales.NewService(store, loc),
		Sessions: session.NewRegistry(),
		Guard:    dispatch.NewGuard(cfg.IdempotencyTTL),
	}

	// 2. The assistant is optional
	if cfg.GeminiAPIKey != "" {
		assistant, err := ai.NewAssistant(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, &ai.Toolbox{
			Sales:    h.Sales,
			Menus:    h.Catalog,
			Queue:    h.Queue,
			Business: h.Business,
			Today:    h.Business.Today,
			Location: loc,
		}, log)
		if err != nil {
			return err
		}
		defer assistant.Close()
		h.Assistant = assistant
	} else {
		log.Info("GEMINI_API_KEY not set, the assistant is disabled")
	}

	// 3. Router
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestID(), logging.GinLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h.Routes(r, cfg.AllowRegistration)
	if cfg.AllowRegistration {
		log.Warn("Registration route is OPEN. Disable this in production!")
	}
	serveFrontend(r, cfg.WebDir, log)

	// 4. Run until interrupted
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("base_url", cfg.BaseURL).Info("Server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
}

// serveFrontend serves the built single-page app from dir when it exists.
func serveFrontend(r *gin.Engine, dir string, log logrus.FieldLogger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.WithField("dir", dir).Debug("No frontend build found")
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.StaticFile("/vite.svg", filepath.Join(dir, "vite.svg"))

	// Unknown paths belong to the client-side router
	r.NoRoute(func(c *gin.Context) {
		c.File(index)
	})
}
