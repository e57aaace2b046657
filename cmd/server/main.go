// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/unclebandit/hey-mailer/internal/config"
	"github.com/unclebandit/hey-mailer/internal/controller"
	"github.com/unclebandit/hey-mailer/internal/db"
	"github.com/unclebandit/hey-mailer/internal/handler"
	"github.com/unclebandit/hey-mailer/internal/logger"
	"github.com/unclebandit/hey-mailer/internal/metrics"
	"github.com/unclebandit/hey-mailer/internal/repository"
	"github.com/unclebandit/hey-mailer/internal/service"
)

var envFileFlag = &cli.StringFlag{
	Name:  "env-file",
	Value: ".env",
	Usage: "optional dotenv file loaded before the process environment",
}

func main() {
	app := &cli.App{
		Name:   "hey-mailer",
		Usage:  "sends a friendly hey email and keeps a record of every attempt",
		Flags:  []cli.Flag{envFileFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the http server",
				Flags:  []cli.Flag{envFileFlag},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply pending database migrations",
				Flags: []cli.Flag{envFileFlag},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("env-file"))
					if err != nil {
						return err
					}
					conn, err := db.Open(c.Context, cfg.DBDriver, cfg.DSN(), cfg.DBMaxOpenConns)
					if err != nil {
						return err
					}
					defer conn.Close()
					return db.Migrate(conn, cfg.DBDriver, cfg.DSN())
				},
				Subcommands: []*cli.Command{
					{
						Name:  "status",
						Usage: "print the applied schema version",
						Flags: []cli.Flag{envFileFlag},
						Action: func(c *cli.Context) error {
							cfg, err := config.Load(c.String("env-file"))
							if err != nil {
								return err
							}
							conn, err := db.Open(c.Context, cfg.DBDriver, cfg.DSN(), cfg.DBMaxOpenConns)
							if err != nil {
								return err
							}
							defer conn.Close()
							version, dirty, err := db.Version(conn, cfg.DBDriver, cfg.DSN())
							if err != nil {
								return err
							}
							fmt.Printf("Current version: %d\nDirty: %v\n", version, dirty)
							return nil
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DSN(), cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.WithField("driver", cfg.DBDriver).Info("connected to database")

	if cfg.DBAutoMigrate {
		if err := db.Migrate(conn, cfg.DBDriver, cfg.DSN()); err != nil {
			return err
		}
	}

	sender, closeSender, err := service.NewConfiguredSender(cfg, log)
	if err != nil {
		return err
	}
	defer closeSender()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	emailRepo := repository.NewEmailRepository(conn)
	emailService := service.NewEmailService(emailRepo, sender, m, logger.Named(log, "service"))

	emailController := &controller.EmailController{
		EmailService: emailService,
		Log:          logger.Named(log, "controller"),
	}
	pageHandler := &handler.PageHandler{
		Store: emailRepo,
		Log:   logger.Named(log, "handler"),
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(emailController, pageHandler, m, logger.Named(log, "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newRouter(emails *controller.EmailController, pages *handler.PageHandler, m *metrics.Metrics, log *logrus.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	r.Get("/", pages.Index)
	r.Get("/healthz", pages.Healthz)
	emails.Routes(r)
	return r
}
