// Flight price prediction API.
//
// Usage:
//
//	flightfare serve
//	flightfare migrate
//	flightfare predict --source Delhi --destination Cochin --airline IndiGo \
//	    --departure 2024-03-01T10:30 --arrival 2024-03-01T13:20
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/satheesh067/Flight-Price-Prediction/config"
	"github.com/satheesh067/Flight-Price-Prediction/features"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/predictor"
	"github.com/satheesh067/Flight-Price-Prediction/server"
	"github.com/satheesh067/Flight-Price-Prediction/services"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:  "flightfare",
		Usage: "Flight price prediction API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-mode",
				Value:   "dev",
				Usage:   "Log mode (dev, prod)",
				EnvVars: []string{"LOG_MODE"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			predictCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Log.Mode = c.String("log-mode")
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the metrics listener",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "migrate",
				Value: true,
				Usage: "Auto-migrate the schema before serving",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()
			gin.SetMode(cfg.Server.GinMode)

			db, err := store.Open(cfg.Database)
			if err != nil {
				return err
			}
			if c.Bool("migrate") {
				if err := store.Migrate(db); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			model, err := predictor.Load(cfg.Model)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			log.Info("model loaded", "backend", cfg.Model.Backend, "path", cfg.Model.Path)

			cache, err := services.NewCacheService(cfg.Redis, log)
			if err != nil {
				log.Warn("continuing without redis", "error", err)
			}
			defer cache.Close()

			router := server.NewRouter(cfg, server.WireServices(cfg, db, model, cache, log), log)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			servers := []*http.Server{{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}}
			if cfg.Metrics.Addr != "" {
				servers = append(servers, metricsServer(cfg.Metrics.Addr))
			}

			g, gctx := errgroup.WithContext(ctx)
			for _, srv := range servers {
				srv := srv
				g.Go(func() error {
					log.Info("listening", "addr", srv.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("serve %s: %w", srv.Addr, err)
					}
					return nil
				})
			}
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				for _, srv := range servers {
					_ = srv.Shutdown(shutdownCtx)
				}
				return nil
			})
			return g.Wait()
		},
	}
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := store.Open(cfg.Database)
			if err != nil {
				return err
			}
			if err := store.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("schema migrated", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predict",
		Usage: "Price a single itinerary with the configured model without storing it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Required: true, Usage: "Departure city"},
			&cli.StringFlag{Name: "destination", Required: true, Usage: "Arrival city"},
			&cli.StringFlag{Name: "airline", Required: true, Usage: "Airline name"},
			&cli.IntFlag{Name: "stops", Value: 0, Usage: "Number of stops"},
			&cli.StringFlag{Name: "departure", Required: true, Usage: "Departure time (ISO-8601)"},
			&cli.StringFlag{Name: "arrival", Required: true, Usage: "Arrival time (ISO-8601)"},
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			defer log.Sync()

			dep, err := features.ParseTimestamp(c.String("departure"))
			if err != nil {
				return err
			}
			arr, err := features.ParseTimestamp(c.String("arrival"))
			if err != nil {
				return err
			}
			req := features.Request{
				Source:      c.String("source"),
				Destination: c.String("destination"),
				Airline:     c.String("airline"),
				Stops:       c.Int("stops"),
				Departure:   dep,
				Arrival:     arr,
			}

			vec, dur, err := features.DefaultEncoder().EncodeJourney(req)
			if err != nil {
				return err
			}
			model, err := predictor.Load(cfg.Model)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}
			price, err := model.Predict(c.Context, vec)
			if err == nil {
				err = predictor.Finite(price)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"price":    predictor.Round2(price),
				"duration": dur,
			})
		},
	}
}
