package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/pbrandao/varejo/api"
	"github.com/pbrandao/varejo/backend"
	"github.com/pbrandao/varejo/cep"
	"github.com/pbrandao/varejo/config"
	"github.com/pbrandao/varejo/core/cart"
	"github.com/pbrandao/varejo/database"
	"github.com/pbrandao/varejo/rate"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "VAREJO"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	storage, err := cartStorage(cfg, logger)
	if err != nil {
		return err
	}

	carts := cart.NewStores(cart.Config{
		Storage:        storage,
		RequireVariant: cfg.Cart.RequireVariant,
		Log:            logger,
	})

	bk := backend.New(backend.Config{
		URL:            cfg.Backend.URL,
		Timeout:        cfg.Backend.Timeout,
		BreakerHalfMax: cfg.Backend.BreakerHalfMax,
		BreakerCool:    cfg.Backend.BreakerCool,
		Session:        sessionManager,
		Log:            logger,
	})

	limiter := rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, rate.Every(cfg.Rate.Interval))

	mux := api.APIMux(api.APIConfig{
		CorsOrigin: cfg.Cors.Origin,
		Log:        logger,
		Session:    sessionManager,
		Backend:    bk,
		Carts:      carts,
		CEP:        cep.NewClient(),
		Limiter:    limiter,
	})

	server := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

// cartStorage builds the durable side of the cart store from the
// configured driver.
func cartStorage(cfg config.Config, logger *logrus.Logger) (cart.Storage, error) {
	switch cfg.Cart.Driver {
	case "memory":
		return cart.NewMemory(), nil

	case "postgres":
		db, err := database.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open db connection: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrating cart schema: %w", err)
		}
		return cart.NewPostgres(db), nil

	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		logger.Infof("cart storage on mongo database %s", cfg.Mongo.Database)
		return cart.NewMongo(client.Database(cfg.Mongo.Database)), nil

	default:
		return nil, fmt.Errorf("unknown cart storage driver %q", cfg.Cart.Driver)
	}
}
