// Command hawkdb runs the HawkDB engine behind its HTTP API: connection
// profiles, a single interactive database session, query execution, and
// result export.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hawkdb/hawkdb/internal/config"
	"github.com/hawkdb/hawkdb/internal/filestore"
	fsminio "github.com/hawkdb/hawkdb/internal/filestore/minio"
	"github.com/hawkdb/hawkdb/internal/logger"
	"github.com/hawkdb/hawkdb/internal/profile"
	"github.com/hawkdb/hawkdb/internal/runner"
	"github.com/hawkdb/hawkdb/internal/server"
	"github.com/hawkdb/hawkdb/internal/session"
	"github.com/hawkdb/hawkdb/internal/session/mysql"
	"github.com/hawkdb/hawkdb/internal/session/postgres"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The logger is configured by the file we just failed to read,
		// so report this one error with a bare default logger.
		logger.New(nil).Fatal(err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	store, err := profile.NewStore(cfg.ProfilePath)
	if err != nil {
		log.Fatal(err.Error())
	}

	sess, defaultPort, err := newSession(cfg.Driver, log)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer sess.Disconnect()

	var publisher filestore.Store
	if cfg.ObjectStore.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		publisher, err = fsminio.New(ctx, &filestore.Config{
			Endpoint:  cfg.ObjectStore.Endpoint,
			AccessKey: cfg.ObjectStore.AccessKey,
			SecretKey: cfg.ObjectStore.SecretKey,
			UseSSL:    cfg.ObjectStore.UseSSL,
			Bucket:    cfg.ObjectStore.Bucket,
		})
		cancel()
		if err != nil {
			log.Fatal(err.Error())
		}
		defer publisher.Close()
		log.Infof("export publication enabled, endpoint %s", cfg.ObjectStore.Endpoint)
	}

	srv := server.New(log, server.Options{
		Profiles:    store,
		Session:     sess,
		Runner:      runner.New(log),
		ExportDir:   cfg.ExportDir,
		DefaultPort: defaultPort,
		Publisher:   publisher,
		Bucket:      cfg.ObjectStore.Bucket,
	})

	httpSrv := &http.Server{
		Addr:    cfg.Listen,
		Handler: srv.Router(),
	}

	go func() {
		log.Infof("hawkdb listening on %s (driver %s)", cfg.Listen, cfg.Driver)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err.Error())
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.ErrorWith("shutdown failed", err)
	}
}

func newSession(driver string, log *logger.Logger) (session.Session, int, error) {
	switch driver {
	case "mysql":
		return mysql.New(log), mysql.DefaultPort, nil
	case "postgres":
		return postgres.New(log), postgres.DefaultPort, nil
	default:
		return nil, 0, errors.New("unknown driver " + driver + " (want mysql or postgres)")
	}
}

func defaultConfigPath() string {
	if p := os.Getenv(config.EnvPath); p != "" {
		return p
	}
	return "hawkdb.yaml"
}
