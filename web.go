package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/playpalace/playpalace/internal/auth"
	"github.com/playpalace/playpalace/internal/locale"
	"github.com/playpalace/playpalace/internal/persist"
	"github.com/playpalace/playpalace/internal/server"
	"github.com/playpalace/playpalace/internal/table"
)

const timeout time.Duration = 10 * time.Second

func serveVersion() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("playpalace v" + releaseVersion + "\n"))
	}
}

func serveHealthCheck(tables *table.Manager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK, " + strconv.Itoa(tables.Count()) + " tables\n"))
	}
}

// ServePage wires the collaborators together and runs the server until
// the context is cancelled.
func ServePage(ctx context.Context, cfg *Config) error {
	if cfg.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if cfg.localesDir != "" {
		if err := locale.LoadDir(cfg.localesDir); err != nil {
			return err
		}
	}

	accounts, err := auth.OpenFileStore(cfg.dataDir, cfg.autoCreate)
	if err != nil {
		return err
	}
	store, err := persist.NewStore(cfg.dataDir)
	if err != nil {
		return err
	}

	tables := table.NewManager(0, cfg.tableCap)

	hubCfg := server.DefaultConfig()
	hubCfg.AuthTimeout = cfg.authTimeout
	hubCfg.IdleTimeout = cfg.idleTimeout
	hub := server.New(hubCfg, accounts, tables, store, accounts)

	logrus.WithField("version", releaseVersion).Info("starting playpalace")

	mux := httprouter.New()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           mux,
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: timeout,
	}

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	mux.GET(cfg.prefix+"/ws", hub.HandleWS())

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(tables))

	mux.GET(cfg.prefix+"/version", serveVersion())

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	go func() {
		var err error
		logrus.WithField("addr", cfg.scheme()+"://"+srv.Addr+cfg.prefix+"/ws").Info("listening")
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("server stopped")
		}
	}()

	<-ctx.Done()
	tables.DestroyAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	return nil
}
