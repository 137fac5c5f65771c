package service

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"time"

	"postboard/app/config"
	"postboard/app/repositories"
	"postboard/app/routes"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme/autocert"
)

const readHeaderTimeout = 10 * time.Second

// RunAppServer serves the API over store until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func RunAppServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, store repositories.Store) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           routes.SetupRoutes(store, cfg, logger),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          stdlog.New(logger, "", 0),
	}

	var challenge *http.Server
	if cfg.AutocertHost != "" {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.AutocertHost),
			Cache:      autocert.DirCache(cfg.AutocertCacheDir),
		}
		srv.TLSConfig = m.TLSConfig()
		challenge = &http.Server{
			Addr:              ":80",
			Handler:           m.HTTPHandler(nil),
			ReadHeaderTimeout: readHeaderTimeout,
		}
		go func() {
			if err := challenge.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("ACME challenge server stopped")
			}
		}()
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	logger.Info().
		Str("addr", ln.Addr().String()).
		Str("store", cfg.StoreDriver).
		Bool("tls", srv.TLSConfig != nil).
		Msg("Starting postboard server")

	err = serve(ctx, srv, ln, cfg.ShutdownTimeout)
	if challenge != nil {
		challenge.Close()
	}
	return err
}

// serve runs srv on ln and shuts it down once ctx is done.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if srv.TLSConfig != nil {
			errCh <- srv.ServeTLS(ln, "", "")
			return
		}
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
