package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/cli"
	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/httpapi"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 10*time.Minute, "HTTP write timeout (batch syncs can be slow)")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
	bodyLimit := fs.String("body-limit", "2M", "Maximum request body size")
	provider := fs.String("provider", "", "Translation provider name (http, google, local)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
		return 2
	}

	cfg, err := loadEnvConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	rt, err := newSyncRuntime(dbCtx, cfg, runtimeOptions{Provider: *provider})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Serve setup failed: %v\n", err)
		return 1
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Store:             rt.pool,
		Engine:            rt.engine,
		Driver:            rt.driver,
		Registry:          rt.registry,
		Metrics:           rt.metrics,
		CanonicalLanguage: rt.engine.CanonicalLanguage(),
		TargetLanguages:   rt.engine.TargetLanguages(),
	}, rt.logger, httpapi.Options{
		Host:            *host,
		Port:            *port,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: *shutdownTimeout,
		BodyLimit:       *bodyLimit,
		AllowedOrigins:  cfg.CORSAllowedOriginsList(),
		TokenHash:       cfg.APITokenHash,
	})

	if cfg.APITokenHash == "" {
		rt.logger.Warn().Msg("API_TOKEN_HASH is not set; sync endpoints are open")
	}

	if err := srv.Start(ctx); err != nil {
		rt.logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}
