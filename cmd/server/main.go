package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-clinic-console/apiclient"
	"github.com/jrsteele09/go-clinic-console/auth"
	"github.com/jrsteele09/go-clinic-console/internal/config"
	clinicerrors "github.com/jrsteele09/go-clinic-console/internal/errors"
	"github.com/jrsteele09/go-clinic-console/internal/metrics"
	"github.com/jrsteele09/go-clinic-console/router"
	"github.com/jrsteele09/go-clinic-console/server"
	"github.com/jrsteele09/go-clinic-console/stores"
	"github.com/jrsteele09/go-clinic-console/token"
	"github.com/jrsteele09/go-clinic-console/token/sqlitestore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errPanicRecovered = errors.New("panic recovered")

func main() {
	for {
		err := run()
		if err == nil {
			break
		}
		if !errors.Is(err, errPanicRecovered) {
			log.Fatal().Err(err).Msg("error running console")
		}
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("console stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errPanicRecovered
		}
	}()

	c, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}
	setupLogging(c)

	backend, err := sqlitestore.Open(c.GetTokenDBPath())
	if err != nil {
		return err
	}
	defer backend.Close()

	var tokenOptions []token.Option
	if key := c.GetTokenKey(); key != "" {
		sealer, err := token.NewSealerFromHex(key)
		if err != nil {
			return err
		}
		tokenOptions = append(tokenOptions, token.WithSealer(sealer))
	}
	tokens := token.New(backend, tokenOptions...)
	if err := tokens.Verify(); clinicerrors.Is(err, clinicerrors.ErrCorruptValue) {
		log.Warn().Err(err).Msg("stored session is unreadable, clearing it")
		if err := tokens.Clear(); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	client, err := apiclient.New(c, tokens, apiclient.WithRecorder(collector))
	if err != nil {
		return err
	}
	svc, err := auth.NewService(client, tokens)
	if err != nil {
		return err
	}
	state := auth.NewState(svc)
	state.InitializeFromStorage()

	guard, err := router.NewGuard(state, router.WithObserver(collector))
	if err != nil {
		return err
	}

	console, err := server.New(c, server.Deps{
		State:   state,
		Guard:   guard,
		Stores:  stores.NewSet(client),
		Metrics: metrics.Handler(registry),
	})
	if err != nil {
		return err
	}

	displayAppname(c.GetAppName())
	httpServer := &http.Server{Addr: c.GetPort(), Handler: console, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer, client.BaseURL()) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.EnvConfig) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

func listenAndServe(server *http.Server, apiURL string) error {
	log.Info().Str("addr", server.Addr).Str("api", apiURL).Msg("console listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
