package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dixieflatline76/Chronophoto/config"
	"github.com/dixieflatline76/Chronophoto/pkg/api"
	"github.com/dixieflatline76/Chronophoto/pkg/clock"
	"github.com/dixieflatline76/Chronophoto/pkg/commons"
	"github.com/dixieflatline76/Chronophoto/pkg/display"
	"github.com/dixieflatline76/Chronophoto/util/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/"+config.ConfigSubDir+"/"+config.ConfigFileName+")")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", config.AppName, config.AppVersion)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *debug {
		cfg.Debug = true
	}

	log.SetDebug(cfg.Debug)
	logCloser := log.SetFile(cfg.LogFile)
	defer logCloser.Close()

	ok, err := acquireLock()
	if err != nil {
		log.Fatalf("Failed to acquire single-instance lock: %v", err)
	}
	if !ok {
		log.Printf("Another instance of %s is already running.", config.AppName)
		return
	}
	defer releaseLock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Printf("%s exited with error: %v", config.AppName, err)
		releaseLock()
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		filename, err := config.GetFilename()
		if err != nil {
			return config.Config{}, err
		}
		path = filename
	}
	return config.Load(path)
}

// run wires the client, renderer, controller and server, and blocks until ctx is done.
func run(ctx context.Context, cfg config.Config) error {
	client := commons.NewClient(commons.Options{
		BaseURL:    cfg.APIBaseURL,
		UserAgent:  cfg.UserAgent,
		ThumbWidth: cfg.ThumbWidth,
		Timeout:    time.Duration(cfg.RequestTimeout),
		Rate:       cfg.RequestRate,
		Burst:      cfg.RequestBurst,
	})

	renderer := api.NewPageRenderer()
	controller := display.NewController(client, renderer, display.Options{
		Clock:       clock.SystemClock{},
		Interval:    time.Duration(cfg.Interval),
		FadeDelay:   time.Duration(cfg.FadeDelay),
		LoadTimeout: time.Duration(cfg.LoadTimeout),
	})

	server, err := api.NewServer(cfg.ListenAddr, renderer)
	if err != nil {
		return err
	}
	server.SetCurrentHandler(controller.Current)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("%s %s serving on http://%s/", config.AppName, config.AppVersion, server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("page server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return controller.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Print("Shutting down...")
		return server.Stop(shutdownCtx)
	})

	return g.Wait()
}
