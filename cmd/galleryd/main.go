package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/photocore/eventgallery/internal/app"
	"github.com/photocore/eventgallery/internal/config"
	"github.com/photocore/eventgallery/internal/logger"
)

func main() {
	configPath := flag.String("config", envOr("GALLERY_CONFIG", "config.yaml"), "path to config file")
	flag.Parse()

	path := *configPath
	if _, err := os.Stat(path); err != nil {
		log.Printf("config %s not found, using defaults and environment", path)
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(cfg.Storage.LogsPath); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Cleanup()

	live := config.NewLive(cfg)
	if path != "" {
		w, err := config.Watch(path, live, func(c *config.Config) {
			logger.InfoLog.Printf("Config reloaded: page_size=%d preview_count=%d", c.Gallery.PageSize, c.Gallery.PreviewCount)
		})
		if err != nil {
			log.Printf("warning: config hot reload disabled: %v", err)
		} else {
			defer w.Stop()
		}
	}

	a, err := app.New(live)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	defer a.Close()

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Server.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("gallery BFF for backend %s", cfg.Backend.URL)
	if err := a.Server.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
