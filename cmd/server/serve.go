package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/cardcomposer/internal/api"
	"github.com/youruser/cardcomposer/internal/config"
	imagepkg "github.com/youruser/cardcomposer/internal/image"
	"github.com/youruser/cardcomposer/internal/logger"
	"github.com/youruser/cardcomposer/internal/store"
	"github.com/youruser/cardcomposer/internal/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// renderGraph is what both serve and render need: compositors for the
// default layout and each preset, plus the image fetcher.
type renderGraph struct {
	compositor *imagepkg.Compositor
	presets    map[string]*imagepkg.Compositor
	fetcher    *imagepkg.Fetcher
}

func buildGraph(cfg *config.Config) (*renderGraph, error) {
	fonts, err := imagepkg.NewFontResolver(cfg.Fonts)
	if err != nil {
		return nil, err
	}
	assets, err := imagepkg.NewAssetLoader(0)
	if err != nil {
		return nil, err
	}

	g := &renderGraph{presets: map[string]*imagepkg.Compositor{}}
	g.compositor, err = imagepkg.NewCompositor(cfg.Render, fonts, assets)
	if err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	for name, rc := range cfg.Presets {
		comp, err := imagepkg.NewCompositor(rc, fonts, assets)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		g.presets[name] = comp
	}

	g.fetcher = imagepkg.NewFetcher(imagepkg.FetchOptions{
		Client: util.NewHTTPClient(util.HTTPOptions{
			Timeout:  cfg.Fetch.Timeout,
			RetryMax: cfg.Fetch.RetryMax,
		}),
		MaxSize:   cfg.Fetch.MaxSize,
		RateLimit: cfg.Fetch.RateLimit,
		UserAgent: cfg.Fetch.UserAgent,
	})
	return g, nil
}

func runServe(ctx context.Context) error {
	log := logger.WithNamespace("server")

	g, err := buildGraph(cfg)
	if err != nil {
		return err
	}
	images := store.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.NewServer(api.Options{
		Compositor: g.compositor,
		Presets:    g.presets,
		Fetcher:    g.fetcher,
		Store:      images,
		Rules:      cfg.Request.ContentRules(),
		PublicURL:  cfg.Server.PublicURL,
	}))

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Infof("starting server on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
