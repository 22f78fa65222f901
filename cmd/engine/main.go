package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/trajtrunc/pkg/http"
	"github.com/lintang-b-s/trajtrunc/pkg/http/usecases"
	"github.com/lintang-b-s/trajtrunc/pkg/logger"
	"github.com/lintang-b-s/trajtrunc/pkg/truncation"
	"github.com/lintang-b-s/trajtrunc/pkg/util"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "apply the token bucket rate limiter to every request")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(); err != nil {
		logger.Warn("no config file, using defaults and environment", zap.Error(err))
	}
	cfg, err := util.LoadTruncationConfig()
	if err != nil {
		panic(err)
	}

	truncator, err := truncation.LoadTruncator(cfg, logger)
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)

	truncationService := usecases.NewTruncationService(logger, usecases.NewTruncatorFactory(truncator), cfg.MaxSpeedKmh)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx,
		logger, *useRateLimit, truncationService)

	signal := http.GracefulShutdown()

	logger.Info("trajtrunc Truncation Engine Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
