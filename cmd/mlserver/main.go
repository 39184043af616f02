package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"apex-ml/internal/cfg"
	"apex-ml/internal/metrics"
	"apex-ml/internal/ml"
	"apex-ml/internal/server"
	"apex-ml/internal/service"
	"apex-ml/internal/storage"
)

func main() {
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	setupLogging(c.LogLevel)

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	predictor := initializePredictor(c, mw)
	policy := ml.NewPolicy(c.ApproveThreshold)

	var recorder service.SampleRecorder
	if store != nil {
		recorder = store
	}
	svc := service.New(predictor, policy, mw, recorder)

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	srv := server.New(svc, addr)

	errs := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	waitForShutdown(srv, errs)
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// initializeStorage opens the sample store when DATA_PATH is configured.
// Sample capture is best effort; the service runs without it.
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without sample capture")
		return nil
	}
	return store
}

// initializePredictor prefers the trained ONNX model when MODEL_PATH points
// at one, falling back to the rule model otherwise.
func initializePredictor(c cfg.Settings, mw *metrics.Wrapper) ml.Predictor {
	if c.ModelPath != "" {
		onnx, err := ml.NewONNXPredictor(c.ModelPath, c.PredictTimeout, mw)
		if err == nil {
			return onnx
		}
		log.Warn().Err(err).Msg("trained model unavailable, using rule model")
		mw.FallbackInc()
	}
	return ml.NewSimplePredictor()
}

func waitForShutdown(srv *server.Server, errs chan error) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case err := <-errs:
		log.Error().Err(err).Msg("server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown timeout, forcing exit")
	} else {
		log.Info().Msg("server stopped")
	}
}
