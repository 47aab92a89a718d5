package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/CourierGate/config"
	"github.com/BearBump/CourierGate/internal/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = RunLicenseWorker(ctx, cfg, defaultWorkerFactories(), workerOpts{httpAddr: cfg.CourierGate.WorkerHTTPAddr})
	if err != nil && !errors.Is(err, context.Canceled) {
		logrus.WithError(err).Fatal("license-worker stopped")
	}
}
