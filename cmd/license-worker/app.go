package main

import (
	"context"

	"github.com/BearBump/CourierGate/config"
	"github.com/BearBump/CourierGate/internal/broker/kafka"
	"github.com/BearBump/CourierGate/internal/services/issuance"
	"github.com/BearBump/CourierGate/internal/storage/pglicense"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type messageConsumer interface {
	Consume(ctx context.Context, handler kafka.Handler) error
	Close() error
}

type publisher interface {
	issuance.Publisher
	Close() error
}

type workerFactories struct {
	newStorage  func(cfg *config.Config) (repo issuance.Repository, closeFn func(), err error)
	newProducer func(cfg *config.Config) publisher
	newConsumer func(cfg *config.Config) messageConsumer
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newStorage: func(cfg *config.Config) (issuance.Repository, func(), error) {
			st, err := pglicense.New(cfg.Database.ConnString())
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newProducer: func(cfg *config.Config) publisher {
			return kafka.NewProducer(cfg.Kafka.Brokers())
		},
		newConsumer: func(cfg *config.Config) messageConsumer {
			group := cfg.CourierGate.WorkerConsumerGroup
			if group == "" {
				group = "license-worker"
			}
			return kafka.NewConsumer(cfg.Kafka.Brokers(), cfg.Kafka.GrantedTopic(), group)
		},
	}
}

type workerOpts struct {
	httpAddr string
	onListen func(httpAddr string)
}

func RunLicenseWorker(ctx context.Context, cfg *config.Config, f workerFactories, opts workerOpts) error {
	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}

	producer := f.newProducer(cfg)
	defer func() { _ = producer.Close() }()

	consumer := f.newConsumer(cfg)
	defer func() { _ = consumer.Close() }()

	issuer := issuance.NewIssuer(repo, issuance.NewKeyGenerator(repo, nil), producer, cfg.Kafka.IssuedTopic())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"component": "license-worker",
			"topic":     cfg.Kafka.GrantedTopic(),
		}).Info("kafka consumer started")
		return consumer.Consume(gctx, issuer.HandleMessage)
	})
	g.Go(func() error {
		return runWorkerHTTPServer(gctx, workerHTTPOpts{
			httpAddr: opts.httpAddr,
			onListen: opts.onListen,
			stats:    issuer,
		})
	})
	return g.Wait()
}
