package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/BearBump/CourierGate/config"
	"github.com/BearBump/CourierGate/internal/broker/kafka"
	"github.com/BearBump/CourierGate/internal/broker/messages"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/BearBump/CourierGate/internal/services/issuance"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu       sync.Mutex
	licenses []models.LicenseCreateInput
}

func (r *memRepo) GetFormat(_ context.Context, id uint64) (*models.LicenseFormat, error) {
	if id != 1 {
		return nil, nil
	}
	return &models.LicenseFormat{ID: 1, Prefix: "CG-", ChunkLength: 4, TotalChunks: 4}, nil
}

func (r *memRepo) LicenseKeyExists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.licenses {
		if l.LicenseKey == key {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) CountLicensesForOrderProduct(_ context.Context, orderID, productID uint64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, l := range r.licenses {
		if l.OrderID == orderID && l.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CreateLicense(_ context.Context, in models.LicenseCreateInput) (*models.License, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.licenses = append(r.licenses, in)
	return &models.License{ID: uint64(len(r.licenses)), LicenseKey: in.LicenseKey}, nil
}

type recordingProducer struct {
	mu     sync.Mutex
	topics []string
	closed bool
}

func (p *recordingProducer) PublishJSON(_ context.Context, topic, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

// scriptedConsumer отдаёт заранее заданные сообщения и ждёт отмены контекста.
type scriptedConsumer struct {
	values [][]byte
	closed bool
}

func (c *scriptedConsumer) Consume(ctx context.Context, handler kafka.Handler) error {
	for _, v := range c.values {
		if err := handler(ctx, nil, v); err != nil && !isDrop(err) {
			return err
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *scriptedConsumer) Close() error {
	c.closed = true
	return nil
}

func isDrop(err error) bool {
	return errors.Is(err, kafka.ErrDrop)
}

func TestDefaultWorkerFactories_ProducerNonNil(t *testing.T) {
	f := defaultWorkerFactories()
	cfg := &config.Config{Kafka: config.KafkaConfig{Host: "localhost", Port: 9092}}
	p := f.newProducer(cfg)
	require.NotNil(t, p)
	require.NoError(t, p.Close())
}

func TestRunLicenseWorker_IssuesAndServesStats(t *testing.T) {
	grant, _ := json.Marshal(messages.LicenseGranted{OrderID: 42, ProductID: 7, Quantity: 2, FormatID: 1})
	repo := &memRepo{}
	prod := &recordingProducer{}
	cons := &scriptedConsumer{values: [][]byte{grant, grant, []byte("garbage")}}
	closedDB := false

	f := workerFactories{
		newStorage: func(*config.Config) (issuance.Repository, func(), error) {
			return repo, func() { closedDB = true }, nil
		},
		newProducer: func(*config.Config) publisher { return prod },
		newConsumer: func(*config.Config) messageConsumer { return cons },
	}

	listening := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- RunLicenseWorker(ctx, &config.Config{}, f, workerOpts{
			httpAddr: "127.0.0.1:0",
			onListen: func(addr string) { listening <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-listening:
	case <-time.After(2 * time.Second):
		t.Fatal("worker http did not start")
	}

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/stats")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		var st issuance.Stats
		if json.NewDecoder(resp.Body).Decode(&st) != nil {
			return false
		}
		return st.Handled == 2 && st.Issued == 2 && st.Skipped == 1 && st.Dropped == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting worker to stop")
	}

	require.Len(t, repo.licenses, 2)
	for _, l := range repo.licenses {
		require.Regexp(t, `^CG-[0-9A-Z]{4}(-[0-9A-Z]{4}){3}$`, l.LicenseKey)
		require.Equal(t, models.LicenseStatusActive, l.Status)
		require.Nil(t, l.ExpiresAt)
		require.Equal(t, 1, l.ActivationLimit)
	}
	require.Equal(t, []string{"license.issued"}, prod.topics)
	require.True(t, prod.closed)
	require.True(t, cons.closed)
	require.True(t, closedDB)
}
