package issuance

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/pkg/errors"
)

const (
	keyAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxKeyAttempts  = 10
	defaultChunkLen = 4
	defaultChunks   = 4
)

var (
	errInvalidFormat    = apperr.Validation("invalid_format_id", "The specified license format ID does not exist.")
	errGenerationFailed = apperr.New(apperr.KindStorage, 500, "generation_failed", "Could not generate a unique key after 10 attempts. Check format rules.")
)

// Rand: источник случайности для ключей (в тестах подменяется).
type Rand interface {
	Intn(n int) int
}

type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(errors.Wrap(err, "crypto rand"))
	}
	return int(v.Int64())
}

type KeyStore interface {
	GetFormat(ctx context.Context, id uint64) (*models.LicenseFormat, error)
	LicenseKeyExists(ctx context.Context, key string) (bool, error)
}

type KeyGenerator struct {
	store KeyStore
	rnd   Rand
}

func NewKeyGenerator(store KeyStore, rnd Rand) *KeyGenerator {
	if rnd == nil {
		rnd = cryptoRand{}
	}
	return &KeyGenerator{store: store, rnd: rnd}
}

// Compose собирает ключ по формату: prefix + чанки через "-" + suffix.
func (g *KeyGenerator) Compose(f models.LicenseFormat) string {
	chunkLen, chunks := f.ChunkLength, f.TotalChunks
	if chunkLen <= 0 {
		chunkLen = defaultChunkLen
	}
	if chunks <= 0 {
		chunks = defaultChunks
	}

	parts := make([]string, chunks)
	buf := make([]byte, chunkLen)
	for i := range parts {
		for j := range buf {
			buf[j] = keyAlphabet[g.rnd.Intn(len(keyAlphabet))]
		}
		parts[i] = string(buf)
	}
	return f.Prefix + strings.Join(parts, "-") + f.Suffix
}

// Generate возвращает ключ, которого ещё нет в хранилище.
func (g *KeyGenerator) Generate(ctx context.Context, formatID uint64) (string, error) {
	f, err := g.store.GetFormat(ctx, formatID)
	if err != nil {
		return "", errors.Wrap(err, "get format")
	}
	if f == nil {
		return "", errInvalidFormat
	}

	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key := g.Compose(*f)
		exists, err := g.store.LicenseKeyExists(ctx, key)
		if err != nil {
			return "", errors.Wrap(err, "check key uniqueness")
		}
		if !exists {
			return key, nil
		}
	}
	return "", errGenerationFailed
}
