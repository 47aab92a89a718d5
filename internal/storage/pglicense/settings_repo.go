package pglicense

import (
	"context"
	"encoding/json"

	"github.com/BearBump/CourierGate/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// GetCourierSettings: без строки настроек возвращаются нулевые настройки.
func (s *Storage) GetCourierSettings(ctx context.Context) (models.CourierSettings, error) {
	var (
		raw []byte
		out models.CourierSettings
	)
	err := s.db.QueryRow(ctx, `SELECT settings FROM courier_settings WHERE id = 1`).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, nil
	}
	if err != nil {
		return out, errors.Wrap(err, "select courier settings")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.CourierSettings{}, errors.Wrap(err, "decode courier settings")
	}
	return out, nil
}

func (s *Storage) SaveCourierSettings(ctx context.Context, in models.CourierSettings) error {
	b, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "encode courier settings")
	}
	_, err = s.db.Exec(ctx, `
INSERT INTO courier_settings (id, settings, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()
`, b)
	if err != nil {
		return errors.Wrap(err, "upsert courier settings")
	}
	return nil
}

// SeedCourierSettings пишет настройки, только если строки ещё нет.
// Возвращает true, если запись произошла.
func (s *Storage) SeedCourierSettings(ctx context.Context, in models.CourierSettings) (bool, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return false, errors.Wrap(err, "encode courier settings")
	}
	tag, err := s.db.Exec(ctx, `
INSERT INTO courier_settings (id, settings, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO NOTHING
`, b)
	if err != nil {
		return false, errors.Wrap(err, "seed courier settings")
	}
	return tag.RowsAffected() == 1, nil
}
