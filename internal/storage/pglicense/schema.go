package pglicense

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS licenses (
  id BIGSERIAL PRIMARY KEY,
  license_key TEXT NOT NULL UNIQUE,
  product_id BIGINT NOT NULL DEFAULT 0,
  order_id BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'inactive',
  expires_at TIMESTAMPTZ NULL,
  activation_limit INT NOT NULL DEFAULT 1,
  current_activations INT NOT NULL DEFAULT 0,
  activated_domains JSONB NOT NULL DEFAULT '[]'::jsonb,
  allow_courier_api BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_order_product ON licenses(order_id, product_id)`,
		`
CREATE TABLE IF NOT EXISTS license_formats (
  id BIGSERIAL PRIMARY KEY,
  format_name TEXT NOT NULL,
  prefix TEXT NOT NULL DEFAULT '',
  suffix TEXT NOT NULL DEFAULT '',
  chunk_length INT NOT NULL DEFAULT 4,
  total_chunks INT NOT NULL DEFAULT 4
)`,
		// Одна строка настроек агрегатора (id всегда 1).
		`
CREATE TABLE IF NOT EXISTS courier_settings (
  id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  settings JSONB NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
