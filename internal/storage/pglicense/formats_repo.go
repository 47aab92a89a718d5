package pglicense

import (
	"context"

	"github.com/BearBump/CourierGate/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

func (s *Storage) GetFormat(ctx context.Context, id uint64) (*models.LicenseFormat, error) {
	var f models.LicenseFormat
	err := s.db.QueryRow(ctx, `
SELECT id, format_name, prefix, suffix, chunk_length, total_chunks
FROM license_formats
WHERE id = $1
`, id).Scan(&f.ID, &f.Name, &f.Prefix, &f.Suffix, &f.ChunkLength, &f.TotalChunks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select license format")
	}
	return &f, nil
}

func (s *Storage) CreateFormat(ctx context.Context, f models.LicenseFormat) (*models.LicenseFormat, error) {
	if f.ChunkLength <= 0 {
		f.ChunkLength = 4
	}
	if f.TotalChunks <= 0 {
		f.TotalChunks = 4
	}
	err := s.db.QueryRow(ctx, `
INSERT INTO license_formats (format_name, prefix, suffix, chunk_length, total_chunks)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, f.Name, f.Prefix, f.Suffix, f.ChunkLength, f.TotalChunks).Scan(&f.ID)
	if err != nil {
		return nil, errors.Wrap(err, "insert license format")
	}
	return &f, nil
}
