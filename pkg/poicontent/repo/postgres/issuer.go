package postgres

import (
	"context"
	"fmt"
)

// Issuer implements token.Issuer on top of the single-row upload_token table,
// for deployments where a local counter file would not survive the host.
// The increment is a single atomic statement, so concurrent issues never
// collide even across multiple server processes.
type Issuer struct {
	db DBTX
}

// NewIssuer creates a row-backed token issuer.
func NewIssuer(db DBTX) *Issuer {
	return &Issuer{db: db}
}

// Next issues the next upload token.
func (i *Issuer) Next(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO upload_token (id, value) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET value = upload_token.value + 1
		RETURNING value`

	var value int64
	if err := i.db.QueryRow(ctx, query).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to issue upload token: %w", err)
	}
	return value, nil
}
