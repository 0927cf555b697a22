package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	catalog "ledwall-configurator/internal/catalog/domain"
)

// CatalogRepository reads catalog overrides from Postgres. Empty tables keep
// the built-in defaults.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository constructs a repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Load builds a catalog from the stored overrides.
func (r *CatalogRepository) Load(ctx context.Context) (*catalog.Catalog, error) {
	overlay, err := r.Overlay(ctx)
	if err != nil {
		return nil, err
	}
	c, err := catalog.New(catalog.DefaultTables().Overlay(overlay))
	if err != nil {
		return nil, fmt.Errorf("catalog repo: %w", err)
	}
	return c, nil
}

// Overlay returns the stored overrides without merging defaults.
func (r *CatalogRepository) Overlay(ctx context.Context) (catalog.Overlay, error) {
	if r == nil || r.db == nil {
		return catalog.Overlay{}, errors.New("catalog repo: nil db")
	}
	var t catalog.Overlay
	var err error
	if t.Processors, err = r.processors(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	if t.Cards, err = r.cards(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	if t.Cabinets, err = r.cabinets(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	if t.PowerBuckets, err = r.buckets(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	if t.Pitches, err = r.pitches(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	if t.Policy, err = r.policy(ctx); err != nil {
		return catalog.Overlay{}, err
	}
	return t, nil
}

// Seed replaces all stored tables with t in one transaction.
func (r *CatalogRepository) Seed(ctx context.Context, t catalog.Overlay) error {
	if r == nil || r.db == nil {
		return errors.New("catalog repo: nil db")
	}
	if _, err := catalog.New(catalog.DefaultTables().Overlay(t)); err != nil {
		return err
	}
	policy, err := json.Marshal(t.Policy)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"catalog_processors", "catalog_cards", "catalog_cabinets", "catalog_power_buckets", "catalog_pitches"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	for _, p := range t.Processors {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_processors (id, label, family, ports)
VALUES ($1, $2, $3, $4)`, string(p.ID), p.Label, string(p.Family), p.Ports); err != nil {
			return err
		}
	}
	for _, c := range t.Cards {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_cards (id, label, max_width_px, max_height_px)
VALUES ($1, $2, $3, $4)`, string(c.ID), c.Label, c.MaxWidthPx, c.MaxHeightPx); err != nil {
			return err
		}
	}
	for _, c := range t.Cabinets {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_cabinets (id, label, width_mm, height_mm, weight_kg)
VALUES ($1, $2, $3, $4, $5)`, string(c.ID), c.Label, c.WidthMM, c.HeightMM, c.WeightKG); err != nil {
			return err
		}
	}
	for _, b := range t.PowerBuckets {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_power_buckets (environment, min_pitch, max_pitch, avg_w, peak_w)
VALUES ($1, $2, $3, $4, $5)`, string(b.Environment), b.MinPitch, b.MaxPitch, b.AvgWattsPerModule, b.PeakWattsPerModule); err != nil {
			return err
		}
	}
	for env, list := range t.Pitches {
		for _, pitch := range list {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_pitches (environment, pitch_mm)
VALUES ($1, $2)
ON CONFLICT (environment, pitch_mm) DO NOTHING`, string(env), pitch); err != nil {
				return err
			}
		}
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO catalog_policy (id, body, updated_at)
VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`, policy); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *CatalogRepository) processors(ctx context.Context) ([]catalog.Processor, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, label, family, ports
FROM catalog_processors
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Processor
	for rows.Next() {
		var p catalog.Processor
		var id, family string
		if err := rows.Scan(&id, &p.Label, &family, &p.Ports); err != nil {
			return nil, err
		}
		p.ID = catalog.ProcessorID(id)
		p.Family = catalog.ProcessorFamily(family)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) cards(ctx context.Context) ([]catalog.ReceivingCard, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, label, max_width_px, max_height_px
FROM catalog_cards
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.ReceivingCard
	for rows.Next() {
		var c catalog.ReceivingCard
		var id string
		if err := rows.Scan(&id, &c.Label, &c.MaxWidthPx, &c.MaxHeightPx); err != nil {
			return nil, err
		}
		c.ID = catalog.CardID(id)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) cabinets(ctx context.Context) ([]catalog.Cabinet, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, label, width_mm, height_mm, weight_kg
FROM catalog_cabinets
ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Cabinet
	for rows.Next() {
		var c catalog.Cabinet
		var id string
		if err := rows.Scan(&id, &c.Label, &c.WidthMM, &c.HeightMM, &c.WeightKG); err != nil {
			return nil, err
		}
		c.ID = catalog.CabinetID(id)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) buckets(ctx context.Context) ([]catalog.PowerBucket, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT environment, min_pitch, max_pitch, avg_w, peak_w
FROM catalog_power_buckets
ORDER BY environment, min_pitch`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.PowerBucket
	for rows.Next() {
		var b catalog.PowerBucket
		var env string
		if err := rows.Scan(&env, &b.MinPitch, &b.MaxPitch, &b.AvgWattsPerModule, &b.PeakWattsPerModule); err != nil {
			return nil, err
		}
		b.Environment = catalog.Environment(env)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) pitches(ctx context.Context) (map[catalog.Environment][]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT environment, pitch_mm
FROM catalog_pitches
ORDER BY environment, pitch_mm`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out map[catalog.Environment][]float64
	for rows.Next() {
		var env string
		var pitch float64
		if err := rows.Scan(&env, &pitch); err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[catalog.Environment][]float64)
		}
		out[catalog.Environment(env)] = append(out[catalog.Environment(env)], pitch)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) policy(ctx context.Context) (catalog.PolicyOverlay, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `
SELECT body
FROM catalog_policy
WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.PolicyOverlay{}, nil
	}
	if err != nil {
		return catalog.PolicyOverlay{}, err
	}
	var p catalog.PolicyOverlay
	if err := json.Unmarshal(body, &p); err != nil {
		return catalog.PolicyOverlay{}, fmt.Errorf("catalog repo: policy: %w", err)
	}
	return p, nil
}
