package prediction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surgewatch/surgewatch/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const predictionCols = `id, hospital_id, date, risk_score, er_surge_pct, icu_surge_pct,
	risk_level, additional_icu_beds, additional_staff, supply_status,
	input_features, model_version, is_fallback, created_at`

func (r *repoPG) scanPrediction(row pgx.Row) (*PredictionRecord, error) {
	var p PredictionRecord
	err := row.Scan(&p.ID, &p.HospitalID, &p.Date, &p.RiskScore, &p.ERSurgePct, &p.ICUSurgePct,
		&p.RiskLevel, &p.AdditionalICUBeds, &p.AdditionalStaff, &p.SupplyStatus,
		&p.InputFeatures, &p.ModelVersion, &p.IsFallback, &p.CreatedAt)
	return &p, err
}

// Upsert writes the record for (hospital, date). A rerun for the same day
// overwrites the previous record: last write wins.
func (r *repoPG) Upsert(ctx context.Context, p *PredictionRecord) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO predictions (id, hospital_id, date, risk_score, er_surge_pct, icu_surge_pct,
			risk_level, additional_icu_beds, additional_staff, supply_status,
			input_features, model_version, is_fallback)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (hospital_id, date)
		DO UPDATE SET risk_score=EXCLUDED.risk_score,
			er_surge_pct=EXCLUDED.er_surge_pct,
			icu_surge_pct=EXCLUDED.icu_surge_pct,
			risk_level=EXCLUDED.risk_level,
			additional_icu_beds=EXCLUDED.additional_icu_beds,
			additional_staff=EXCLUDED.additional_staff,
			supply_status=EXCLUDED.supply_status,
			input_features=EXCLUDED.input_features,
			model_version=EXCLUDED.model_version,
			is_fallback=EXCLUDED.is_fallback`,
		p.ID, p.HospitalID, p.Date, p.RiskScore, p.ERSurgePct, p.ICUSurgePct,
		p.RiskLevel, p.AdditionalICUBeds, p.AdditionalStaff, p.SupplyStatus,
		p.InputFeatures, p.ModelVersion, p.IsFallback)
	return err
}

func (r *repoPG) GetByHospitalAndDate(ctx context.Context, hospitalID uuid.UUID, day time.Time) (*PredictionRecord, error) {
	return r.scanPrediction(r.conn(ctx).QueryRow(ctx,
		`SELECT `+predictionCols+` FROM predictions WHERE hospital_id = $1 AND date = $2`,
		hospitalID, day))
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*PredictionRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM predictions WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+predictionCols+` FROM predictions WHERE hospital_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*PredictionRecord
	for rows.Next() {
		p, err := r.scanPrediction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// ErrNotFound reports whether a repository error means the row is absent.
func ErrNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// =========== Festival Repository ===========

type festivalRepoPG struct{ pool *pgxpool.Pool }

func NewFestivalRepoPG(pool *pgxpool.Pool) FestivalRepository { return &festivalRepoPG{pool: pool} }

func (r *festivalRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *festivalRepoPG) IsFestival(ctx context.Context, day time.Time) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM festival_days WHERE day = $1)`, day).Scan(&exists)
	return exists, err
}

func (r *festivalRepoPG) Add(ctx context.Context, day time.Time, name string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO festival_days (day, name) VALUES ($1, $2) ON CONFLICT (day) DO NOTHING`,
		day, name)
	return err
}
