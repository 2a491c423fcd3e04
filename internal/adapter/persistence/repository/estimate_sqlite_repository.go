package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"
)

const estimateColumns = `id, job_id, version, is_current, status, damage_type,
	subtotal, markup_percent, markup_amount, total_estimate, document, created_at, updated_at`

// EstimateSQLiteRepository persists estimate versions in SQLite. The nested
// parts of an estimate share the JSON document encoding of the DynamoDB store.
type EstimateSQLiteRepository struct {
	db *sql.DB
}

var _ interfaces.IEstimateRepository = (*EstimateSQLiteRepository)(nil)

func NewEstimateSQLiteRepository(db *sql.DB) *EstimateSQLiteRepository {
	return &EstimateSQLiteRepository{db: db}
}

func (r *EstimateSQLiteRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	doc, err := encodeEstimateDocument(e)
	if err != nil {
		return entities.Estimate{}, err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO estimates (`+estimateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.JobID, e.Version, e.IsCurrent, string(e.Status), string(e.DamageType),
		e.Subtotal, e.MarkupPercent, e.MarkupAmount, e.TotalEstimate, doc,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt))
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("insert estimate: %w", err)
	}
	return e, nil
}

func (r *EstimateSQLiteRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+estimateColumns+` FROM estimates WHERE id = ?`, id)
	e, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Estimate{}, nil
	}
	return e, err
}

func (r *EstimateSQLiteRepository) ListByJobID(ctx context.Context, jobID string) ([]entities.Estimate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+estimateColumns+` FROM estimates WHERE job_id = ? ORDER BY version`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	list := []entities.Estimate{}
	for rows.Next() {
		e, err := scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EstimateSQLiteRepository) SetCurrent(ctx context.Context, id string, current bool) (entities.Estimate, error) {
	return r.update(ctx, id, `UPDATE estimates SET is_current = ?, updated_at = ? WHERE id = ?`, current)
}

func (r *EstimateSQLiteRepository) UpdateStatusByID(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	return r.update(ctx, id, `UPDATE estimates SET status = ?, updated_at = ? WHERE id = ?`, string(status))
}

// update applies a single-column change and returns the new row, or the zero
// value when no estimate has that id.
func (r *EstimateSQLiteRepository) update(ctx context.Context, id, stmt string, value any) (entities.Estimate, error) {
	res, err := r.db.ExecContext(ctx, stmt, value, formatTime(time.Now()), id)
	if err != nil {
		return entities.Estimate{}, fmt.Errorf("update estimate %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return entities.Estimate{}, err
	} else if n == 0 {
		return entities.Estimate{}, nil
	}
	return r.GetByID(ctx, id)
}

func scanEstimate(s rowScanner) (entities.Estimate, error) {
	var (
		e                    entities.Estimate
		status, damage, doc  string
		createdAt, updatedAt string
	)
	err := s.Scan(&e.ID, &e.JobID, &e.Version, &e.IsCurrent, &status, &damage,
		&e.Subtotal, &e.MarkupPercent, &e.MarkupAmount, &e.TotalEstimate, &doc, &createdAt, &updatedAt)
	if err != nil {
		return entities.Estimate{}, err
	}
	e.Status = entities.EstimateStatus(status)
	e.DamageType = entities.DamageType(damage)
	e.CreatedAt = parseTime(createdAt)
	e.UpdatedAt = parseTime(updatedAt)
	if err := decodeEstimateDocument(doc, &e); err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}
