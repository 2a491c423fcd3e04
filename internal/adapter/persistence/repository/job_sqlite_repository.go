package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"
)

const jobColumns = `id, contractor_id, customer_name, customer_email, customer_phone, damage_type,
	property_address, city, state, zip, notes, created_at, updated_at`

// JobSQLiteRepository persists jobs in the single-file SQLite store.
type JobSQLiteRepository struct {
	db *sql.DB
}

var _ interfaces.IJobRepository = (*JobSQLiteRepository)(nil)

func NewJobSQLiteRepository(db *sql.DB) *JobSQLiteRepository {
	return &JobSQLiteRepository{db: db}
}

func (r *JobSQLiteRepository) Create(ctx context.Context, j entities.Job) (entities.Job, error) {
	_, err := r.db.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.ContractorID, j.CustomerName, j.CustomerEmail, j.CustomerPhone, string(j.DamageType),
		j.PropertyAddress, j.City, j.State, j.Zip, j.Notes, formatTime(j.CreatedAt), formatTime(j.UpdatedAt))
	if err != nil {
		return entities.Job{}, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

func (r *JobSQLiteRepository) GetByID(ctx context.Context, id string) (entities.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Job{}, nil
	}
	return j, err
}

func (r *JobSQLiteRepository) List(ctx context.Context) ([]entities.Job, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []entities.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (entities.Job, error) {
	var (
		j                    entities.Job
		damage               string
		createdAt, updatedAt string
	)
	err := s.Scan(&j.ID, &j.ContractorID, &j.CustomerName, &j.CustomerEmail, &j.CustomerPhone, &damage,
		&j.PropertyAddress, &j.City, &j.State, &j.Zip, &j.Notes, &createdAt, &updatedAt)
	if err != nil {
		return entities.Job{}, err
	}
	j.DamageType = entities.DamageType(damage)
	j.CreatedAt = parseTime(createdAt)
	j.UpdatedAt = parseTime(updatedAt)
	return j, nil
}
