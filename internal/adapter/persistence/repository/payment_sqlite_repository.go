package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restoredoc/internal/domain/entities"
	"restoredoc/internal/usecase/interfaces"
)

// PaymentSQLiteRepository persists payments in SQLite. Only the raw provider
// body is stored; the parsed form is rebuilt on read.
type PaymentSQLiteRepository struct {
	db *sql.DB
}

var _ interfaces.IPaymentRepository = (*PaymentSQLiteRepository)(nil)

func NewPaymentSQLiteRepository(db *sql.DB) *PaymentSQLiteRepository {
	return &PaymentSQLiteRepository{db: db}
}

func (r *PaymentSQLiteRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, estimate_id, date, status, amount, provider_payload_raw) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.EstimateID, formatTime(p.Date), string(p.Status), p.Amount, string(p.ProviderPayloadRaw))
	if err != nil {
		return entities.Payment{}, fmt.Errorf("insert payment: %w", err)
	}
	return p, nil
}

func (r *PaymentSQLiteRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, estimate_id, date, status, amount, provider_payload_raw FROM payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Payment{}, nil
	}
	return p, err
}

func (r *PaymentSQLiteRepository) ListByEstimateID(ctx context.Context, estimateID string) ([]entities.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, estimate_id, date, status, amount, provider_payload_raw FROM payments WHERE estimate_id = ? ORDER BY date`, estimateID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	items := []entities.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func scanPayment(s rowScanner) (entities.Payment, error) {
	var (
		p                 entities.Payment
		date, status, raw string
	)
	if err := s.Scan(&p.ID, &p.EstimateID, &date, &status, &p.Amount, &raw); err != nil {
		return entities.Payment{}, err
	}
	p.Date = parseTime(date)
	p.Status = entities.PaymentStatus(status)
	if raw != "" {
		p.ProviderPayloadRaw = []byte(raw)
		p.ProviderPayload = parsePayload(raw)
	}
	return p, nil
}
