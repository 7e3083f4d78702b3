package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"signal-portfolio/pkg/models"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// InquiryRepo defines operations for contact inquiry persistence
type InquiryRepo interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	GetByID(ctx context.Context, id string) (*models.Inquiry, error)
	List(ctx context.Context, limit int) ([]*models.Inquiry, error)
	Count(ctx context.Context) (int, error)
}

type inquiryRepository struct {
	db *sql.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *sql.DB) InquiryRepo {
	return &inquiryRepository{db: db}
}

// Create stores an inquiry
func (r *inquiryRepository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, name, email, message, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		inquiry.ID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Message,
		inquiry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

// GetByID retrieves an inquiry by its ID
func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*models.Inquiry, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM inquiries
		WHERE id = ?
	`
	inquiry, err := scanInquiry(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return inquiry, err
}

// List returns the newest inquiries first
func (r *inquiryRepository) List(ctx context.Context, limit int) ([]*models.Inquiry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, name, email, message, created_at
		FROM inquiries
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var inquiries []*models.Inquiry
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, rows.Err()
}

// Count returns the number of stored inquiries
func (r *inquiryRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inquiries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count inquiries: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInquiry(row scanner) (*models.Inquiry, error) {
	var (
		inquiry   models.Inquiry
		createdAt string
	)
	if err := row.Scan(&inquiry.ID, &inquiry.Name, &inquiry.Email, &inquiry.Message, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	inquiry.CreatedAt = t
	return &inquiry, nil
}
