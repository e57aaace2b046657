package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/unclebandit/hey-mailer/internal/errors"
	"github.com/unclebandit/hey-mailer/internal/model"
)

// EmailRepositoryInterface is the append-only record store used by the service.
type EmailRepositoryInterface interface {
	Create(ctx context.Context, e *model.Email) error
	ListAll(ctx context.Context) ([]model.Email, error)
}

type EmailRepository struct {
	DB  *sqlx.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

var emailColumns = []string{"id", "email", "subject", "body", "sent_at", "status"}

func NewEmailRepository(db *sqlx.DB) *EmailRepository {
	var placeholder sq.PlaceholderFormat = sq.Dollar
	if db.DriverName() == "sqlite3" {
		placeholder = sq.Question
	}
	return &EmailRepository{
		DB:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(placeholder),
		now: time.Now,
	}
}

// Create inserts a new email record and fills in its ID and SentAt.
func (r *EmailRepository) Create(ctx context.Context, e *model.Email) error {
	// postgres keeps microseconds, truncate so the caller sees what is stored
	sentAt := r.now().UTC().Truncate(time.Microsecond)

	query, args, err := r.sb.
		Insert("emails").
		Columns("email", "subject", "body", "sent_at", "status").
		Values(e.Email, e.Subject, e.Body, sentAt, string(e.Status)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.DB.QueryRowxContext(ctx, query, args...).Scan(&e.ID); err != nil {
		return apperrors.NewStoreError("insert email", err)
	}
	e.SentAt = sentAt
	return nil
}

// ListAll fetches every email in insertion order.
func (r *EmailRepository) ListAll(ctx context.Context) ([]model.Email, error) {
	query, args, err := r.sb.
		Select(emailColumns...).
		From("emails").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	emails := []model.Email{}
	if err := r.DB.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, apperrors.NewStoreError("select emails", err)
	}
	return emails, nil
}

func (r *EmailRepository) Ping(ctx context.Context) error {
	if err := r.DB.PingContext(ctx); err != nil {
		return apperrors.NewStoreError("ping", err)
	}
	return nil
}
