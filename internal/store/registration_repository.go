package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/log"
)

// registrationRepository implements Registrations using SQLite.
type registrationRepository struct {
	db *sql.DB
}

var _ Registrations = (*registrationRepository)(nil)

func newRegistrationRepository(db *sql.DB) *registrationRepository {
	return &registrationRepository{db: db}
}

// Submit stores the answer set, replacing any earlier registration for
// the same email.
func (r *registrationRepository) Submit(ctx context.Context, email string, answers catalog.Answers) (Receipt, error) {
	ctx, span := otel.Tracer("attend/store").Start(ctx, "store.submit")
	defer span.End()

	raw, err := json.Marshal(answers)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, fmt.Errorf("encoding answers: %w", err)
	}

	id := uuid.NewString()
	now := time.Now()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO registrations (id, email, answers, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			answers = excluded.answers,
			updated_at = excluded.updated_at`,
		id, email, string(raw), now.Unix(), now.Unix(),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, fmt.Errorf("storing registration: %w", err)
	}

	// On conflict the original id was kept; read it back so the receipt
	// always names the stored row.
	var storedID string
	if err := r.db.QueryRowContext(ctx,
		`SELECT id FROM registrations WHERE email = ?`, email,
	).Scan(&storedID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Receipt{}, fmt.Errorf("reading back registration: %w", err)
	}

	log.Info(log.CatStore, "Registration stored", "id", storedID, "answers", len(answers))
	return Receipt{ID: storedID, Email: email, SubmittedAt: now}, nil
}

// Summary is one row of the registration listing.
type Summary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// List returns stored registrations, newest first.
func (r *registrationRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, created_at, updated_at FROM registrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Summary
	for rows.Next() {
		var s Summary
		var created, updated int64
		if err := rows.Scan(&s.ID, &s.Email, &created, &updated); err != nil {
			return nil, fmt.Errorf("scanning registration row: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0)
		s.UpdatedAt = time.Unix(updated, 0)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration rows: %w", err)
	}
	return out, nil
}

// FindByEmail returns the stored answers for an email, or sql.ErrNoRows.
// Used by tests and the registrations listing command.
func (r *registrationRepository) FindByEmail(ctx context.Context, email string) (catalog.Answers, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT answers FROM registrations WHERE email = ?`, email,
	).Scan(&raw)
	if err != nil {
		return nil, err
	}
	var answers catalog.Answers
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decoding stored answers: %w", err)
	}
	return answers, nil
}
