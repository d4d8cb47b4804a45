package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "caseflow/pkg/domain"
)

// PostgresStore persists audit events in a single append-only table. The seq
// column gives a total order within a case even when timestamps collide.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table if it does not exist. Called once at
// startup; real deployments may manage this with migrations instead.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS case_audit_events (
			seq        BIGSERIAL PRIMARY KEY,
			id         UUID NOT NULL,
			case_id    UUID NOT NULL,
			action     TEXT NOT NULL,
			actor      TEXT NOT NULL DEFAULT '',
			detail     TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_case_audit_events_case_id
			ON case_audit_events (case_id, seq);
	`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO case_audit_events (id, case_id, action, actor, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, uuid.UUID(event.CaseID), event.Action, event.Actor, event.Detail, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCase(ctx context.Context, caseID id.CaseID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, case_id, action, actor, detail, occurred_at
		FROM case_audit_events
		WHERE case_id = $1
		ORDER BY seq`,
		uuid.UUID(caseID),
	)
	if err != nil {
		return nil, fmt.Errorf("read audit stream: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var eventID, eventCaseID uuid.UUID
		if err := rows.Scan(&eventID, &eventCaseID, &event.Action, &event.Actor, &event.Detail, &event.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.ID = eventID
		event.CaseID = id.CaseID(eventCaseID)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
