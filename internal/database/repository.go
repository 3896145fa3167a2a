package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-autoapply-engine/internal/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Connection poolers in transaction mode (PgBouncer) break prepared
	// statements, so the statement cache stays off.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SaveSession persists a finished run. Structured members (questions,
// screenshots, action log, submit result) are stored as JSONB.
func (r *Repository) SaveSession(ctx context.Context, session *models.AutoApplySession) error {
	questions, err := json.Marshal(session.CustomQuestions)
	if err != nil {
		return fmt.Errorf("failed to marshal custom questions: %w", err)
	}
	screenshots, err := json.Marshal(session.Screenshots)
	if err != nil {
		return fmt.Errorf("failed to marshal screenshots: %w", err)
	}
	actionLog, err := json.Marshal(session.ActionLog)
	if err != nil {
		return fmt.Errorf("failed to marshal action log: %w", err)
	}
	submitResult, err := json.Marshal(session.SubmitResult)
	if err != nil {
		return fmt.Errorf("failed to marshal submit result: %w", err)
	}

	query := `
		INSERT INTO auto_apply_sessions
			(id, job_url, job_title, company_name, status, progress, ats_type, ats_confidence,
			 fields_total, fields_filled, custom_questions, screenshots, action_log,
			 error, submit_result, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status, progress = EXCLUDED.progress,
			fields_filled = EXCLUDED.fields_filled, error = EXCLUDED.error,
			submit_result = EXCLUDED.submit_result, completed_at = EXCLUDED.completed_at`

	_, err = r.db.Exec(ctx, query,
		session.ID, session.JobURL, session.JobTitle, session.CompanyName,
		string(session.Status), session.Progress, session.ATSType, session.ATSConfidence,
		session.FieldsTotal, session.FieldsFilled, questions, screenshots, actionLog,
		session.Error, submitResult, session.StartedAt, session.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves one run by ID.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.AutoApplySession, error) {
	var session models.AutoApplySession
	var status string
	var questions, screenshots, actionLog, submitResult []byte

	query := `
		SELECT id, job_url, job_title, company_name, status, progress, ats_type, ats_confidence,
		       fields_total, fields_filled, custom_questions, screenshots, action_log,
		       error, submit_result, started_at, completed_at
		FROM auto_apply_sessions WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID, &session.JobURL, &session.JobTitle, &session.CompanyName,
		&status, &session.Progress, &session.ATSType, &session.ATSConfidence,
		&session.FieldsTotal, &session.FieldsFilled, &questions, &screenshots, &actionLog,
		&session.Error, &submitResult, &session.StartedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Status = models.RunStatus(status)
	if err := json.Unmarshal(questions, &session.CustomQuestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom questions: %w", err)
	}
	if err := json.Unmarshal(screenshots, &session.Screenshots); err != nil {
		return nil, fmt.Errorf("failed to unmarshal screenshots: %w", err)
	}
	if err := json.Unmarshal(actionLog, &session.ActionLog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal action log: %w", err)
	}
	if len(submitResult) > 0 && string(submitResult) != "null" {
		if err := json.Unmarshal(submitResult, &session.SubmitResult); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submit result: %w", err)
		}
	}
	return &session, nil
}

// ListRecentSessions returns the newest runs, most recent first.
func (r *Repository) ListRecentSessions(ctx context.Context, limit int) ([]models.AutoApplySession, error) {
	query := `
		SELECT id, job_url, job_title, company_name, status, progress, ats_type,
		       fields_total, fields_filled, error, started_at, completed_at
		FROM auto_apply_sessions
		ORDER BY started_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.AutoApplySession
	for rows.Next() {
		var session models.AutoApplySession
		var status string
		if err := rows.Scan(
			&session.ID, &session.JobURL, &session.JobTitle, &session.CompanyName,
			&status, &session.Progress, &session.ATSType,
			&session.FieldsTotal, &session.FieldsFilled, &session.Error,
			&session.StartedAt, &session.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		session.Status = models.RunStatus(status)
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
