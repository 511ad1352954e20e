// Package repo provides the intents repository implementation.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"intentcast/internal/modkit/repokit"
	perr "intentcast/internal/platform/errors"
	"intentcast/internal/services/intents/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the intents repository
type Storage interface {
	InsertBatch(ctx context.Context, xs []domain.Hypothesis) (int, error)
	ListByCompany(ctx context.Context, companyID int64) ([]domain.Hypothesis, error)
	ListByType(ctx context.Context, companyID int64, intentType string, since, until time.Time) ([]domain.Hypothesis, error)
	ExistingPairs(ctx context.Context, companyID int64) (map[domain.Pair]struct{}, error)
	UsedSignalIDs(ctx context.Context, companyID int64) (map[int64]struct{}, error)
}

const hypothesisCols = `
	id, company_id, intent_type, confidence, readiness, alert_eligible,
	alert_reason, evidence, explanation, created_at`

// InsertBatch implements Storage. first_signal_id is denormalized from the
// evidence head so the dedupe pair has a unique index to land on
func (s *pg) InsertBatch(ctx context.Context, xs []domain.Hypothesis) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO intent_hypotheses
		(id, company_id, intent_type, confidence, readiness, alert_eligible,
		alert_reason, evidence, explanation, first_signal_id, created_at) VALUES `)

	args := make([]any, 0, len(xs)*11)
	for i, h := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		evidence, err := json.Marshal(h.Evidence)
		if err != nil {
			return 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "intents: marshal evidence")
		}
		explanation, err := json.Marshal(h.Explanation)
		if err != nil {
			return 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "intents: marshal explanation")
		}
		var firstSignal *int64
		if pair, ok := h.DedupeKey(); ok {
			firstSignal = &pair.SignalID
		}
		base := i*11 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10)
		args = append(args,
			h.ID, h.CompanyID, h.IntentType, h.Confidence, h.Readiness, h.AlertEligible,
			h.AlertReason, evidence, explanation, firstSignal, h.CreatedAt,
		)
	}
	// Partial unique index on (company_id, intent_type, first_signal_id)
	// WHERE first_signal_id IS NOT NULL backs this
	sb.WriteString(` ON CONFLICT (company_id, intent_type, first_signal_id)
		WHERE first_signal_id IS NOT NULL DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "intents insert")
	}
	return int(tag.RowsAffected()), nil
}

func (s *pg) ListByCompany(ctx context.Context, companyID int64) ([]domain.Hypothesis, error) {
	q := `SELECT ` + hypothesisCols + `
		FROM intent_hypotheses
		WHERE company_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, perr.FromPostgres(err, "intents list")
	}
	defer rows.Close()
	return scanHypotheses(rows)
}

func (s *pg) ListByType(
	ctx context.Context,
	companyID int64,
	intentType string,
	since, until time.Time,
) ([]domain.Hypothesis, error) {
	q := `SELECT ` + hypothesisCols + `
		FROM intent_hypotheses
		WHERE company_id = $1 AND intent_type = $2
			AND created_at >= $3 AND created_at <= $4
		ORDER BY created_at ASC, id ASC`

	rows, err := s.q.Query(ctx, q, companyID, intentType, since, until)
	if err != nil {
		return nil, perr.FromPostgres(err, "intents list by type")
	}
	defer rows.Close()
	return scanHypotheses(rows)
}

func (s *pg) ExistingPairs(ctx context.Context, companyID int64) (map[domain.Pair]struct{}, error) {
	const q = `
		SELECT intent_type, first_signal_id
		FROM intent_hypotheses
		WHERE company_id = $1 AND first_signal_id IS NOT NULL`

	rows, err := s.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, perr.FromPostgres(err, "intents pairs")
	}
	defer rows.Close()

	out := make(map[domain.Pair]struct{})
	for rows.Next() {
		var p domain.Pair
		if err := rows.Scan(&p.IntentType, &p.SignalID); err != nil {
			return nil, perr.FromPostgres(err, "intents pairs scan")
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

func (s *pg) UsedSignalIDs(ctx context.Context, companyID int64) (map[int64]struct{}, error) {
	const q = `
		SELECT DISTINCT first_signal_id
		FROM intent_hypotheses
		WHERE company_id = $1 AND first_signal_id IS NOT NULL`

	rows, err := s.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, perr.FromPostgres(err, "intents used signals")
	}
	defer rows.Close()

	out := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, perr.FromPostgres(err, "intents used signals scan")
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}

func scanHypotheses(rows repokit.Rows) ([]domain.Hypothesis, error) {
	var out []domain.Hypothesis
	for rows.Next() {
		var (
			h           domain.Hypothesis
			evidence    []byte
			explanation []byte
		)
		if err := rows.Scan(
			&h.ID, &h.CompanyID, &h.IntentType, &h.Confidence, &h.Readiness,
			&h.AlertEligible, &h.AlertReason, &evidence, &explanation, &h.CreatedAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "intents scan")
		}
		if len(evidence) > 0 {
			if err := json.Unmarshal(evidence, &h.Evidence); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeDB, "intents: unmarshal evidence")
			}
		}
		if len(explanation) > 0 {
			if err := json.Unmarshal(explanation, &h.Explanation); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeDB, "intents: unmarshal explanation")
			}
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
