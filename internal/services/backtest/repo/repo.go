// Package repo provides the backtest results repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"

	"intentcast/internal/modkit/repokit"
	perr "intentcast/internal/platform/errors"
	"intentcast/internal/platform/store"
	pstrings "intentcast/internal/platform/strings"
	"intentcast/internal/services/backtest/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the backtest results repository
type Storage interface {
	InsertResults(ctx context.Context, xs []domain.Result) error
	ListLatestRun(ctx context.Context, companyID int64) ([]domain.Result, error)
}

// InsertResults implements Storage. Runs are append-only; every run keeps
// its own rows under its run id
func (s *pg) InsertResults(ctx context.Context, xs []domain.Result) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO backtest_results
		(run_id, company_id, outcome_id, outcome_type, outcome_at,
		hypothesis_id, intent_type, intent_at, lag_days, matched, run_at) VALUES `)

	args := make([]any, 0, len(xs)*11)
	for i, r := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*11 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10)
		args = append(args,
			r.RunID, r.CompanyID, r.OutcomeID, r.OutcomeType, r.OutcomeAt,
			pstrings.SQLNull(r.HypothesisID), pstrings.SQLNull(r.IntentType),
			r.IntentAt, r.LagDays, r.Matched, r.RunAt,
		)
	}

	if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
		return perr.FromPostgres(err, "backtest insert")
	}
	return nil
}

// ListLatestRun implements Storage. Runs never overlap in run_at for a
// company, so the most recent run_at identifies the run
func (s *pg) ListLatestRun(ctx context.Context, companyID int64) ([]domain.Result, error) {
	const q = `
		SELECT run_id, company_id, outcome_id, outcome_type, outcome_at,
		       hypothesis_id, intent_type, intent_at, lag_days, matched, run_at
		FROM backtest_results
		WHERE company_id = $1
		  AND run_id = (
		      SELECT run_id FROM backtest_results
		      WHERE company_id = $1
		      ORDER BY run_at DESC LIMIT 1)
		ORDER BY outcome_at ASC`

	rows, err := s.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, perr.FromPostgres(err, "backtest list latest run")
	}
	defer rows.Close()

	var out []domain.Result
	for rows.Next() {
		var (
			r          domain.Result
			hypID, typ *string
		)
		if err := rows.Scan(
			&r.RunID, &r.CompanyID, &r.OutcomeID, &r.OutcomeType, &r.OutcomeAt,
			&hypID, &typ, &r.IntentAt, &r.LagDays, &r.Matched, &r.RunAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "backtest scan")
		}
		r.HypothesisID = pstrings.Deref(hypID)
		r.IntentType = pstrings.Deref(typ)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Mirror is the analytics sink for backtest rows
type Mirror struct{ ch store.Clickhouse }

// NewMirror wraps a Clickhouse handle for backtest mirroring
func NewMirror(ch store.Clickhouse) *Mirror { return &Mirror{ch: ch} }

var mirrorColumns = []string{
	"run_id", "company_id", "outcome_id", "outcome_type", "outcome_at",
	"hypothesis_id", "intent_type", "lag_days", "matched", "run_at",
}

// MirrorResults copies a run into the analytics store. Analytics lag is
// tolerable; failures surface to the caller who decides whether to warn
// or abort
func (m *Mirror) MirrorResults(ctx context.Context, xs []domain.Result) error {
	if m.ch == nil || len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, r := range xs {
		lag := 0.0
		if r.LagDays != nil {
			lag = *r.LagDays
		}
		matched := uint8(0)
		if r.Matched {
			matched = 1
		}
		rows = append(rows, []any{
			r.RunID, r.CompanyID, r.OutcomeID, r.OutcomeType, r.OutcomeAt,
			r.HypothesisID, r.IntentType, lag, matched, r.RunAt,
		})
	}
	return m.ch.Insert(ctx, "backtest_results", mirrorColumns, rows)
}
