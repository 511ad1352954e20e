// Package repo provides the outcomes repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"intentcast/internal/modkit/repokit"
	perr "intentcast/internal/platform/errors"
	"intentcast/internal/services/outcomes/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the outcomes repository
type Storage interface {
	Insert(ctx context.Context, xs []domain.Outcome) (int, error)
	ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Outcome, error)
}

// Insert implements Storage. Re-seeding the same event is a no-op
func (s *pg) Insert(ctx context.Context, xs []domain.Outcome) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO outcomes (company_id, outcome_type, occurred_at, details) VALUES `)

	args := make([]any, 0, len(xs)*4)
	for i, x := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*4 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d)", base, base+1, base+2, base+3)
		args = append(args, x.CompanyID, x.Type, x.OccurredAt, x.Details)
	}
	sb.WriteString(` ON CONFLICT (company_id, outcome_type, occurred_at) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "outcomes insert")
	}
	return int(tag.RowsAffected()), nil
}

func (s *pg) ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Outcome, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT id, company_id, outcome_type, occurred_at, details
		FROM outcomes
		WHERE company_id = ` + arg(companyID) + `
	`)
	if since != nil {
		sb.WriteString("  AND occurred_at >= " + arg(*since) + "\n")
	}
	sb.WriteString("ORDER BY occurred_at ASC, id ASC")

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "outcomes list")
	}
	defer rows.Close()

	var out []domain.Outcome
	for rows.Next() {
		var o domain.Outcome
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.Type, &o.OccurredAt, &o.Details); err != nil {
			return nil, perr.FromPostgres(err, "outcomes scan")
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
