// Package repo provides the signals repository implementation.
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"intentcast/internal/modkit/repokit"
	perr "intentcast/internal/platform/errors"
	"intentcast/internal/services/signals/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the signals repository
type Storage interface {
	InsertBatch(ctx context.Context, xs []domain.SignalWrite) (int, error)
	ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Signal, error)
	DistinctSources(ctx context.Context, companyID int64, since, until time.Time) (int, error)
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
}

// InsertBatch implements Storage. The fingerprint unique index makes
// replays no-ops; the returned count excludes conflicting rows
func (s *pg) InsertBatch(ctx context.Context, xs []domain.SignalWrite) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO signals
		(company_id, source, event_at, raw_text, norm_text, fields, fingerprint) VALUES `)

	args := make([]any, 0, len(xs)*7)
	for i, x := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		fields, err := json.Marshal(x.Fields)
		if err != nil {
			return 0, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "signals: marshal fields")
		}
		base := i*7 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args,
			x.CompanyID, x.Source, x.EventAt, x.RawText, x.NormText, fields, x.Fingerprint,
		)
	}
	sb.WriteString(` ON CONFLICT (fingerprint) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.FromPostgres(err, "signals insert")
	}
	return int(tag.RowsAffected()), nil
}

func (s *pg) ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Signal, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT id, company_id, source, event_at, raw_text, norm_text, fields, fingerprint, ingested_at
		FROM signals
		WHERE company_id = ` + arg(companyID) + `
	`)
	if since != nil {
		sb.WriteString("  AND event_at >= " + arg(*since) + "\n")
	}
	sb.WriteString("ORDER BY event_at ASC, id ASC")

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "signals list")
	}
	defer rows.Close()

	var out []domain.Signal
	for rows.Next() {
		var (
			sig    domain.Signal
			fields []byte
		)
		if err := rows.Scan(
			&sig.ID, &sig.CompanyID, &sig.Source, &sig.EventAt,
			&sig.RawText, &sig.NormText, &fields, &sig.Fingerprint, &sig.IngestedAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "signals scan")
		}
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &sig.Fields); err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeDB, "signals: unmarshal fields")
			}
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func (s *pg) DistinctSources(ctx context.Context, companyID int64, since, until time.Time) (int, error) {
	const q = `
		SELECT COUNT(DISTINCT source)
		FROM signals
		WHERE company_id = $1 AND event_at >= $2 AND event_at <= $3`

	var n int
	if err := s.q.QueryRow(ctx, q, companyID, since, until).Scan(&n); err != nil {
		return 0, perr.FromPostgres(err, "signals distinct sources")
	}
	return n, nil
}

func (s *pg) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM signals WHERE fingerprint = $1)`

	var exists bool
	if err := s.q.QueryRow(ctx, q, fingerprint).Scan(&exists); err != nil {
		return false, perr.FromPostgres(err, "signals exists")
	}
	return exists, nil
}
