// Package service provides the signals service implementation
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"intentcast/internal/core/textnorm"
	"intentcast/internal/modkit/repokit"
	perr "intentcast/internal/platform/errors"
	pstrings "intentcast/internal/platform/strings"
	"intentcast/internal/services/signals/domain"
	"intentcast/internal/services/signals/repo"
)

// Service implements domain.IngestPort and domain.QueryPort
type Service struct {
	rw     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	norm   *textnorm.Normalizer
}

// New constructs a new signals service
func New(rw repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if rw == nil {
		panic("signals: nil TxRunner")
	}
	return &Service{rw: rw, binder: binder, norm: textnorm.New()}
}

// Ingest implements domain.IngestPort. Every row is normalized and
// fingerprinted here so replayed batches collapse onto existing rows
func (s *Service) Ingest(ctx context.Context, xs []domain.SignalWrite) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}
	for i := range xs {
		x := &xs[i]
		if x.CompanyID == 0 {
			return 0, perr.InvalidArgf("signals: missing company id at index %d", i)
		}
		switch x.Source {
		case domain.SourceJobPosting, domain.SourceNews, domain.SourceFiling:
		default:
			return 0, perr.InvalidArgf("signals: unknown source %q at index %d", x.Source, i)
		}
		if pstrings.EmptyToNil(x.RawText) == "" {
			return 0, perr.InvalidArgf("signals: empty text at index %d", i)
		}
		x.NormText = s.norm.Normalize(x.RawText)
		x.Fingerprint = Fingerprint(x.CompanyID, x.Source, x.NormText, x.EventAt)
	}

	var inserted int
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		n, err := repokit.MustBind(s.binder, q).InsertBatch(ctx, xs)
		inserted = n
		return err
	})
	return inserted, err
}

// ListByCompany implements domain.QueryPort
func (s *Service) ListByCompany(ctx context.Context, companyID int64, since *time.Time) ([]domain.Signal, error) {
	var out []domain.Signal
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		xs, err := repokit.MustBind(s.binder, q).ListByCompany(ctx, companyID, since)
		out = xs
		return err
	})
	return out, err
}

// DistinctSources implements domain.QueryPort
func (s *Service) DistinctSources(ctx context.Context, companyID int64, since, until time.Time) (int, error) {
	var n int
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		c, err := repokit.MustBind(s.binder, q).DistinctSources(ctx, companyID, since, until)
		n = c
		return err
	})
	return n, err
}

// ExistsByFingerprint implements domain.QueryPort
func (s *Service) ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error) {
	var exists bool
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		ok, err := repokit.MustBind(s.binder, q).ExistsByFingerprint(ctx, fingerprint)
		exists = ok
		return err
	})
	return exists, err
}

// Fingerprint derives the stable identity of a signal from its company,
// source, normalized text, and event date. Time-of-day is excluded so the
// same posting scraped at different hours still collapses
func Fingerprint(companyID int64, source, normText string, eventAt time.Time) string {
	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(companyID, 10)))
	h.Write([]byte{'|'})
	h.Write([]byte(source))
	h.Write([]byte{'|'})
	h.Write([]byte(normText))
	h.Write([]byte{'|'})
	h.Write([]byte(eventAt.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))
}
