// Package service provides the intents service implementation
package service

import (
	"context"
	"time"

	"intentcast/internal/modkit/repokit"
	"intentcast/internal/services/intents/domain"
	"intentcast/internal/services/intents/repo"
)

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	rw     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// New constructs a new intents service
func New(rw repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Service {
	if rw == nil {
		panic("intents: nil TxRunner")
	}
	return &Service{rw: rw, binder: binder}
}

// InsertBatch implements domain.WriterPort
func (s *Service) InsertBatch(ctx context.Context, xs []domain.Hypothesis) (int, error) {
	var inserted int
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		n, err := repokit.MustBind(s.binder, q).InsertBatch(ctx, xs)
		inserted = n
		return err
	})
	return inserted, err
}

// ListByCompany implements domain.QueryPort
func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]domain.Hypothesis, error) {
	var out []domain.Hypothesis
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		xs, err := repokit.MustBind(s.binder, q).ListByCompany(ctx, companyID)
		out = xs
		return err
	})
	return out, err
}

// ListByType implements domain.QueryPort
func (s *Service) ListByType(
	ctx context.Context,
	companyID int64,
	intentType string,
	since, until time.Time,
) ([]domain.Hypothesis, error) {
	var out []domain.Hypothesis
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		xs, err := repokit.MustBind(s.binder, q).ListByType(ctx, companyID, intentType, since, until)
		out = xs
		return err
	})
	return out, err
}

// ExistingPairs implements domain.QueryPort
func (s *Service) ExistingPairs(ctx context.Context, companyID int64) (map[domain.Pair]struct{}, error) {
	var out map[domain.Pair]struct{}
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		m, err := repokit.MustBind(s.binder, q).ExistingPairs(ctx, companyID)
		out = m
		return err
	})
	return out, err
}

// UsedSignalIDs implements domain.QueryPort
func (s *Service) UsedSignalIDs(ctx context.Context, companyID int64) (map[int64]struct{}, error) {
	var out map[int64]struct{}
	err := repokit.WithTx(ctx, s.rw, func(q repokit.Queryer) error {
		m, err := repokit.MustBind(s.binder, q).UsedSignalIDs(ctx, companyID)
		out = m
		return err
	})
	return out, err
}
