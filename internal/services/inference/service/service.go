// Package service implements the inference pipeline: signals through drift
// analysis, fused scoring, the trust gate, dedupe, and persistence
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intentcast/internal/core/drift"
	"intentcast/internal/core/fusion"
	"intentcast/internal/core/lexicon"
	"intentcast/internal/core/scorer"
	"intentcast/internal/core/textnorm"
	"intentcast/internal/platform/logger"
	"intentcast/internal/services/inference/domain"
	intdom "intentcast/internal/services/intents/domain"
	sigdom "intentcast/internal/services/signals/domain"
)

// Config holds the inference windows and thresholds
type Config struct {
	BaselineWindowDays int
	PersistWindowDays  int
	SourceWindowDays   int
	TrustReadinessMin  int
}

func (c *Config) defaults() {
	if c.BaselineWindowDays <= 0 {
		c.BaselineWindowDays = 90
	}
	if c.PersistWindowDays <= 0 {
		c.PersistWindowDays = 60
	}
	if c.SourceWindowDays <= 0 {
		c.SourceWindowDays = 30
	}
	if c.TrustReadinessMin <= 0 {
		c.TrustReadinessMin = 70
	}
}

// Service implements domain.RunnerPort
type Service struct {
	signals sigdom.QueryPort
	writer  intdom.WriterPort
	query   intdom.QueryPort
	fused   *fusion.Fused
	norm    *textnorm.Normalizer
	cfg     Config
	log     *logger.Logger
}

// New constructs the inference service over its collaborating ports
func New(
	signals sigdom.QueryPort,
	writer intdom.WriterPort,
	query intdom.QueryPort,
	fused *fusion.Fused,
	cfg Config,
) *Service {
	cfg.defaults()
	return &Service{
		signals: signals,
		writer:  writer,
		query:   query,
		fused:   fused,
		norm:    textnorm.New(),
		cfg:     cfg,
		log:     logger.Named("inference"),
	}
}

// InferCompany implements domain.RunnerPort. Signals already used as
// evidence are skipped up front, so replaying an unchanged set inserts
// nothing
func (s *Service) InferCompany(ctx context.Context, companyID int64, since *time.Time) (domain.Result, error) {
	var res domain.Result

	// full history: baselines need signals older than the processing window
	all, err := s.signals.ListByCompany(ctx, companyID, nil)
	if err != nil {
		return res, err
	}
	used, err := s.query.UsedSignalIDs(ctx, companyID)
	if err != nil {
		return res, err
	}
	pairs, err := s.query.ExistingPairs(ctx, companyID)
	if err != nil {
		return res, err
	}

	var batch []intdom.Hypothesis
	for _, sig := range all {
		if since != nil && sig.EventAt.Before(*since) {
			continue
		}
		if _, done := used[sig.ID]; done {
			continue
		}
		res.Signals++

		in := s.prepare(sig, all)
		cands := s.fused.Score(in)
		res.Candidates += len(cands)

		for _, c := range cands {
			h := s.toHypothesis(companyID, sig, c)

			if h.IntentType == scorer.IntentIPOPrep {
				if err := s.gate(ctx, &h, batch); err != nil {
					return res, err
				}
			}

			if pair, ok := h.DedupeKey(); ok {
				if _, dup := pairs[pair]; dup {
					res.Skipped++
					continue
				}
				pairs[pair] = struct{}{}
			}
			batch = append(batch, h)
		}
	}

	inserted, err := s.writer.InsertBatch(ctx, batch)
	if err != nil {
		return res, err
	}
	res.Inserted = inserted

	s.log.Info().
		Int64("company_id", companyID).
		Int("signals", res.Signals).
		Int("candidates", res.Candidates).
		Int("inserted", res.Inserted).
		Int("skipped", res.Skipped).
		Msg("inference pass complete")
	return res, nil
}

// ScoreSignal runs the fused scorers over one signal against the supplied
// history without touching storage
func (s *Service) ScoreSignal(sig sigdom.Signal, history []sigdom.Signal) []scorer.Candidate {
	return s.fused.Score(s.prepare(sig, history))
}

// ComputeDrift analyzes one normalized text against a baseline without
// touching storage. The role bucket is inferred from the title when present
func (s *Service) ComputeDrift(normText, title string, base drift.Baseline) drift.Descriptor {
	roleBucket := ""
	if title != "" {
		roleBucket = lexicon.InferRoleBucket(s.norm.Normalize(title))
	}
	return drift.Analyze(normText, roleBucket, base)
}

// prepare builds the scorer input for one signal: its baseline, drift
// descriptor, and role bucket
func (s *Service) prepare(sig sigdom.Signal, all []sigdom.Signal) scorer.Input {
	cutoff := sig.EventAt.AddDate(0, 0, -s.cfg.BaselineWindowDays)

	var base drift.Baseline
	base.RoleCounts = make(map[string]int)
	tagSet := make(map[string]struct{})
	for _, b := range all {
		if b.ID == sig.ID || !b.EventAt.Before(sig.EventAt) || b.EventAt.Before(cutoff) {
			continue
		}
		base.Texts = append(base.Texts, b.NormText)
		if b.Source == sigdom.SourceJobPosting && b.Fields.Title != "" {
			base.RoleCounts[lexicon.InferRoleBucket(s.norm.Normalize(b.Fields.Title))]++
		}
		for _, tag := range lexicon.ExtractTechTags(b.NormText) {
			tagSet[tag] = struct{}{}
		}
	}
	for tag := range tagSet {
		base.KnownTags = append(base.KnownTags, tag)
	}

	// role mix is a job-posting concept; other sources carry no role
	roleBucket := ""
	if sig.Source == sigdom.SourceJobPosting && sig.Fields.Title != "" {
		roleBucket = lexicon.InferRoleBucket(s.norm.Normalize(sig.Fields.Title))
	}

	return scorer.Input{
		CompanyID:      sig.CompanyID,
		SignalID:       sig.ID,
		Source:         sig.Source,
		EventAt:        sig.EventAt,
		RawText:        sig.RawText,
		NormText:       sig.NormText,
		RoleBucket:     roleBucket,
		EmploymentType: sig.Fields.EmploymentType,
		Drift:          drift.Analyze(sig.NormText, roleBucket, base),
	}
}

func (s *Service) toHypothesis(companyID int64, sig sigdom.Signal, c scorer.Candidate) intdom.Hypothesis {
	h := intdom.Hypothesis{
		ID:         uuid.NewString(),
		CompanyID:  companyID,
		IntentType: c.IntentType,
		Confidence: c.Confidence,
		Readiness:  c.Readiness,
		Evidence: []intdom.Evidence{{
			SignalID: sig.ID,
			Source:   sig.Source,
			Snippet:  c.Snippet,
			Triggers: c.Triggers,
			EventAt:  sig.EventAt,
		}},
		Explanation: intdom.Explanation{
			Summary:  c.Summary,
			RuleHits: c.RuleHits,
		},
		CreatedAt: c.CreatedAt,
	}
	if c.IntentType == scorer.IntentIPOPrep {
		d := c.Drift
		h.Explanation.Drift = &d
	}
	return h
}

// gate applies the trust gate to one IPO hypothesis and appends the
// decision to its trail. Earlier hypotheses from the same batch count
// toward persistence; they will be visible rows by the time this batch
// lands
func (s *Service) gate(ctx context.Context, h *intdom.Hypothesis, batch []intdom.Hypothesis) error {
	t := h.CreatedAt

	// below the floor the decision needs no history; skip the lookups
	if h.Readiness < float64(s.cfg.TrustReadinessMin) {
		s.record(ctx, h, decideTrust(h.Readiness, s.cfg.TrustReadinessMin, false, false, 0))
		return nil
	}

	persisted := false
	priorSince := t.AddDate(0, 0, -s.cfg.PersistWindowDays)
	priors, err := s.query.ListByType(ctx, h.CompanyID, scorer.IntentIPOPrep, priorSince, t)
	if err != nil {
		return err
	}
	for _, p := range priors {
		if p.Readiness >= float64(s.cfg.TrustReadinessMin) {
			persisted = true
			break
		}
	}
	if !persisted {
		for _, p := range batch {
			if p.IntentType == scorer.IntentIPOPrep &&
				!p.CreatedAt.Before(priorSince) && !p.CreatedAt.After(t) &&
				p.Readiness >= float64(s.cfg.TrustReadinessMin) {
				persisted = true
				break
			}
		}
	}

	sourceSince := t.AddDate(0, 0, -s.cfg.SourceWindowDays)
	sourceCount, err := s.signals.DistinctSources(ctx, h.CompanyID, sourceSince, t)
	if err != nil {
		return err
	}

	s.record(ctx, h, decideTrust(h.Readiness, s.cfg.TrustReadinessMin, persisted, sourceCount >= 2, sourceCount))
	return nil
}

// record applies one trust decision to the hypothesis and appends it to
// the trail
func (s *Service) record(ctx context.Context, h *intdom.Hypothesis, d trustDecision) {
	t := h.CreatedAt
	h.AlertEligible = d.Eligible
	h.AlertReason = d.Reason
	h.Explanation.TrustTrail = append(h.Explanation.TrustTrail, intdom.TrustEntry{
		DecidedAt:         t,
		Eligible:          d.Eligible,
		Reason:            d.Reason,
		Persisted:         d.Persisted,
		MultiSource:       d.MultiSource,
		SourceCount:       d.SourceCount,
		PersistWindowDays: s.cfg.PersistWindowDays,
		SourceWindowDays:  s.cfg.SourceWindowDays,
	})

	logger.C(ctx).Debug().
		Str("hypothesis_id", h.ID).
		Bool("eligible", d.Eligible).
		Str("reason", d.Reason).
		Int("source_count", d.SourceCount).
		Msg("trust gate decision")
}
