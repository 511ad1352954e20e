package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"intentcast/internal/core/drift"
	"intentcast/internal/core/fusion"
	"intentcast/internal/core/rulecat"
	"intentcast/internal/core/scorer"
	intdom "intentcast/internal/services/intents/domain"
	sigdom "intentcast/internal/services/signals/domain"
)

// fakeSignals serves signals from memory
type fakeSignals struct {
	signals       []sigdom.Signal
	sources       int
	distinctCalls int
}

func (f *fakeSignals) ListByCompany(_ context.Context, companyID int64, since *time.Time) ([]sigdom.Signal, error) {
	var out []sigdom.Signal
	for _, s := range f.signals {
		if s.CompanyID != companyID {
			continue
		}
		if since != nil && s.EventAt.Before(*since) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSignals) DistinctSources(context.Context, int64, time.Time, time.Time) (int, error) {
	f.distinctCalls++
	return f.sources, nil
}

func (f *fakeSignals) ExistsByFingerprint(_ context.Context, fp string) (bool, error) {
	for _, s := range f.signals {
		if s.Fingerprint == fp {
			return true, nil
		}
	}
	return false, nil
}

// fakeIntents stores hypotheses in memory and mimics the dedupe index
type fakeIntents struct {
	rows            []intdom.Hypothesis
	listByTypeCalls int
}

func (f *fakeIntents) InsertBatch(_ context.Context, xs []intdom.Hypothesis) (int, error) {
	existing := map[intdom.Pair]struct{}{}
	for _, h := range f.rows {
		if p, ok := h.DedupeKey(); ok {
			existing[p] = struct{}{}
		}
	}
	n := 0
	for _, h := range xs {
		if p, ok := h.DedupeKey(); ok {
			if _, dup := existing[p]; dup {
				continue
			}
			existing[p] = struct{}{}
		}
		f.rows = append(f.rows, h)
		n++
	}
	return n, nil
}

func (f *fakeIntents) ListByCompany(_ context.Context, companyID int64) ([]intdom.Hypothesis, error) {
	var out []intdom.Hypothesis
	for _, h := range f.rows {
		if h.CompanyID == companyID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeIntents) ListByType(
	_ context.Context,
	companyID int64,
	intentType string,
	since, until time.Time,
) ([]intdom.Hypothesis, error) {
	f.listByTypeCalls++
	var out []intdom.Hypothesis
	for _, h := range f.rows {
		if h.CompanyID == companyID && h.IntentType == intentType &&
			!h.CreatedAt.Before(since) && !h.CreatedAt.After(until) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeIntents) ExistingPairs(context.Context, int64) (map[intdom.Pair]struct{}, error) {
	out := map[intdom.Pair]struct{}{}
	for _, h := range f.rows {
		if p, ok := h.DedupeKey(); ok {
			out[p] = struct{}{}
		}
	}
	return out, nil
}

func (f *fakeIntents) UsedSignalIDs(context.Context, int64) (map[int64]struct{}, error) {
	out := map[int64]struct{}{}
	for _, h := range f.rows {
		if p, ok := h.DedupeKey(); ok {
			out[p.SignalID] = struct{}{}
		}
	}
	return out, nil
}

func newService(t *testing.T, sigs *fakeSignals, ints *fakeIntents) *Service {
	t.Helper()
	catalog, err := rulecat.Load()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	fused := fusion.New(scorer.New(catalog), scorer.NewNoop())
	return New(sigs, ints, ints, fused, Config{})
}

func signalAt(id, companyID int64, source, text string, day int, title string) sigdom.Signal {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	return sigdom.Signal{
		ID:        id,
		CompanyID: companyID,
		Source:    source,
		EventAt:   at,
		RawText:   text,
		NormText:  strings.ToLower(text),
		Fields:    sigdom.Fields{Title: title},
	}
}

func TestInferCompany_Idempotent(t *testing.T) {
	sigs := &fakeSignals{sources: 1, signals: []sigdom.Signal{
		signalAt(1, 7, "job_posting", "chief financial officer for sox readiness", 10, "Chief Financial Officer"),
		signalAt(2, 7, "job_posting", "drive cost efficiency initiatives", 11, ""),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	first, err := svc.InferCompany(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Inserted == 0 {
		t.Fatal("first run inserted nothing")
	}

	second, err := svc.InferCompany(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Inserted != 0 {
		t.Fatalf("second run inserted %d, want 0 (unchanged signal set)", second.Inserted)
	}
}

func TestInferCompany_QuietSignalsProduceNothing(t *testing.T) {
	sigs := &fakeSignals{sources: 1, signals: []sigdom.Signal{
		signalAt(1, 7, "job_posting", "backend engineer for billing services", 10, ""),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	res, err := svc.InferCompany(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Inserted != 0 {
		t.Fatalf("inserted %d hypotheses from a quiet signal, want 0", res.Inserted)
	}
}

func TestInferCompany_TrustGateDeniesSingleSource(t *testing.T) {
	// strong readiness, but no prior history and one distinct source
	text := "chief financial officer leading sox, internal audit, investor relations, sec reporting"
	sigs := &fakeSignals{sources: 1, signals: []sigdom.Signal{
		signalAt(1, 7, "job_posting", text, 10, "Chief Financial Officer"),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	if _, err := svc.InferCompany(context.Background(), 7, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	var ipo *intdom.Hypothesis
	for i := range ints.rows {
		if ints.rows[i].IntentType == scorer.IntentIPOPrep {
			ipo = &ints.rows[i]
		}
	}
	if ipo == nil {
		t.Fatal("expected an ipo hypothesis")
	}
	if ipo.Readiness < 70 {
		t.Fatalf("readiness = %v, test needs a gated hypothesis", ipo.Readiness)
	}
	if ipo.AlertEligible {
		t.Fatal("single-source, history-free hypothesis must not be alert eligible")
	}
	if len(ipo.Explanation.TrustTrail) != 1 {
		t.Fatalf("trust trail has %d entries, want 1", len(ipo.Explanation.TrustTrail))
	}
	entry := ipo.Explanation.TrustTrail[0]
	if !strings.Contains(entry.Reason, "not persistent or multi-source") {
		t.Fatalf("reason = %q", entry.Reason)
	}
	if ipo.AlertReason != entry.Reason {
		t.Fatalf("alert reason = %q, want trail reason %q", ipo.AlertReason, entry.Reason)
	}
	if entry.PersistWindowDays != 60 || entry.SourceWindowDays != 30 {
		t.Fatalf("windows = %d/%d, want 60/30", entry.PersistWindowDays, entry.SourceWindowDays)
	}
	if entry.SourceCount != 1 {
		t.Fatalf("source count = %d, want 1", entry.SourceCount)
	}
	if len(ipo.Evidence) == 0 || len(ipo.Evidence[0].Triggers) == 0 {
		t.Fatal("evidence must record the trigger terms")
	}
}

func TestInferCompany_TrustGateMultiSource(t *testing.T) {
	text := "chief financial officer leading sox, internal audit, investor relations, sec reporting"
	sigs := &fakeSignals{sources: 2, signals: []sigdom.Signal{
		signalAt(1, 7, "job_posting", text, 10, "Chief Financial Officer"),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	if _, err := svc.InferCompany(context.Background(), 7, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, h := range ints.rows {
		if h.IntentType == scorer.IntentIPOPrep {
			if !h.AlertEligible {
				t.Fatal("two corroborating sources should be alert eligible")
			}
			if !strings.Contains(h.Explanation.TrustTrail[0].Reason, "multiple sources") {
				t.Fatalf("reason = %q", h.Explanation.TrustTrail[0].Reason)
			}
			return
		}
	}
	t.Fatal("expected an ipo hypothesis")
}

func TestInferCompany_ModestReadinessGatedBelowFloor(t *testing.T) {
	// a single 0.3-weight hit lands around readiness 57: emitted via the
	// hit override but under the 70 trust floor
	sigs := &fakeSignals{sources: 2, signals: []sigdom.Signal{
		signalAt(1, 7, "news", "board adds governance committee", 10, ""),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	if _, err := svc.InferCompany(context.Background(), 7, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, h := range ints.rows {
		if h.IntentType == scorer.IntentIPOPrep {
			if h.AlertEligible {
				t.Fatal("sub-threshold readiness must not be alert eligible")
			}
			if !strings.Contains(h.Explanation.TrustTrail[0].Reason, "below 70") {
				t.Fatalf("reason = %q", h.Explanation.TrustTrail[0].Reason)
			}
			if !strings.Contains(h.AlertReason, "below 70") {
				t.Fatalf("alert reason = %q", h.AlertReason)
			}
			// a below-floor decision needs no history lookups
			if ints.listByTypeCalls != 0 || sigs.distinctCalls != 0 {
				t.Fatalf("gate read history: priors=%d sources=%d, want 0/0",
					ints.listByTypeCalls, sigs.distinctCalls)
			}
			return
		}
	}
	t.Fatal("expected an ipo hypothesis from the rule hit")
}

func TestScoreSignal_RoleBucketOnlyForJobPostings(t *testing.T) {
	svc := newService(t, &fakeSignals{}, &fakeIntents{})

	news := signalAt(1, 7, "news", "platform infrastructure team expands", 10, "Infrastructure Engineer")
	for _, c := range svc.ScoreSignal(news, nil) {
		if c.IntentType == scorer.IntentPlatformPivot {
			t.Fatal("news signal must not carry a role bucket")
		}
	}

	posting := signalAt(2, 7, "job_posting", "platform infrastructure team expands", 10, "Infrastructure Engineer")
	for _, c := range svc.ScoreSignal(posting, nil) {
		if c.IntentType == scorer.IntentPlatformPivot {
			return
		}
	}
	t.Fatal("job posting with infra title and platform language should pivot")
}

func TestInferCompany_DedupeAcrossRuns(t *testing.T) {
	sigs := &fakeSignals{sources: 1, signals: []sigdom.Signal{
		signalAt(1, 7, "job_posting", "sunset the legacy billing stack", 10, ""),
	}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	for i := 0; i < 3; i++ {
		if _, err := svc.InferCompany(context.Background(), 7, nil); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	pairs := map[intdom.Pair]int{}
	for _, h := range ints.rows {
		if p, ok := h.DedupeKey(); ok {
			pairs[p]++
		}
	}
	for p, n := range pairs {
		if n > 1 {
			t.Fatalf("pair %+v persisted %d times", p, n)
		}
	}
}

func TestInferCompany_SinceFiltersProcessingNotBaseline(t *testing.T) {
	old := signalAt(1, 7, "job_posting", "platform infrastructure kubernetes scaling", 1, "Infrastructure Engineer")
	fresh := signalAt(2, 7, "job_posting", "chief financial officer for sox compliance", 40, "Chief Financial Officer")
	sigs := &fakeSignals{sources: 1, signals: []sigdom.Signal{old, fresh}}
	ints := &fakeIntents{}
	svc := newService(t, sigs, ints)

	since := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	res, err := svc.InferCompany(context.Background(), 7, &since)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Signals != 1 {
		t.Fatalf("processed %d signals, want only the fresh one", res.Signals)
	}

	// the old signal still served as baseline: the finance role is novel
	for _, h := range ints.rows {
		if h.IntentType == scorer.IntentIPOPrep {
			if h.Explanation.Drift == nil {
				t.Fatal("ipo hypothesis missing drift descriptor")
			}
			if got := h.Explanation.Drift.RoleBucketDelta["finance"]; got != 1.0 {
				t.Fatalf("finance role delta = %v, want 1.0", got)
			}
			return
		}
	}
	t.Fatal("expected an ipo hypothesis")
}

func TestScoreSignal_PureNoStorage(t *testing.T) {
	svc := newService(t, &fakeSignals{}, &fakeIntents{})

	sig := signalAt(1, 7, "job_posting", "hiring a chief financial officer to lead sox compliance", 10, "Chief Financial Officer")
	cands := svc.ScoreSignal(sig, nil)

	found := false
	for _, c := range cands {
		if c.IntentType == scorer.IntentIPOPrep {
			found = true
			if c.Readiness < 55 {
				t.Fatalf("readiness = %.2f, want >= 55", c.Readiness)
			}
		}
	}
	if !found {
		t.Fatal("no IPO_PREP candidate from CFO+SOX text")
	}
}

func TestComputeDrift_EmptyBaselineNeutral(t *testing.T) {
	svc := newService(t, &fakeSignals{}, &fakeIntents{})

	d := svc.ComputeDrift("chief financial officer", "Chief Financial Officer", drift.Baseline{})
	if d.Score != 0 {
		t.Fatalf("score = %.4f, want 0 with no baseline", d.Score)
	}
	if len(d.RoleBucketDelta) != 0 {
		t.Fatalf("role delta = %v, want empty with no baseline", d.RoleBucketDelta)
	}
}

func TestDecideTrust_ReasonTexts(t *testing.T) {
	cases := []struct {
		readiness   float64
		persisted   bool
		multi       bool
		wantElig    bool
		wantContain string
	}{
		{50, true, true, false, "below 70"},
		{80, true, true, true, "persisted and confirmed"},
		{80, true, false, true, "persisted across periods"},
		{80, false, true, true, "multiple sources"},
		{80, false, false, false, "not persistent or multi-source"},
	}
	for _, tc := range cases {
		d := decideTrust(tc.readiness, 70, tc.persisted, tc.multi, 1)
		if d.Eligible != tc.wantElig {
			t.Errorf("readiness=%v persisted=%v multi=%v: eligible=%v, want %v",
				tc.readiness, tc.persisted, tc.multi, d.Eligible, tc.wantElig)
		}
		if !strings.Contains(d.Reason, tc.wantContain) {
			t.Errorf("reason %q does not mention %q", d.Reason, tc.wantContain)
		}
	}
}
