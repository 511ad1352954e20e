package drift

import (
	"testing"

	"intentcast/internal/core/lexicon"
)

func TestAnalyze_EmptyBaseline(t *testing.T) {
	d := Analyze("compliance and audit readiness", lexicon.RoleSecurity, Baseline{})
	if d.Score != 0 {
		t.Fatalf("score = %v, want 0 with no history", d.Score)
	}
	if d.RoleBucketDelta != nil {
		t.Fatalf("role delta = %v, want nil with no history", d.RoleBucketDelta)
	}
}

func TestAnalyze_NovelRoleBucket(t *testing.T) {
	base := Baseline{
		Texts:      []string{"platform engineer kubernetes", "infrastructure scaling"},
		RoleCounts: map[string]int{lexicon.RoleInfra: 11},
	}
	d := Analyze("chief financial officer audit compliance", lexicon.RoleFinance, base)
	if got := d.RoleBucketDelta[lexicon.RoleFinance]; got != 1.0 {
		t.Fatalf("finance delta = %v, want 1.0 (bucket absent from baseline)", got)
	}
	if d.MaxRoleDelta() != 1.0 {
		t.Fatalf("MaxRoleDelta = %v, want 1.0", d.MaxRoleDelta())
	}
}

func TestAnalyze_FamiliarRoleBucket(t *testing.T) {
	base := Baseline{
		Texts:      []string{"infrastructure work"},
		RoleCounts: map[string]int{lexicon.RoleInfra: 3, lexicon.RoleProduct: 1},
	}
	d := Analyze("infrastructure engineer", lexicon.RoleInfra, base)
	if got := d.RoleBucketDelta[lexicon.RoleInfra]; got != 0.25 {
		t.Fatalf("infra delta = %v, want 0.25", got)
	}
}

func TestAnalyze_ScoreRisesWithDissimilarity(t *testing.T) {
	base := Baseline{Texts: []string{
		"platform infrastructure kubernetes scaling",
		"infrastructure platform terraform",
	}}
	similar := Analyze("platform infrastructure scaling", "", base)
	novel := Analyze("compliance audit governance security risk", "", base)
	if !(novel.Score > similar.Score) {
		t.Fatalf("novel score %v should exceed similar score %v", novel.Score, similar.Score)
	}
	if novel.Score < 0 || novel.Score > 1 {
		t.Fatalf("score %v out of [0,1]", novel.Score)
	}
}

func TestAnalyze_TermDeltas(t *testing.T) {
	base := Baseline{Texts: []string{"platform engineering"}}
	d := Analyze("compliance compliance audit governance", "", base)
	if len(d.TermDeltas) == 0 {
		t.Fatal("expected positive term deltas")
	}
	if len(d.TermDeltas) > 10 {
		t.Fatalf("term deltas capped at 10, got %d", len(d.TermDeltas))
	}
	if d.TermDeltas[0].Term != "compliance" {
		t.Fatalf("top delta term = %q, want compliance", d.TermDeltas[0].Term)
	}
	for i := 1; i < len(d.TermDeltas); i++ {
		if d.TermDeltas[i].Delta > d.TermDeltas[i-1].Delta {
			t.Fatal("term deltas not sorted descending")
		}
	}
}

func TestAnalyze_TagChurn(t *testing.T) {
	base := Baseline{
		Texts:     []string{"we use terraform"},
		KnownTags: []string{"terraform", "aws"},
	}
	d := Analyze("migrating workloads to kubernetes on aws", "", base)
	if len(d.TagsAdded) != 1 || d.TagsAdded[0] != "kubernetes" {
		t.Fatalf("tags added = %v, want [kubernetes]", d.TagsAdded)
	}
	if len(d.TagsRemoved) != 1 || d.TagsRemoved[0] != "terraform" {
		t.Fatalf("tags removed = %v, want [terraform]", d.TagsRemoved)
	}
}
