package service

import (
	"strings"
	"testing"

	intdom "intentcast/internal/services/intents/domain"
	"intentcast/internal/services/translator/domain"
)

func h(intentType string, confidence float64, summary string) intdom.Hypothesis {
	return intdom.Hypothesis{
		IntentType:  intentType,
		Confidence:  confidence,
		Explanation: intdom.Explanation{Summary: summary},
	}
}

func TestBuild_Empty(t *testing.T) {
	d := build(nil)
	if len(d.InvestorSummary) != 1 || d.InvestorSummary[0] != "No recent intent hypotheses." {
		t.Fatalf("investor summary = %v", d.InvestorSummary)
	}
	if d.Risk != domain.RiskLow {
		t.Fatalf("risk = %q, want low", d.Risk)
	}
	if d.JobseekerSummary != "Stability risk: low." {
		t.Fatalf("jobseeker summary = %q", d.JobseekerSummary)
	}
}

func TestBuild_MostConfidentPerType(t *testing.T) {
	d := build([]intdom.Hypothesis{
		h("IPO_PREP", 0.5, "weaker"),
		h("IPO_PREP", 0.8, "stronger"),
	})
	if len(d.InvestorSummary) != 1 {
		t.Fatalf("investor summary = %v, want one line per type", d.InvestorSummary)
	}
	line := d.InvestorSummary[0]
	if !strings.Contains(line, "0.80") || !strings.Contains(line, "stronger") {
		t.Fatalf("line = %q, want the 0.80 hypothesis", line)
	}
}

func TestBuild_RiskLevels(t *testing.T) {
	cases := []struct {
		name string
		hyps []intdom.Hypothesis
		want string
	}{
		{"quiet", []intdom.Hypothesis{h("PRODUCT_EXPANSION", 0.6, "")}, domain.RiskLow},
		{"ipo only", []intdom.Hypothesis{h("IPO_PREP", 0.8, "")}, domain.RiskLow},
		{"cost", []intdom.Hypothesis{h("COST_PRESSURE", 0.7, "")}, domain.RiskMedium},
		{"cost plus ipo", []intdom.Hypothesis{
			h("COST_PRESSURE", 0.7, ""),
			h("IPO_PREP", 0.8, ""),
		}, domain.RiskHigh},
		{"cost plus sunset", []intdom.Hypothesis{
			h("COST_PRESSURE", 0.7, ""),
			h("SUNSETTING_PRODUCTS", 0.7, ""),
		}, domain.RiskHigh},
	}
	for _, tc := range cases {
		if got := build(tc.hyps).Risk; got != tc.want {
			t.Errorf("%s: risk = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBuild_LinesSortedByType(t *testing.T) {
	d := build([]intdom.Hypothesis{
		h("SUNSETTING_PRODUCTS", 0.7, "s"),
		h("COST_PRESSURE", 0.6, "c"),
	})
	if len(d.InvestorSummary) != 2 {
		t.Fatalf("lines = %v", d.InvestorSummary)
	}
	if !strings.HasPrefix(d.InvestorSummary[0], "COST_PRESSURE") {
		t.Fatalf("lines not sorted: %v", d.InvestorSummary)
	}
}
