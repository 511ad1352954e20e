// Package fusion chains scorers. Today the fused output is a plain
// concatenation in scorer order; dedupe and trust gating happen downstream
// where persistence state is visible
package fusion

import "intentcast/internal/core/scorer"

// Scorer is anything that can turn a prepared signal into candidates
type Scorer interface {
	Name() string
	Score(in scorer.Input) []scorer.Candidate
}

// Fused runs scorers in registration order
type Fused struct {
	scorers []Scorer
}

// New builds a fused scorer; order is preserved in the output
func New(scorers ...Scorer) *Fused {
	return &Fused{scorers: scorers}
}

// Score concatenates every scorer's candidates for one signal
func (f *Fused) Score(in scorer.Input) []scorer.Candidate {
	var out []scorer.Candidate
	for _, s := range f.scorers {
		out = append(out, s.Score(in)...)
	}
	return out
}
