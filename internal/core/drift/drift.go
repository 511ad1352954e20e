// Package drift measures how far a new signal's language sits from a
// company's recent history. Vectors are built over the fixed lexicon
// vocabulary so scores stay comparable across companies and over time
package drift

import (
	"math"
	"sort"
	"strings"

	"intentcast/internal/core/lexicon"
)

// Baseline is the company history a new signal is compared against.
// Texts are normalized signal bodies, RoleCounts the role-bucket tallies
// over the same window, KnownTags the union of tech tags already seen
type Baseline struct {
	Texts      []string
	RoleCounts map[string]int
	KnownTags  []string
}

// Empty reports whether there is no textual history to compare against
func (b Baseline) Empty() bool { return len(b.Texts) == 0 }

// TermDelta is one vocabulary term whose weight rose versus the baseline
type TermDelta struct {
	Term  string  `json:"term"`
	Delta float64 `json:"delta"`
}

// Descriptor is the drift analysis of a single signal
type Descriptor struct {
	Score           float64            `json:"score"`
	TermDeltas      []TermDelta        `json:"term_deltas,omitempty"`
	RoleBucketDelta map[string]float64 `json:"role_bucket_delta,omitempty"`
	TagsAdded       []string           `json:"tags_added,omitempty"`
	TagsRemoved     []string           `json:"tags_removed,omitempty"`
}

// MaxRoleDelta returns the largest role-bucket shift, 0 when none
func (d Descriptor) MaxRoleDelta() float64 {
	max := 0.0
	for _, v := range d.RoleBucketDelta {
		if v > max {
			max = v
		}
	}
	return max
}

const maxTermDeltas = 10

// Analyze scores normText against the baseline. roleBucket is the signal's
// inferred role bucket, empty when the signal carries no title.
// With an empty baseline the score is 0 and the role delta map stays nil:
// a first signal is novel by definition but there is nothing to rank it
// against, so it must not look like maximal drift
func Analyze(normText, roleBucket string, baseline Baseline) Descriptor {
	var d Descriptor

	curTags := lexicon.ExtractTechTags(normText)
	d.TagsAdded, d.TagsRemoved = diffTags(curTags, baseline.KnownTags)

	if baseline.Empty() {
		return d
	}

	vocab := lexicon.Vocabulary()
	docs := make([][]float64, 0, len(baseline.Texts)+1)
	for _, t := range baseline.Texts {
		docs = append(docs, termCounts(t, vocab))
	}
	cur := termCounts(normText, vocab)
	docs = append(docs, cur)

	idf := inverseDocFreq(docs)
	for i := range docs {
		applyIDF(docs[i], idf)
	}
	curVec := docs[len(docs)-1]
	meanBase := meanVector(docs[:len(docs)-1])

	d.Score = clamp01(1 - cosine(curVec, meanBase))
	d.TermDeltas = topTermDeltas(vocab, curVec, meanBase)

	if roleBucket != "" {
		d.RoleBucketDelta = map[string]float64{
			roleBucket: 1 - bucketShare(roleBucket, baseline.RoleCounts),
		}
	}
	return d
}

// termCounts builds a raw term-frequency vector over vocab
func termCounts(normText string, vocab []string) []float64 {
	v := make([]float64, len(vocab))
	for i, term := range vocab {
		v[i] = float64(strings.Count(normText, term))
	}
	return v
}

// inverseDocFreq is smoothed: log((N+1)/(df+1)) + 1
func inverseDocFreq(docs [][]float64) []float64 {
	if len(docs) == 0 {
		return nil
	}
	n := float64(len(docs))
	idf := make([]float64, len(docs[0]))
	for i := range idf {
		df := 0.0
		for _, doc := range docs {
			if doc[i] > 0 {
				df++
			}
		}
		idf[i] = math.Log((n+1)/(df+1)) + 1
	}
	return idf
}

func applyIDF(vec, idf []float64) {
	for i := range vec {
		vec[i] *= idf[i]
	}
}

func meanVector(docs [][]float64) []float64 {
	if len(docs) == 0 {
		return nil
	}
	mean := make([]float64, len(docs[0]))
	for _, doc := range docs {
		for i, v := range doc {
			mean[i] += v
		}
	}
	n := float64(len(docs))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}

// cosine similarity; 0 when either vector is all zeros
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// topTermDeltas returns at most maxTermDeltas terms whose weight rose,
// sorted by delta descending, ties broken by term for determinism
func topTermDeltas(vocab []string, cur, base []float64) []TermDelta {
	var deltas []TermDelta
	for i, term := range vocab {
		if d := cur[i] - base[i]; d > 0 {
			deltas = append(deltas, TermDelta{Term: term, Delta: round4(d)})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].Delta != deltas[j].Delta {
			return deltas[i].Delta > deltas[j].Delta
		}
		return deltas[i].Term < deltas[j].Term
	})
	if len(deltas) > maxTermDeltas {
		deltas = deltas[:maxTermDeltas]
	}
	return deltas
}

func bucketShare(bucket string, counts map[string]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	return float64(counts[bucket]) / float64(total)
}

// diffTags splits current vs known into added and removed, both sorted
func diffTags(cur, known []string) (added, removed []string) {
	curSet := make(map[string]struct{}, len(cur))
	for _, t := range cur {
		curSet[t] = struct{}{}
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, t := range known {
		knownSet[t] = struct{}{}
	}
	for t := range curSet {
		if _, ok := knownSet[t]; !ok {
			added = append(added, t)
		}
	}
	for t := range knownSet {
		if _, ok := curSet[t]; !ok {
			removed = append(removed, t)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
