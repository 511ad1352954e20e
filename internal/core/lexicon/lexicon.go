// Package lexicon holds the fixed domain dictionaries: keyword categories,
// technology tag patterns, and role hints. The drift vocabulary is derived
// from these at init time so drift scores stay comparable across companies
// and over time (a corpus-learned vocabulary would silently invalidate
// historical comparisons)
package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

// Category labels for keyword scoring
const (
	CategoryScale      = "scale"
	CategoryOptimize   = "optimize"
	CategorySunset     = "sunset"
	CategoryCompliance = "compliance"
	CategorySecurity   = "security"
	CategoryPlatform   = "platform"
	CategoryMLInfra    = "ml_infra"
	CategoryProduct    = "product"
)

// Keywords maps a category label to the substrings counted for it
var Keywords = map[string][]string{
	CategoryScale:      {"scale", "scaling", "growth"},
	CategoryOptimize:   {"optimize", "efficiency", "cost"},
	CategorySunset:     {"sunset", "deprecate", "migrate off"},
	CategoryCompliance: {"compliance", "governance", "audit"},
	CategorySecurity:   {"security", "risk", "privacy"},
	CategoryPlatform:   {"platform", "infra", "infrastructure"},
	CategoryMLInfra:    {"ml infrastructure", "ml platform", "feature store"},
	CategoryProduct:    {"product", "growth", "expansion"},
}

// Role buckets
const (
	RoleProduct  = "product"
	RoleInfra    = "infra"
	RoleSecurity = "security"
	RoleML       = "ml"
	RoleFinance  = "finance"
	RoleOther    = "other"
)

// roleHints maps a bucket to title substrings, tried in declaration order
var roleHints = []struct {
	bucket string
	hints  []string
}{
	{RoleFinance, []string{"finance", "financial", "accounting", "controller"}},
	{RoleSecurity, []string{"security", "compliance", "risk"}},
	{RoleML, []string{"machine learning", " ml ", "ml engineer"}},
	{RoleInfra, []string{"infra", "infrastructure", "platform"}},
	{RoleProduct, []string{"product", " pm "}},
}

// techTags maps a tag to the regexes that detect it in normalized text
var techTags = map[string][]*regexp.Regexp{
	"aws":        compileAll(`\baws\b`, `amazon web services`),
	"gcp":        compileAll(`\bgcp\b`, `google cloud`),
	"azure":      compileAll(`\bazure\b`),
	"kubernetes": compileAll(`kubernetes`, `\bk8s\b`),
	"terraform":  compileAll(`terraform`),
	"spark":      compileAll(`\bspark\b`),
	"kafka":      compileAll(`kafka`),
	"databricks": compileAll(`databricks`),
	"snowflake":  compileAll(`snowflake`),
	"postgres":   compileAll(`postgres`, `postgresql`),
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// vocabulary is the fixed, sorted term list drift vectors are built over:
// every keyword term plus every role hint, deduped
var vocabulary = buildVocabulary()

func buildVocabulary() []string {
	seen := make(map[string]struct{}, 64)
	for _, terms := range Keywords {
		for _, t := range terms {
			seen[strings.TrimSpace(t)] = struct{}{}
		}
	}
	for _, rh := range roleHints {
		for _, h := range rh.hints {
			h = strings.TrimSpace(h)
			if h != "" {
				seen[h] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Vocabulary returns the fixed drift vocabulary in stable order
func Vocabulary() []string { return vocabulary }

// CategoryScores counts keyword occurrences per category over normalized text
func CategoryScores(normText string) map[string]int {
	scores := make(map[string]int, len(Keywords))
	for label, terms := range Keywords {
		n := 0
		for _, t := range terms {
			n += strings.Count(normText, t)
		}
		scores[label] = n
	}
	return scores
}

// MatchedTerms returns the sorted set of keyword terms from the given
// categories that occur in normalized text
func MatchedTerms(normText string, categories ...string) []string {
	seen := make(map[string]struct{})
	for _, c := range categories {
		for _, t := range Keywords[c] {
			if strings.Contains(normText, t) {
				seen[t] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CountAny sums occurrences of the given terms in normalized text
func CountAny(normText string, terms []string) int {
	n := 0
	for _, t := range terms {
		n += strings.Count(normText, t)
	}
	return n
}

// HasAny reports whether any of the terms occurs in normalized text
func HasAny(normText string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(normText, t) {
			return true
		}
	}
	return false
}

// ExtractTechTags returns the sorted set of technology tags found in normalized text
func ExtractTechTags(normText string) []string {
	var tags []string
	for tag, patterns := range techTags {
		for _, re := range patterns {
			if re.MatchString(normText) {
				tags = append(tags, tag)
				break
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// InferRoleBucket maps a normalized job title to a role bucket
func InferRoleBucket(normTitle string) string {
	// pad so word-ish hints like " ml " can match at the edges
	padded := " " + normTitle + " "
	for _, rh := range roleHints {
		for _, h := range rh.hints {
			if strings.Contains(padded, h) {
				return rh.bucket
			}
		}
	}
	return RoleOther
}
