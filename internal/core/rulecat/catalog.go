// Package rulecat loads the declarative intent rule catalog embedded in the
// binary. Rules are data, not code: adding a signal pattern means editing
// rules.json, and a malformed catalog fails startup rather than silently
// matching nothing
package rulecat

import (
	"encoding/json"

	_ "embed"

	"github.com/go-playground/validator/v10"

	perr "intentcast/internal/platform/errors"
)

//go:embed rules.json
var rulesJSON []byte

// Rule is one declarative detection rule. Patterns are matched as literal
// substrings against normalized text; the first pattern that matches wins
type Rule struct {
	Name        string   `json:"name"        validate:"required,lowercase"`
	Intent      string   `json:"intent"      validate:"required,uppercase"`
	AppliesTo   []string `json:"applies_to"  validate:"required,min=1,dive,oneof=job_posting news filing"`
	Patterns    []string `json:"patterns"    validate:"required,min=1,dive,required"`
	Weight      float64  `json:"weight"      validate:"required,gt=0,lte=1"`
	Explanation string   `json:"explanation" validate:"required"`
}

// AppliesToSource reports whether the rule covers the given source kind
func (r Rule) AppliesToSource(source string) bool {
	for _, s := range r.AppliesTo {
		if s == source {
			return true
		}
	}
	return false
}

type catalogFile struct {
	Version int    `json:"version" validate:"required,min=1"`
	Rules   []Rule `json:"rules"   validate:"required,min=1,dive"`
}

// Catalog is the validated, immutable rule set
type Catalog struct {
	version int
	rules   []Rule
}

// Load parses and validates the embedded catalog. Any defect is a fatal
// configuration error: a half-working catalog corrupts every readiness
// score downstream
func Load() (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(rulesJSON, &f); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "rule catalog: malformed json")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(f); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "rule catalog: validation failed")
	}

	seen := make(map[string]struct{}, len(f.Rules))
	for _, r := range f.Rules {
		if _, dup := seen[r.Name]; dup {
			return nil, perr.Configf("rule catalog: duplicate rule name %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	// catalog order is author order and is part of the scoring contract
	rules := make([]Rule, len(f.Rules))
	copy(rules, f.Rules)

	return &Catalog{version: f.Version, rules: rules}, nil
}

// Version returns the catalog schema version
func (c *Catalog) Version() int { return c.version }

// Rules returns the catalog in stable author order. Callers must not mutate
func (c *Catalog) Rules() []Rule { return c.rules }

// ForIntent returns the rules targeting one intent type, in catalog order
func (c *Catalog) ForIntent(intent string) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.Intent == intent {
			out = append(out, r)
		}
	}
	return out
}
