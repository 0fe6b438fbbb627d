// Package categorize implements the rule-based transaction categorizer.
package categorize

import (
	"fmt"
	"regexp"
	"strings"

	"finguru/internal/core"
	"finguru/internal/taxonomy"
)

// Result is a category assignment with a confidence score in [0,1].
type Result struct {
	Category    string
	Subcategory string
	Confidence  float64
}

var (
	salaryKeywords = []string{"salary", "payroll", "wages", "income", "deposit"}
	refundKeywords = []string{"refund", "return", "reimbursement"}
)

const (
	baseConfidence     = 0.7
	perMatchConfidence = 0.1
	maxConfidence      = 0.95
	fallbackConfidence = 0.5
)

type compiledSubcategory struct {
	category    string
	subcategory string
	patterns    []*regexp.Regexp
}

// Categorizer matches merchant and description text against the taxonomy.
// It is stateless after construction and safe to share across sequential
// invocations.
type Categorizer struct {
	rules []compiledSubcategory
}

// New compiles the catalog's keywords into whole-word, case-insensitive
// patterns, preserving declaration order for tie-breaking.
func New(catalog []taxonomy.Category) *Categorizer {
	c := &Categorizer{}
	for _, cat := range catalog {
		for _, sub := range cat.Subcategories {
			compiled := compiledSubcategory{
				category:    cat.Name,
				subcategory: sub.Name,
				patterns:    make([]*regexp.Regexp, 0, len(sub.Keywords)),
			}
			for _, kw := range sub.Keywords {
				expr := fmt.Sprintf(`(?i)\b%s\b`, regexp.QuoteMeta(kw))
				compiled.patterns = append(compiled.patterns, regexp.MustCompile(expr))
			}
			c.rules = append(c.rules, compiled)
		}
	}
	return c
}

// Categorize assigns a category and subcategory to a transaction.
//
// Positive amounts are income and short-circuit expense matching: the
// income subcategory is picked by plain substring search. Expenses walk
// every subcategory in catalog order counting whole-word keyword matches;
// confidence grows with the match count and a later candidate only
// replaces the current best when strictly more confident, so the first
// declared subcategory wins ties.
func (c *Categorizer) Categorize(merchantName, description string, amount core.Money) Result {
	text := strings.ToLower(merchantName + " " + description)

	if amount.IsIncome() {
		switch {
		case containsAny(text, salaryKeywords):
			return Result{Category: "Income", Subcategory: "Salary", Confidence: 1.0}
		case containsAny(text, refundKeywords):
			return Result{Category: "Income", Subcategory: "Refund", Confidence: 0.9}
		default:
			return Result{Category: "Income", Subcategory: "Other Income", Confidence: 0.7}
		}
	}

	var best Result
	for _, rule := range c.rules {
		matches := 0
		for _, pattern := range rule.patterns {
			if pattern.MatchString(text) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		confidence := baseConfidence + perMatchConfidence*float64(matches)
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		if confidence > best.Confidence {
			best = Result{
				Category:    rule.category,
				Subcategory: rule.subcategory,
				Confidence:  confidence,
			}
		}
	}

	if best.Category == "" {
		return Result{
			Category:    core.DefaultCategory,
			Subcategory: core.DefaultSubcategory,
			Confidence:  fallbackConfidence,
		}
	}
	return best
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
