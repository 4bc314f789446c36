// Package rules evaluates publishing rules against enriched articles.
//
// The policy is short-circuiting, order-sensitive, and deny-by-first-match:
// rules are checked in stored order and the first rejecting rule decides the
// outcome. Rules are never scored or combined by weight.
package rules

import (
	"fmt"

	"github.com/poiesic/newswire/core"
)

// Reasons attached to publish decisions.
const (
	ReasonNoRules = "no rules defined"
	ReasonPassed  = "passed all rules"
)

// Decision is the outcome of evaluating a rule set against one article.
type Decision struct {
	Publish bool
	Reason  string
}

// Decide evaluates ruleSet in stored order against the article.
//
// An empty rule set always publishes. A rule with a category filter is
// skipped when the article's category differs. The first rule whose minimum
// summary length exceeds the article's summary rejects immediately; the
// rejection reason names the article's category, which is always set,
// rather than the rule's possibly-empty filter.
func Decide(article *core.Article, ruleSet []*core.PublishingRule) Decision {
	if len(ruleSet) == 0 {
		return Decision{Publish: true, Reason: ReasonNoRules}
	}

	for _, rule := range ruleSet {
		if rule.Category != "" && rule.Category != article.Category {
			continue
		}
		if len(article.Summary) < rule.MinSummaryLength {
			return Decision{
				Publish: false,
				Reason:  fmt.Sprintf("summary too short for %s", article.Category),
			}
		}
	}

	return Decision{Publish: true, Reason: ReasonPassed}
}
