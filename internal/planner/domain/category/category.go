// Package category classifies task descriptions into coarse categories.
// The category is the join key between tasks and learned statistics, so
// classification must be deterministic: identical input always yields the
// same output.
package category

import "strings"

// General is the fallback category when no keyword matches.
const General = "general"

type rule struct {
	name     string
	keywords []string
}

// Ordered rules; the first matching category wins.
var rules = []rule{
	{"communication", []string{"email", "message", "reply"}},
	{"meeting", []string{"meeting", "call", "discuss"}},
	{"writing", []string{"write", "document", "report"}},
	{"development", []string{"code", "develop", "program"}},
	{"review", []string{"review", "check", "analyze"}},
	{"planning", []string{"plan", "organize", "prepare"}},
	{"learning", []string{"learn", "study", "research"}},
}

// Classify maps a task description to a category via case-insensitive
// keyword matching. Unmatched descriptions fall back to General.
func Classify(description string) string {
	lowered := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.name
			}
		}
	}
	return General
}

// All returns the known category names in matching order, without General.
func All() []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.name)
	}
	return names
}
