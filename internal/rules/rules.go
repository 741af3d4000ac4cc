// Package rules holds named, anchored regular-expression rules used to pull
// field values out of flat page text. Each rule is compiled once at package
// init and captures the field value in its first group(s).
package rules

import (
	"regexp"
	"strings"
)

// Rule is a named anchored pattern.
type Rule struct {
	name string
	re   *regexp.Regexp
}

// MustCompile builds a Rule and panics on a bad expression.
func MustCompile(name, expr string) *Rule {
	return &Rule{name: name, re: regexp.MustCompile(expr)}
}

// Name identifies the rule in logs and tests.
func (r *Rule) Name() string { return r.name }

// Match returns the capture groups of the first match, or nil.
func (r *Rule) Match(text string) []string {
	m := r.re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return m[1:]
}

// First returns the first capture group of the first match.
func (r *Rule) First(text string) (string, bool) {
	m := r.Match(text)
	if len(m) == 0 {
		return "", false
	}
	return m[0], true
}

// FirstOf tries rules in order and returns the first group of the first that matches.
func FirstOf(text string, rs ...*Rule) (string, bool) {
	for _, r := range rs {
		if v, ok := r.First(text); ok {
			return v, true
		}
	}
	return "", false
}

// Strip removes every match of re from s and trims the result.
func Strip(re *regexp.Regexp, s string) string {
	return strings.TrimSpace(re.ReplaceAllString(s, ""))
}
