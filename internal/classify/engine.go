package classify

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// FallbackRule is the rule identifier reported when no configured rule
// matched and the deterministic fallback produced the result.
const FallbackRule = "fallback"

// ClassificationError wraps a failure inside one rule. It scopes the
// damage to a single movement; a batch caller logs it and moves on.
type ClassificationError struct {
	RuleID string
	Err    error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ErrRuleNotFound reports an unknown rule ID in apply-specific mode.
type ErrRuleNotFound struct {
	RuleID string
}

func (e *ErrRuleNotFound) Error() string {
	return fmt.Sprintf("rule %s not found", e.RuleID)
}

// Result is one classification outcome.
type Result struct {
	Set         *OperationSet
	RuleID      string
	Description string
	Matched     bool // false when the fallback or a forced rule produced the set
}

// Engine walks an ordered rule set. The set is held behind an atomic
// pointer and replaced wholesale; a classification in flight sees either
// the old or the new list, never a mix.
type Engine struct {
	rules atomic.Pointer[[]Rule]
	log   *slog.Logger
}

func NewEngine(rules []Rule, log *slog.Logger) *Engine {
	e := &Engine{log: log}
	e.Replace(rules)

	return e
}

// Replace swaps in a new ordered rule set. Last writer wins.
func (e *Engine) Replace(rules []Rule) {
	snapshot := make([]Rule, len(rules))
	copy(snapshot, rules)
	e.rules.Store(&snapshot)
}

// Rules returns the current ordered rule set.
func (e *Engine) Rules() []Rule {
	return *e.rules.Load()
}

// Classify runs the ordered rule walk for one movement tuple. The first
// matching rule's generator wins; with no match the fallback generator
// builds the result. A generator failure aborts only this movement.
func (e *Engine) Classify(t Tuple, now time.Time) (*Result, error) {
	for _, rule := range e.Rules() {
		if !rule.Matcher.Match(t) {
			continue
		}

		set, err := e.generate(rule, t, now)
		if err != nil {
			return nil, err
		}

		return &Result{
			Set:         set,
			RuleID:      rule.ID,
			Description: rule.Description,
			Matched:     true,
		}, nil
	}

	set := fallback(t, now)
	if err := set.Validate(t.Importe); err != nil {
		return nil, &ClassificationError{RuleID: FallbackRule, Err: err}
	}

	description := "Auto-generated Arqueo for positive amount"
	if t.Importe < 0 {
		description = "Auto-generated Ado220 for negative amount"
	}

	return &Result{
		Set:         set,
		RuleID:      FallbackRule,
		Description: description,
	}, nil
}

// Apply runs one specific rule regardless of whether its matcher accepts
// the tuple. An operator asking for a rule by name overrides the
// automatic gating; a non-matching matcher is only logged.
func (e *Engine) Apply(ruleID string, t Tuple, now time.Time) (*Result, error) {
	for _, rule := range e.Rules() {
		if rule.ID != ruleID {
			continue
		}

		matched := rule.Matcher.Match(t)
		if !matched {
			e.log.Warn("applying rule that does not match movement",
				"rule", ruleID, "caja", t.Caja, "fecha", t.Fecha)
		}

		set, err := e.generate(rule, t, now)
		if err != nil {
			return nil, err
		}

		return &Result{
			Set:         set,
			RuleID:      rule.ID,
			Description: rule.Description,
			Matched:     matched,
		}, nil
	}

	return nil, &ErrRuleNotFound{RuleID: ruleID}
}

func (e *Engine) generate(rule Rule, t Tuple, now time.Time) (*OperationSet, error) {
	if err := rule.Generator.Validate(); err != nil {
		return nil, &ClassificationError{RuleID: rule.ID, Err: err}
	}

	set := rule.Generator.Generate(t, now)

	if err := set.Validate(t.Importe); err != nil {
		return nil, &ClassificationError{RuleID: rule.ID, Err: err}
	}

	return set, nil
}
