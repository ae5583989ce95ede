package moderation

import "time"

// Severity classifies how serious a blocked word is. Severities aggregate
// across a submission: a single high or critical word is enough to reject,
// lower tiers only reject cumulatively.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for comparison: low=1 through critical=4.
// Unknown severities rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Weight is the aggregation weight used by the blocked-word scan. One high
// or critical word meets the reject threshold on its own.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 5
	case SeverityCritical:
		return 8
	}
	return 0
}

// Valid reports whether s is a known severity tier.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Rule identifies which pipeline rule produced a verdict.
type Rule string

const (
	RuleNone         Rule = "none"
	RuleValidation   Rule = "validation"
	RuleDuplicate    Rule = "duplicate"
	RuleEmbeddedCode Rule = "embedded_code"
	RuleLinks        Rule = "links"
	RuleBlockedWords Rule = "blocked_words"
	RuleSpam         Rule = "spam"
	RuleSentiment    Rule = "sentiment"
	RuleCaps         Rule = "caps"
	RuleRepetition   Rule = "repetition"
	RuleEngineError  Rule = "engine_error"
)

// Soft reports whether the rule is a heuristic one, eligible for the trust
// override. Structural rules (validation, duplicate, code, links) are never
// overridden.
func (r Rule) Soft() bool {
	switch r {
	case RuleBlockedWords, RuleSpam, RuleSentiment, RuleCaps, RuleRepetition:
		return true
	}
	return false
}

// Scores carries every sub-signal computed during a decision, returned to
// the caller and persisted with the audit log entry.
type Scores struct {
	Spam      float64 `json:"spam"`
	Sentiment float64 `json:"sentiment"`
	Toxicity  float64 `json:"toxicity"`
	CapsRatio float64 `json:"caps_ratio"`
	LinkCount int     `json:"link_count"`
	UserTrust float64 `json:"user_trust"`
}

// Verdict is the outcome of a moderation decision.
type Verdict struct {
	Approved     bool     `json:"approved"`
	Reason       string   `json:"reason,omitempty"`
	Confidence   float64  `json:"confidence"`
	FlaggedWords []string `json:"flagged_words,omitempty"`
	Rule         Rule     `json:"rule"`
	Scores       Scores   `json:"scores"`
}

// LogEntry is an immutable audit record of one decision. Content is
// truncated before persistence; entries are never mutated or deleted here.
type LogEntry struct {
	ID           string
	UserID       string
	PageID       string
	Content      string
	Approved     bool
	Reason       string
	Rule         Rule
	Confidence   float64
	FlaggedWords []string
	Scores       Scores
	CreatedAt    time.Time
}

// DecidedEvent is published after every decision for a known user. The
// trust-update worker consumes it to adjust the user's counters without
// delaying the moderation response.
type DecidedEvent struct {
	EventID  string `json:"event_id"`
	UserID   string `json:"user_id"`
	PageID   string `json:"page_id,omitempty"`
	Approved bool   `json:"approved"`
	Rule     Rule   `json:"rule"`
	Ts       int64  `json:"ts"`
}

// SubmissionRequest is published to moderation.submit when a comment needs
// review.
type SubmissionRequest struct {
	RequestID string `json:"request_id"`
	Content   string `json:"content"`
	UserID    string `json:"user_id,omitempty"`
	PageID    string `json:"page_id,omitempty"`
	Ts        int64  `json:"ts"`
}

// SubmissionResult is published back to moderation.verdict.<request_id>
// with the full verdict.
type SubmissionResult struct {
	RequestID string  `json:"request_id"`
	Verdict   Verdict `json:"verdict"`
}
