// Package moderation implements the content moderation decision engine for
// ThreadKit comments. It combines blocked-word matching, spam heuristics,
// sentiment scoring, format analysis, duplicate detection, and per-user
// trust into a single auditable verdict.
package moderation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/threadkit/comments/internal/metrics"
)

// Rejection reasons shown to submitters. Infrastructure errors are never
// surfaced here.
const (
	ReasonEmpty        = "Empty content"
	ReasonTooLong      = "Content too long"
	ReasonTooShort     = "Content too short"
	ReasonEmbeddedCode = "HTML, CSS, or JavaScript code is not allowed"
	ReasonLinks        = "External links are not allowed"
	ReasonTooManyLinks = "Too many links"
	ReasonBlockedWords = "Contains prohibited language"
	ReasonSpam         = "Detected as spam"
	ReasonSentiment    = "Extremely negative content"
	ReasonCaps         = "Excessive capitalization"
	ReasonRepetition   = "Excessive character repetition"
	ReasonEngineError  = "Moderation service error"
)

// defaultTrust is the neutral trust score assumed for unknown users and on
// trust lookup failure.
const defaultTrust = 0.5

// blockedWordRejectWeight is the aggregate severity weight at which the
// blocked-word scan rejects. One high or critical word is enough.
const blockedWordRejectWeight = 5

// WordListProvider resolves a lowercase token to its blocked-word severity.
type WordListProvider interface {
	Lookup(token string) (Severity, bool)
}

// DuplicateChecker reports whether a user has submitted identical content
// within the duplicate window, recording the submission either way.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, userID, content string) (bool, error)
}

// TrustProvider returns the user's current trust score, lazily creating the
// record for first-time users.
type TrustProvider interface {
	Score(ctx context.Context, userID string) (float64, error)
}

// LogAppender persists one immutable audit entry per decision.
type LogAppender interface {
	Append(ctx context.Context, entry LogEntry) error
}

// EventPublisher emits the post-decision event consumed by the trust-update
// worker.
type EventPublisher interface {
	PublishDecided(event DecidedEvent) error
}

// Config carries the engine's tunable thresholds. Zero values are not
// usable; start from DefaultConfig.
type Config struct {
	SpamThreshold      float64
	SentimentThreshold float64
	CapsRatioThreshold float64
	MaxLinksAllowed    int
	MinCommentLength   int
	MaxCommentLength   int
	DuplicateWindow    time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SpamThreshold:      0.7,
		SentimentThreshold: -3,
		CapsRatioThreshold: 0.8,
		MaxLinksAllowed:    3,
		MinCommentLength:   1,
		MaxCommentLength:   5000,
		DuplicateWindow:    15 * time.Minute,
	}
}

// Engine orchestrates all moderation signals into one verdict per
// submission. Instances are safe for concurrent use.
type Engine struct {
	cfg    Config
	words  WordListProvider
	dupes  DuplicateChecker
	trust  TrustProvider
	logs   LogAppender
	events EventPublisher
	spam   *SpamScorer
	log    *zap.Logger
}

// NewEngine wires the engine with its collaborators. Any of dupes, trust,
// logs, and events may be nil; the corresponding step is skipped (used by
// tests and by deployments without a given backend).
func NewEngine(cfg Config, words WordListProvider, dupes DuplicateChecker, trust TrustProvider, logs LogAppender, events EventPublisher, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		cfg:    cfg,
		words:  words,
		dupes:  dupes,
		trust:  trust,
		logs:   logs,
		events: events,
		spam:   NewSpamScorer(),
		log:    log,
	}
}

// Moderate decides whether a submission is approved. It never returns an
// error: infrastructure failures degrade to neutral signals, and an
// unexpected panic anywhere in the pipeline converts to a fail-closed
// rejection. The verdict is logged and a decided event is published before
// returning; the trust update itself happens asynchronously in the worker.
func (e *Engine) Moderate(ctx context.Context, content, userID, pageID string) (verdict Verdict) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("moderation pipeline panic",
				zap.Any("panic", r),
				zap.String("user_id", userID),
				zap.String("page_id", pageID))
			verdict = Verdict{
				Approved:   false,
				Reason:     ReasonEngineError,
				Confidence: 1.0,
				Rule:       RuleEngineError,
			}
		}
		metrics.DecisionLatency.Observe(time.Since(start).Seconds())
		metrics.DecisionsTotal.WithLabelValues(outcomeLabel(verdict.Approved), string(verdict.Rule)).Inc()
	}()

	verdict = e.decide(ctx, content, userID, pageID)
	e.record(ctx, content, userID, pageID, verdict)
	return verdict
}

// decide runs the precedence pipeline. Order matters and is fixed: hard
// structural rules first, then the heuristic scans, then the trust override.
func (e *Engine) decide(ctx context.Context, content, userID, pageID string) Verdict {
	// Step 1: validation.
	if v, rejected := e.validate(content); rejected {
		return v
	}

	// Step 2: duplicate check, before any scoring so repeat content costs
	// nothing. Storage errors fail open — duplicate detection is a spam
	// deterrent, not a security boundary.
	if userID != "" && e.dupes != nil {
		dup, err := e.dupes.IsDuplicate(ctx, userID, content)
		if err != nil {
			e.log.Warn("duplicate check failed, continuing", zap.Error(err), zap.String("user_id", userID))
		} else if dup {
			return Verdict{
				Approved:   false,
				Reason:     fmt.Sprintf("Duplicate content detected, please wait %d minutes before reposting", int(e.cfg.DuplicateWindow.Minutes())),
				Confidence: 1.0,
				Rule:       RuleDuplicate,
			}
		}
	}

	// Step 3: embedded code.
	if ContainsEmbeddedCode(content) {
		return Verdict{
			Approved:   false,
			Reason:     ReasonEmbeddedCode,
			Confidence: 1.0,
			Rule:       RuleEmbeddedCode,
		}
	}

	// Step 4: links outside recognized embeds are disallowed outright, and
	// embedded links are capped by the link budget.
	if ContainsDisallowedLink(content) {
		return Verdict{
			Approved:   false,
			Reason:     ReasonLinks,
			Confidence: 0.9,
			Rule:       RuleLinks,
			Scores:     Scores{LinkCount: CountLinks(content)},
		}
	}
	if n := TotalLinks(content); n > e.cfg.MaxLinksAllowed {
		return Verdict{
			Approved:   false,
			Reason:     ReasonTooManyLinks,
			Confidence: 0.9,
			Rule:       RuleLinks,
			Scores:     Scores{LinkCount: n},
		}
	}

	// Steps 5-9 have no data dependency on each other; run the scans and
	// the trust lookup concurrently. Each branch degrades to a neutral
	// default on failure rather than aborting the decision.
	var (
		wordWeight int
		flagged    []string
		spamScore  float64
		sentiment  float64
		capsRatio  float64
		repetition bool
		userTrust  = defaultTrust
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(e.scan("blocked_words", func() {
		wordWeight, flagged = e.scanBlockedWords(content)
	}))
	g.Go(e.scan("spam", func() {
		spamScore = e.spam.Score(content)
	}))
	g.Go(e.scan("sentiment", func() {
		sentiment = SentimentScore(content)
	}))
	g.Go(e.scan("format", func() {
		capsRatio = CapsRatio(content)
		repetition = HasExcessiveRepetition(content)
	}))
	if userID != "" && e.trust != nil {
		g.Go(e.scan("trust", func() {
			score, err := e.trust.Score(gctx, userID)
			if err != nil {
				e.log.Warn("trust lookup failed, using neutral default",
					zap.Error(err), zap.String("user_id", userID))
				return
			}
			userTrust = score
		}))
	}
	_ = g.Wait() // branches never return errors; they degrade internally

	scores := Scores{
		Spam:      spamScore,
		Sentiment: sentiment,
		Toxicity:  Toxicity(sentiment),
		CapsRatio: capsRatio,
		LinkCount: CountLinks(content),
		UserTrust: userTrust,
	}

	verdict := e.applyRules(content, wordWeight, flagged, scores, repetition)

	// Step 11: trust override. Soft rejections with low confidence flip to
	// approval for established good-faith users. Hard structural rules are
	// never overridden.
	if !verdict.Approved && verdict.Rule.Soft() && userTrust > 0.8 && verdict.Confidence < 0.7 {
		e.log.Info("trust override applied",
			zap.String("user_id", userID),
			zap.String("rule", string(verdict.Rule)),
			zap.Float64("confidence", verdict.Confidence),
			zap.Float64("trust", userTrust))
		metrics.TrustOverridesTotal.Inc()
		verdict.Approved = true
		verdict.Reason = ""
		verdict.FlaggedWords = nil
		verdict.Rule = RuleNone
	}

	return verdict
}

// scan wraps one concurrent signal computation. A failure inside any single
// scan degrades that signal to its neutral default instead of aborting the
// decision; only the pipeline itself fails closed.
func (e *Engine) scan(name string, fn func()) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				e.log.Warn("scan failed, using neutral default",
					zap.String("scan", name), zap.Any("panic", r))
			}
		}()
		fn()
		return nil
	}
}

// validate applies the content length rules. Returns (verdict, true) when
// the submission is rejected outright.
func (e *Engine) validate(content string) (Verdict, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Verdict{Approved: false, Reason: ReasonEmpty, Confidence: 1.0, Rule: RuleValidation}, true
	}
	if utf8.RuneCountInString(content) > e.cfg.MaxCommentLength {
		return Verdict{Approved: false, Reason: ReasonTooLong, Confidence: 1.0, Rule: RuleValidation}, true
	}
	if utf8.RuneCountInString(trimmed) < e.cfg.MinCommentLength {
		return Verdict{Approved: false, Reason: ReasonTooShort, Confidence: 1.0, Rule: RuleValidation}, true
	}
	return Verdict{}, false
}

// scanBlockedWords tokenizes content and accumulates severity weight over
// the word list. Lookups are exact-match per token: inflected forms of a
// blocked word are not caught.
func (e *Engine) scanBlockedWords(content string) (int, []string) {
	if e.words == nil {
		return 0, nil
	}

	weight := 0
	var flagged []string
	seen := make(map[string]bool)
	for _, tok := range tokenize(content) {
		sev, ok := e.words.Lookup(tok)
		if !ok {
			continue
		}
		weight += sev.Weight()
		if !seen[tok] {
			seen[tok] = true
			flagged = append(flagged, tok)
		}
	}
	return weight, flagged
}

// applyRules evaluates the heuristic rules in fixed precedence: blocked
// words, spam, sentiment, caps, repetition. First match wins.
func (e *Engine) applyRules(content string, wordWeight int, flagged []string, scores Scores, repetition bool) Verdict {
	if wordWeight >= blockedWordRejectWeight {
		return Verdict{
			Approved:     false,
			Reason:       ReasonBlockedWords,
			Confidence:   0.95,
			FlaggedWords: flagged,
			Rule:         RuleBlockedWords,
			Scores:       scores,
		}
	}
	if scores.Spam > e.cfg.SpamThreshold {
		return Verdict{
			Approved:   false,
			Reason:     ReasonSpam,
			Confidence: scores.Spam,
			Rule:       RuleSpam,
			Scores:     scores,
		}
	}
	if scores.Sentiment < e.cfg.SentimentThreshold {
		conf := -scores.Sentiment / 5
		if conf > 1 {
			conf = 1
		}
		return Verdict{
			Approved:   false,
			Reason:     ReasonSentiment,
			Confidence: conf,
			Rule:       RuleSentiment,
			Scores:     scores,
		}
	}
	if scores.CapsRatio > e.cfg.CapsRatioThreshold && utf8.RuneCountInString(content) > 10 {
		return Verdict{
			Approved:   false,
			Reason:     ReasonCaps,
			Confidence: 0.85,
			Rule:       RuleCaps,
			Scores:     scores,
		}
	}
	if repetition {
		return Verdict{
			Approved:   false,
			Reason:     ReasonRepetition,
			Confidence: 0.85,
			Rule:       RuleRepetition,
			Scores:     scores,
		}
	}
	return Verdict{
		Approved:   true,
		Confidence: 1.0,
		Rule:       RuleNone,
		Scores:     scores,
	}
}

// record persists the audit entry and publishes the decided event. Failures
// here are logged, never surfaced: the verdict stands even when the audit
// trail is incomplete.
func (e *Engine) record(ctx context.Context, content, userID, pageID string, verdict Verdict) {
	if e.logs != nil {
		entry := LogEntry{
			ID:           uuid.NewString(),
			UserID:       userID,
			PageID:       pageID,
			Content:      truncate(content, e.cfg.MaxCommentLength),
			Approved:     verdict.Approved,
			Reason:       verdict.Reason,
			Rule:         verdict.Rule,
			Confidence:   verdict.Confidence,
			FlaggedWords: verdict.FlaggedWords,
			Scores:       verdict.Scores,
			CreatedAt:    time.Now().UTC(),
		}
		if err := e.logs.Append(ctx, entry); err != nil {
			metrics.LogWriteFailures.Inc()
			e.log.Warn("moderation log write failed", zap.Error(err), zap.String("entry_id", entry.ID))
		}
	}

	if e.events != nil && userID != "" {
		event := DecidedEvent{
			EventID:  uuid.NewString(),
			UserID:   userID,
			PageID:   pageID,
			Approved: verdict.Approved,
			Rule:     verdict.Rule,
			Ts:       time.Now().Unix(),
		}
		if err := e.events.PublishDecided(event); err != nil {
			e.log.Warn("decided event publish failed", zap.Error(err), zap.String("user_id", userID))
		}
	}
}

// truncate cuts s to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func outcomeLabel(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}
