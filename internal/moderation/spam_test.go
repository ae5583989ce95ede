package moderation

import (
	"math"
	"strings"
	"testing"
)

func TestSpamScore_Phrases(t *testing.T) {
	s := NewSpamScorer()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"clean", "I enjoyed reading this article", 0},
		{"one phrase", "just click here to see", 0.15},
		{"case insensitive", "CLICK HERE now", 0.15},
		{"two phrases", "click here and buy now", 0.3},
		{"four phrases", "click here buy now free gift act now", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpamScore_PunctuationBurst(t *testing.T) {
	s := NewSpamScorerWithPhrases(nil) // isolate punctuation signal

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"six exclamations", "this is a very long sentence with padding wow!!!!!!", 0.25},
		{"mixed burst", "really???!!! are you sure about that one friend", 0.25},
		{"five marks long text", "a perfectly calm and measured sentence indeed right here!!!!!", 0},
		{"dense short burst", "no!?", 0.25},
		{"calm", "a perfectly calm and measured sentence here", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpamScore_PhoneAndEmail(t *testing.T) {
	s := NewSpamScorerWithPhrases(nil)

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"dashed phone", "call me at 555-123-4567 maybe sometime soon yes", 0.4},
		{"dotted phone", "reach 555.123.4567 for a quote on the work", 0.4},
		{"email", "contact sales@example.com for all of the details", 0.3},
		{"phone and email", "call 555-123-4567 or mail a@b.com about it", 0.7},
		{"short number ok", "I have 3 cats and 2 dogs at my home", 0},
		{"year ok", "see you all again sometime in 2025 I hope", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// Adversarial stuffing must never push the score past 1.
func TestSpamScore_Clamped(t *testing.T) {
	s := NewSpamScorer()

	stuffed := strings.Join([]string{
		"click here", "buy now", "free gift", "act now", "order now",
		"risk free", "miracle cure", "claim your prize", "free bitcoin",
	}, " ") + " call 555-123-4567 or mail spam@spam.com now!!!!!!!"

	got := s.Score(stuffed)
	if got != 1 {
		t.Errorf("Score(stuffed) = %v, want 1 (clamped)", got)
	}
}

func TestSpamScore_CleanMessages(t *testing.T) {
	s := NewSpamScorer()

	clean := []string{
		"what a thoughtful article, thanks for writing it",
		"I disagree with the second point but the rest holds up",
		"pi is about 3.14",
		"upgrade to v2.0 fixed it for me",
		"my score was 42 out of 50",
	}

	for _, msg := range clean {
		if got := s.Score(msg); got != 0 {
			t.Errorf("Score(%q) = %v, want 0", msg, got)
		}
	}
}

func BenchmarkSpamScore(b *testing.B) {
	s := NewSpamScorer()
	msg := strings.Repeat("a perfectly normal comment about the article contents. ", 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Score(msg)
	}
}
