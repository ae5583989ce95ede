package moderation

import (
	"math"
	"testing"
)

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"neutral words", "the cat sat on the mat", 0},
		{"single positive", "great", 3},
		{"single negative", "worst", -3},
		{"averaged over tokens", "this is great", 1},   // 3 / 3 tokens
		{"diluted negative", "you are the worst person maybe", -0.5}, // -3 / 6
		{"strongly negative", "scum scum scum scum", -4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SentimentScore(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SentimentScore(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSentimentLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{2, SentimentPositive},
		{1, SentimentPositive},
		{0.9, SentimentNeutral},
		{0, SentimentNeutral},
		{-0.9, SentimentNeutral},
		{-1, SentimentNegative},
		{-4, SentimentNegative},
	}

	for _, tt := range tests {
		if got := SentimentLabel(tt.score); got != tt.want {
			t.Errorf("SentimentLabel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestToxicity(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{0, 0},
		{2, 0},
		{-1.9, 0},
		{-2, 0},      // not strictly below -2
		{-2.5, 0.5},
		{-4, 0.8},
		{-5, 1},
		{-10, 1}, // clamped
	}

	for _, tt := range tests {
		got := Toxicity(tt.score)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Toxicity(%v) = %v, want %v", tt.score, got, tt.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("Toxicity(%v) = %v outside [0,1]", tt.score, got)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"Hello, World!", []string{"hello", "world"}},
		{"don't stop", []string{"don't", "stop"}},
		{"a-b c_d", []string{"a", "b", "c", "d"}},
		{"", nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		got := tokenize(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
