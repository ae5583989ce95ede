package moderation

// Sentiment labels returned by SentimentLabel.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentScore tokenizes content, sums lexicon polarity weights, and
// averages over the token count. There is no negation handling and no
// stemming beyond lowercasing — a known limitation of the lexicon approach,
// kept deliberately: only content that is strongly negative throughout
// reaches the reject threshold.
func SentimentScore(content string) float64 {
	tokens := tokenize(content)
	if len(tokens) == 0 {
		return 0
	}

	var sum float64
	for _, tok := range tokens {
		sum += sentimentLexicon[tok]
	}
	return sum / float64(len(tokens))
}

// SentimentLabel buckets a score into positive, neutral, or negative.
func SentimentLabel(score float64) string {
	switch {
	case score >= 1:
		return SentimentPositive
	case score <= -1:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Toxicity derives a [0,1] toxicity value from a sentiment score: a linear
// |score|/5 mapping, applied only when the score is clearly negative. It
// feeds the decision confidence, it is not a separate model.
func Toxicity(score float64) float64 {
	if score >= -2 {
		return 0
	}
	t := -score / 5
	if t > 1 {
		return 1
	}
	return t
}
