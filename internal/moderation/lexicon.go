package moderation

// sentimentLexicon maps lowercase tokens to polarity weights in [-5, 5],
// AFINN-style. The table is intentionally small and fixed: scoring must stay
// deterministic and auditable, not exhaustive.
var sentimentLexicon = map[string]float64{
	// Positive.
	"good":        2,
	"great":       3,
	"excellent":   4,
	"amazing":     4,
	"awesome":     4,
	"fantastic":   4,
	"wonderful":   4,
	"love":        3,
	"loved":       3,
	"like":        2,
	"liked":       2,
	"best":        3,
	"better":      2,
	"nice":        2,
	"helpful":     2,
	"thanks":      2,
	"thank":       2,
	"brilliant":   4,
	"perfect":     3,
	"beautiful":   3,
	"happy":       3,
	"glad":        3,
	"enjoy":       2,
	"enjoyed":     2,
	"interesting": 2,
	"insightful":  3,
	"agree":       1,
	"useful":      2,
	"clear":       1,
	"fun":         2,
	"cool":        1,
	"win":         2,
	"fair":        1,
	"right":       1,
	"correct":     2,
	"recommend":   2,

	// Negative.
	"bad":        -2,
	"worse":      -3,
	"worst":      -3,
	"terrible":   -3,
	"horrible":   -3,
	"awful":      -3,
	"disgusting": -3,
	"hate":       -3,
	"hated":      -3,
	"hateful":    -3,
	"stupid":     -2,
	"idiot":      -3,
	"idiotic":    -3,
	"moron":      -3,
	"dumb":       -2,
	"trash":      -2,
	"garbage":    -2,
	"useless":    -2,
	"pathetic":   -3,
	"loser":      -3,
	"ugly":       -2,
	"scum":       -4,
	"vile":       -4,
	"wrong":      -1,
	"boring":     -1,
	"annoying":   -2,
	"angry":      -2,
	"die":        -3,
	"kill":       -3,
	"killed":     -3,
	"attack":     -2,
	"destroy":    -2,
	"threat":     -3,
	"threaten":   -3,
	"abuse":      -3,
	"abusive":    -3,
	"racist":     -4,
	"sexist":     -4,
	"nazi":       -4,
	"shut":       -1,
	"liar":       -3,
	"lies":       -2,
	"lying":      -2,
	"fraud":      -3,
	"scam":       -3,
	"cheat":      -3,
	"worthless":  -3,
	"miserable":  -3,
	"disgrace":   -3,
	"shame":      -2,
	"shameful":   -3,
	"cancer":     -3,
	"toxic":      -3,
	"evil":       -3,
	"suck":       -2,
	"sucks":      -2,
	"fail":       -2,
	"failure":    -2,
	"disaster":   -2,
	"nightmare":  -2,
}
