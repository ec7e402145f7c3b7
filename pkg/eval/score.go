// Package eval contains position evaluation logic and utilities.
package eval

// Score is a signed position or move score from the side-to-move's
// perspective. The four cached positional terms are each normalised to at
// most roughly +-100,000 so that no single term dominates unintentionally;
// the mobility term carries a small weight. Win scores are far outside
// the positional range. 64 bits.
type Score int64

const (
	// WinScore is the score of a won game. A win found at search ply n
	// scores WinScore-n, so faster wins and slower losses are preferred.
	WinScore Score = 1_000_000_000
)
