package form

import (
	"github.com/nbutton23/zxcvbn-go"
	"github.com/nbutton23/zxcvbn-go/match"

	"github.com/julianstephens/nazmara/internal/constants"
)

const defaultPasswordReason = "Password is too guessable."

var patternReasons = map[string]string{
	"dictionary": "This is similar to a commonly used password.",
	"spatial":    "Straight rows of keys are easy to guess.",
	"repeat":     `Repeats like "aaa" are easy to guess.`,
	"sequence":   "Sequences like abc or 6543 are easy to guess.",
	"date":       "Dates are often easy to guess.",
}

// passwordStrength scores pw from 0 to 4. related holds the user's other
// form values, which count against the password when it contains them.
func passwordStrength(pw string, related []string) (int, string) {
	res := zxcvbn.PasswordStrength(pw, related)
	if res.Score >= constants.MinPasswordScore {
		return res.Score, ""
	}
	return res.Score, weakestReason(res.MatchSequence)
}

// weakestReason explains the longest guessable part of the password.
func weakestReason(seq []match.Match) string {
	reason, longest := defaultPasswordReason, 0
	for _, m := range seq {
		r, ok := patternReasons[m.Pattern]
		if !ok {
			continue
		}
		if n := m.J - m.I + 1; n > longest {
			reason, longest = r, n
		}
	}
	return reason
}
