package engine

import (
	"fmt"

	"github.com/mkandie/studybuddy/internal/model"
)

// Experience awarded for a correct answer, by card difficulty.
const (
	xpEasy   = 3
	xpMedium = 5
	xpHard   = 8
)

// xpPerLevel is the experience span of a single level.
const xpPerLevel = 100

// Session bonus rules: a flat per-card amount plus extras for high
// accuracy and long sessions.
const (
	bonusPerCard         = 2
	bonusHighAccuracy    = 10
	bonusAccuracyCutoff  = 80
	bonusLongSession     = 5
	bonusDurationSeconds = 600
)

// DifficultyXP returns the experience value of a correct answer for the
// given difficulty. Unknown difficulties count as medium.
func DifficultyXP(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return xpEasy
	case model.DifficultyHard:
		return xpHard
	default:
		return xpMedium
	}
}

// LevelForXP derives the level for a cumulative experience total.
// Every 100 XP is one level; zero experience is level 1.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

// AwardExperience adds amount to the progress and recomputes the level.
// didLevelUp is true when the new level exceeds the old one; a large award
// may cross several thresholds but is still reported once, with the final
// level. Negative amounts are rejected with ErrInvalidArgument.
func AwardExperience(p model.UserProgress, amount int) (updated model.UserProgress, didLevelUp bool, newLevel int, err error) {
	if amount < 0 {
		return p, false, p.Level, fmt.Errorf("%w: negative experience award %d", ErrInvalidArgument, amount)
	}
	oldLevel := LevelForXP(p.Experience)
	p.Experience += amount
	p.Level = LevelForXP(p.Experience)
	return p, p.Level > oldLevel, p.Level, nil
}

// SessionBonus computes the end-of-session bonus experience.
func SessionBonus(cardsAnswered, accuracyPercent, durationSeconds int) int {
	if cardsAnswered <= 0 {
		return 0
	}
	bonus := bonusPerCard * cardsAnswered
	if accuracyPercent >= bonusAccuracyCutoff {
		bonus += bonusHighAccuracy
	}
	if durationSeconds >= bonusDurationSeconds {
		bonus += bonusLongSession
	}
	return bonus
}

// AccuracyPercent returns the rounded percentage of correct answers, or 0
// when nothing was answered.
func AccuracyPercent(correct, answered int) int {
	if answered <= 0 {
		return 0
	}
	return (correct*100 + answered/2) / answered
}
