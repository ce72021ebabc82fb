package spacedrep

import "time"

// Interval multipliers applied to a reviewed (non-new) card's interval.
const (
	HardMultiplier = 1.2
	GoodMultiplier = 2.5
	EasyMultiplier = 4.0
)

// First intervals, in days, for a new card.
const (
	NewHardInterval = 1
	NewGoodInterval = 1
	NewEasyInterval = 3
)

// Ease adjustments per grade.
const (
	AgainEasePenalty = 0.20
	HardEasePenalty  = 0.15
	EasyEaseBonus    = 0.15
)

// RelearnDelay is how long after an Again grade the card becomes due again.
const RelearnDelay = time.Minute

// Day is the fixed length of one interval day.
const Day = 24 * time.Hour

// MaxIntervalDays caps interval growth so repeated Easy grades stay well
// within int and time.Time range.
const MaxIntervalDays = 1_000_000
