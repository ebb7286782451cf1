// Package model defines shared data structures.
package model

import (
	"time"
)

// Mode identifies one of the two game modes.
type Mode string

// Supported game modes.
const (
	ModeMatch  Mode = "match"
	ModeCoding Mode = "coding"
)

// FeedbackDelay returns how long the answer feedback is shown before
// the next trial is presented.
func (m Mode) FeedbackDelay() time.Duration {
	if m == ModeCoding {
		return 100 * time.Millisecond
	}
	return 150 * time.Millisecond
}

// TimeLimit is the session duration in seconds. Zero means unbounded.
type TimeLimit int

// Unbounded runs the session until an explicit stop.
const Unbounded TimeLimit = 0

// TimeLimits lists the selectable session durations.
var TimeLimits = []TimeLimit{30, 60, 120, Unbounded}

// Bounded reports whether the limit triggers an automatic session end.
func (t TimeLimit) Bounded() bool {
	return t > 0
}

// String renders the limit for menus and tables.
func (t TimeLimit) String() string {
	if !t.Bounded() {
		return "open"
	}
	return (time.Duration(t) * time.Second).String()
}

// PlayConfig defines session settings.
type PlayConfig struct {
	Mode  Mode
	Limit TimeLimit
}

// SessionResult is the finalized outcome handed to the result view.
// Index 0 means the session was too short to measure.
type SessionResult struct {
	Mode           Mode
	Index          int
	Score          int
	Mistakes       int
	ElapsedSeconds int
}

// SessionSummary is the persisted record of one finished session.
type SessionSummary struct {
	ID             int64
	Timestamp      time.Time
	Mode           Mode
	Index          int
	Score          int
	Mistakes       int
	TimeLimit      TimeLimit
	ElapsedSeconds int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}
