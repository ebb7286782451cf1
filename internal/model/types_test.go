package model

import (
	"testing"
	"time"
)

func TestFeedbackDelay(t *testing.T) {
	if got := ModeMatch.FeedbackDelay(); got != 150*time.Millisecond {
		t.Fatalf("match feedback delay: %v", got)
	}
	if got := ModeCoding.FeedbackDelay(); got != 100*time.Millisecond {
		t.Fatalf("coding feedback delay: %v", got)
	}
}

func TestTimeLimit(t *testing.T) {
	if Unbounded.Bounded() {
		t.Fatalf("unbounded limit must not be bounded")
	}
	if !TimeLimit(30).Bounded() {
		t.Fatalf("30s limit must be bounded")
	}
	if got := Unbounded.String(); got != "open" {
		t.Fatalf("unbounded label: %q", got)
	}
	if got := TimeLimit(30).String(); got != "30s" {
		t.Fatalf("30s label: %q", got)
	}
	if got := TimeLimit(120).String(); got != "2m0s" {
		t.Fatalf("120s label: %q", got)
	}
}
