package ui

import (
	"testing"
	"time"
)

func TestFormatDurationShort(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "negative", duration: -time.Second, want: "0s"},
		{name: "seconds", duration: 45 * time.Second, want: "45s"},
		{name: "minutes", duration: 2*time.Minute + 10*time.Second, want: "2m"},
		{name: "hours", duration: 3*time.Hour + 5*time.Minute, want: "3h"},
		{name: "days", duration: 48 * time.Hour, want: "2d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDurationShort(tc.duration)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		then time.Time
		want string
	}{
		{then: now.Add(-2 * time.Minute), want: "2m ago"},
		{then: time.Time{}, want: "-"},
		{then: now.Add(time.Hour), want: "-"},
	}
	for _, tc := range cases {
		if got := FormatTimeAgo(tc.then, now); got != tc.want {
			t.Errorf("FormatTimeAgo(%v) = %s, want %s", tc.then, got, tc.want)
		}
	}
}
