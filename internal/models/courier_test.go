package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCourierSettings_CacheTTL(t *testing.T) {
	hours := func(h int) *int { return &h }

	cases := []struct {
		name  string
		hours *int
		want  time.Duration
	}{
		{name: "default", want: 6 * time.Hour},
		{name: "disabled", hours: hours(0), want: 0},
		{name: "negative", hours: hours(-3), want: 0},
		{name: "explicit", hours: hours(12), want: 12 * time.Hour},
		{name: "at cap", hours: hours(MaxCacheDurationHours), want: MaxCacheDurationHours * time.Hour},
		{name: "clamped", hours: hours(3_000_000), want: MaxCacheDurationHours * time.Hour},
		{name: "max int", hours: hours(math.MaxInt), want: MaxCacheDurationHours * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CourierSettings{CacheDurationHours: tc.hours}.CacheTTL()
			require.Equal(t, tc.want, got)
			require.GreaterOrEqual(t, got, time.Duration(0))
		})
	}
}
