package service

import (
	"testing"
	"time"
)

func TestExpectedCharge(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsed     time.Duration
		hourly      int64
		perMinute   int64
		minBillable int
		want        int64
	}{
		{name: "inside minimum window", elapsed: 45 * time.Minute, hourly: 15000, perMinute: 250, minBillable: 60, want: 15000},
		{name: "past minimum window", elapsed: 90 * time.Minute, hourly: 15000, perMinute: 250, minBillable: 60, want: 22500},
		{name: "exactly at window edge", elapsed: 60 * time.Minute, hourly: 15000, perMinute: 250, minBillable: 60, want: 15000},
		{name: "no window pure per-minute", elapsed: 20 * time.Minute, hourly: 15000, perMinute: 250, minBillable: 0, want: 5000},
		{name: "partial minute rounds up", elapsed: 30*time.Second + 19*time.Minute, hourly: 0, perMinute: 250, minBillable: 0, want: 5000},
		{name: "just started charges hourly", elapsed: time.Second, hourly: 15000, perMinute: 250, minBillable: 60, want: 15000},
		{name: "clock skew before start", elapsed: -time.Minute, hourly: 0, perMinute: 250, minBillable: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedCharge(start.Add(tt.elapsed), start, tt.hourly, tt.perMinute, tt.minBillable)
			if got != tt.want {
				t.Fatalf("ExpectedCharge() = %d, want %d", got, tt.want)
			}
		})
	}
}
