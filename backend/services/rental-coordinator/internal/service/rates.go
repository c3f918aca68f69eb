package service

import "time"

// ExpectedCharge computes the theoretical charge owed for a metered session
// at time now. Elapsed minutes are rounded up. When the console carries a
// minimum billable window, the full hourly rate applies until the window is
// exceeded, then the per-minute rate takes over for the excess; with no
// window every elapsed minute is billed at the per-minute rate.
func ExpectedCharge(now, start time.Time, hourlyRate, perMinuteRate int64, minBillableMinutes int) int64 {
	secs := int64(now.Sub(start) / time.Second)
	if secs < 0 {
		secs = 0
	}
	elapsed := (secs + 59) / 60

	if minBillableMinutes == 0 {
		return elapsed * perMinuteRate
	}
	if elapsed <= int64(minBillableMinutes) {
		return hourlyRate
	}
	return hourlyRate + (elapsed-int64(minBillableMinutes))*perMinuteRate
}
