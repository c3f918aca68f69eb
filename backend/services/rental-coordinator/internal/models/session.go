package models

import "time"

// Session status values.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Payment status values.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Session represents a rental session. DurationMinutes is nil for metered
// sessions billed by usage against a member balance; non-nil for sessions
// prepaid for a fixed time window.
type Session struct {
	ID                  int64      `db:"id" json:"id"`
	ConsoleID           string     `db:"console_id" json:"console_id"`
	MemberUID           *string    `db:"member_uid" json:"member_uid,omitempty"`
	Status              string     `db:"status" json:"status"`
	PaymentStatus       string     `db:"payment_status" json:"payment_status"`
	StartTime           *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime             *time.Time `db:"end_time" json:"end_time,omitempty"`
	DurationMinutes     *int       `db:"duration_minutes" json:"duration_minutes,omitempty"`
	HourlyRate          int64      `db:"hourly_rate" json:"hourly_rate"`
	PerMinuteRate       int64      `db:"per_minute_rate" json:"per_minute_rate"`
	AccumulatedDeducted int64      `db:"accumulated_deducted" json:"accumulated_deducted"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// Metered reports whether the session is billed by elapsed usage against a
// member balance.
func (s *Session) Metered() bool {
	return s.Status == SessionStatusActive && s.MemberUID != nil && s.StartTime != nil && s.DurationMinutes == nil
}

// FixedDuration reports whether the session is prepaid for a set time window.
func (s *Session) FixedDuration() bool {
	return s.StartTime != nil && s.DurationMinutes != nil
}

// Deadline returns the moment a fixed-duration session's allotted time elapses.
func (s *Session) Deadline() time.Time {
	if !s.FixedDuration() {
		return time.Time{}
	}
	return s.StartTime.Add(time.Duration(*s.DurationMinutes) * time.Minute)
}
