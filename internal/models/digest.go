package models

import "time"

// DigestUser identifies a digest recipient and carries the preference data
// needed to compose their day.
type DigestUser struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// DigestPayload is a rendered full-day recommendation ready for delivery.
// Plan is nil for the documented "no menu data yet" fallback.
type DigestPayload struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	HTMLBody    string    `json:"html_body"`
	TargetDate  time.Time `json:"target_date"`
	Plan        *DayPlan  `json:"plan,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Fallback reports whether the payload is the "no menu data yet" notice
// rather than a composed plan.
func (p DigestPayload) Fallback() bool {
	return p.Plan == nil
}
