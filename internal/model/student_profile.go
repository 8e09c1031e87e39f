package model

import "time"

// StudentProfile supplementary fields attached 1:1 to a student member
type StudentProfile struct {
	MemberID    int64      `json:"member_id"`
	School      string     `json:"school"`
	Grade       string     `json:"grade"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	ParentName  string     `json:"parent_name"`
	ParentPhone string     `json:"parent_phone"`
	CreatedAt   time.Time  `json:"created_at"`
}
