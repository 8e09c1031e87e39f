package model

import "time"

// Enrollment per-student-per-course record created together with the
// student_course assignment on approval; downstream scheduling hangs
// lessons off it.
type Enrollment struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	CourseID     int64     `json:"course_id"`
	AssignmentID int64     `json:"assignment_id"`
	CreatedAt    time.Time `json:"created_at"`
}
