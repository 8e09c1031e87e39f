package model

import "time"

// LessonStatus статус занятия
type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "scheduled" // Запланировано
	LessonStatusCompleted LessonStatus = "completed" // Проведено
	LessonStatusCanceled  LessonStatus = "canceled"  // Отменено
)

// Lesson занятие в рамках записи студента на курс
type Lesson struct {
	ID           int64        `json:"id"`
	EnrollmentID int64        `json:"enrollment_id"`
	CourseID     int64        `json:"course_id"`
	StartTime    time.Time    `json:"start_time"`
	Status       LessonStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}
