package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus статус заявки
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Valid проверяет, что статус известен системе
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// RequestKind тип заявки: привязка к учителю или запись на курс
type RequestKind string

const (
	RequestKindTeacherLink      RequestKind = "teacher_link"
	RequestKindCourseEnrollment RequestKind = "course_enrollment"
)

// RelationRequest represents a student's proposal that needs approval before
// an Assignment is created: either a link to a teacher or an enrollment into
// a course. TargetID is the teacher id or the course id depending on Kind;
// OwnerID is always the teacher accountable for the decision.
type RelationRequest struct {
	ID          int64         `json:"-"`
	PublicID    uuid.UUID     `json:"id"`
	Kind        RequestKind   `json:"kind"`
	InitiatorID int64         `json:"initiator_id"`
	TargetID    int64         `json:"target_id"`
	OwnerID     int64         `json:"owner_id"`
	Status      RequestStatus `json:"status"`
	Message     string        `json:"message,omitempty"`
	ProcessedBy *int64        `json:"processed_by,omitempty"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// IsPending checks if request is pending
func (r *RelationRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsTerminal checks if request reached a final state
func (r *RelationRequest) IsTerminal() bool {
	switch r.Status {
	case RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}
