package model

import "time"

// AssignmentKind определяет тип связи между двумя сущностями
type AssignmentKind string

const (
	AssignmentTeacherStudent   AssignmentKind = "teacher_student"
	AssignmentTeacherAssistant AssignmentKind = "teacher_assistant"
	AssignmentTeacherBranch    AssignmentKind = "teacher_branch"
	AssignmentStudentCourse    AssignmentKind = "student_course"
)

// Valid проверяет, что тип связи известен системе
func (k AssignmentKind) Valid() bool {
	switch k {
	case AssignmentTeacherStudent, AssignmentTeacherAssistant,
		AssignmentTeacherBranch, AssignmentStudentCourse:
		return true
	}
	return false
}

// Роли учителя в филиале (только для teacher_branch)
const (
	BranchRoleStaff   = "staff"
	BranchRoleManager = "manager"
)

// Assignment represents a durable link between an owner and a subject:
// teacher-student, teacher-assistant, teacher-branch or student-course.
// At most one row exists per (owner_id, subject_id, kind); the link is
// toggled between active/inactive, never physically removed.
type Assignment struct {
	ID         int64          `json:"id"`
	OwnerID    int64          `json:"owner_id"`
	SubjectID  int64          `json:"subject_id"`
	Kind       AssignmentKind `json:"kind"`
	BranchRole string         `json:"branch_role,omitempty"` // только для teacher_branch
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
}
