package model

import "time"

// Role определяет роль участника в системе
type Role string

const (
	RoleTeacher   Role = "teacher"
	RoleAssistant Role = "assistant"
	RoleStudent   Role = "student"
	RoleAdmin     Role = "admin"
)

// Valid проверяет, что роль известна системе
func (r Role) Valid() bool {
	switch r {
	case RoleTeacher, RoleAssistant, RoleStudent, RoleAdmin:
		return true
	}
	return false
}

// Member represents an identity from the member store. The relationship core
// only reads it: identity and role are owned elsewhere.
type Member struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Role      Role       `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// IsAlive проверяет, что участник не удалён (soft delete)
func (m *Member) IsAlive() bool {
	return m.DeletedAt == nil
}
