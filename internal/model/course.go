package model

import "time"

// Course учебный курс, принадлежит филиалу и ведётся учителем
type Course struct {
	ID          int64      `json:"id"`
	BranchID    int64      `json:"branch_id"`
	TeacherID   int64      `json:"teacher_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// IsAlive проверяет, что курс не удалён
func (c *Course) IsAlive() bool {
	return c.DeletedAt == nil
}

// Branch филиал компании; владеет курсами
type Branch struct {
	ID         int64      `json:"id"`
	CompanyID  int64      `json:"company_id"`
	Name       string     `json:"name"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Company компания-владелец филиалов
type Company struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// IsPublishable сообщает, можно ли показывать филиал публично:
// он не удалён и прошёл верификацию
func (b *Branch) IsPublishable() bool {
	return b.DeletedAt == nil && b.IsVerified
}

// IsPublishable сообщает, можно ли показывать компанию публично
func (c *Company) IsPublishable() bool {
	return c.DeletedAt == nil && c.IsVerified
}
