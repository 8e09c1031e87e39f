package service

import (
	"time"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/google/uuid"
)

// Представления собираются ассемблером из нескольких независимых хранилищ
// и отдаются наружу в неизменном виде. Обе разновидности заявок используют
// одну и ту же форму, чтобы вызывающие могли разделять рендеринг.

// MemberSummary краткая карточка участника
type MemberSummary struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Phone string     `json:"phone"`
	Role  model.Role `json:"role"`
}

// StudentSummary карточка студента с полями профиля
type StudentSummary struct {
	MemberSummary
	School      string     `json:"school"`
	Grade       string     `json:"grade"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	ParentName  string     `json:"parent_name"`
	ParentPhone string     `json:"parent_phone"`
}

// CourseCard карточка курса с цепочкой владения филиал -> компания
type CourseCard struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BranchID    int64  `json:"branch_id"`
	BranchName  string `json:"branch_name"`
	CompanyName string `json:"company_name"`
}

// RequestView полностью собранное представление заявки
type RequestView struct {
	ID          uuid.UUID           `json:"id"`
	Kind        model.RequestKind   `json:"kind"`
	Status      model.RequestStatus `json:"status"`
	Message     string              `json:"message,omitempty"`
	Initiator   *StudentSummary     `json:"initiator"`
	Owner       *MemberSummary      `json:"owner"`
	Course      *CourseCard         `json:"course,omitempty"`
	ProcessedBy *MemberSummary      `json:"processed_by,omitempty"`
	ProcessedAt *time.Time          `json:"processed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Audience определяет, для кого собирается представление: публичные вьюхи
// проходят через гейт видимости филиала и компании, вьюхи владельца — нет.
type Audience int

const (
	AudienceOwner Audience = iota
	AudiencePublic
)

func newMemberSummary(m *model.Member) *MemberSummary {
	return &MemberSummary{
		ID:    m.ID,
		Name:  m.Name,
		Phone: m.Phone,
		Role:  m.Role,
	}
}

func newStudentSummary(m *model.Member, p *model.StudentProfile) *StudentSummary {
	return &StudentSummary{
		MemberSummary: *newMemberSummary(m),
		School:        p.School,
		Grade:         p.Grade,
		BirthDate:     p.BirthDate,
		ParentName:    p.ParentName,
		ParentPhone:   p.ParentPhone,
	}
}
