package httpapi

import (
	"strconv"

	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/gofiber/fiber/v2"
)

// CreateRequestDTO тело создания заявки
type CreateRequestDTO struct {
	Kind     string `json:"kind" validate:"required,oneof=teacher_link course_enrollment"`
	TargetID int64  `json:"target_id" validate:"required,gt=0"`
	Message  string `json:"message" validate:"omitempty,max=500"`
}

// ToggleAssignmentDTO тело переключения связи
type ToggleAssignmentDTO struct {
	Active *bool `json:"active" validate:"required"`
}

// CreateAssignmentDTO тело прямого создания связи (админские сценарии:
// делегирование ассистента, привязка учителя к филиалу)
type CreateAssignmentDTO struct {
	OwnerID    int64  `json:"owner_id" validate:"required,gt=0"`
	SubjectID  int64  `json:"subject_id" validate:"required,gt=0"`
	Kind       string `json:"kind" validate:"required,oneof=teacher_student teacher_assistant teacher_branch student_course"`
	BranchRole string `json:"branch_role" validate:"omitempty,oneof=staff manager"`
}

// pageFrom разбирает пагинацию из query: индекс страницы 0-based
func pageFrom(c *fiber.Ctx) service.PageRequest {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	perPage, _ := strconv.Atoi(c.Query("per_page", strconv.Itoa(service.DefaultPerPage)))
	return service.PageRequest{Page: page, PerPage: perPage}
}

// statusesFrom разбирает повторяющийся query-параметр status
func statusesFrom(c *fiber.Ctx) []model.RequestStatus {
	var statuses []model.RequestStatus
	for _, raw := range c.Context().QueryArgs().PeekMulti("status") {
		statuses = append(statuses, model.RequestStatus(raw))
	}
	return statuses
}
