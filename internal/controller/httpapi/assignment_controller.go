package httpapi

import (
	"strconv"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AssignmentController struct {
	assignments *service.AssignmentService
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewAssignmentController(assignments *service.AssignmentService, validate *validator.Validate, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{
		assignments: assignments,
		validate:    validate,
		logger:      logger,
	}
}

// Create POST /assignments — прямое создание связи, минуя заявки
// (делегирование ассистента, привязка к филиалу). Только для админа.
func (ctl *AssignmentController) Create(c *fiber.Ctx) error {
	_, role := actorFrom(c)
	if role != model.RoleAdmin {
		return fail(c, fiber.StatusForbidden, apperr.KindForbidden.String(), "admin only")
	}

	var dto CreateAssignmentDTO
	if err := c.BodyParser(&dto); err != nil {
		return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "malformed body")
	}
	if err := ctl.validate.Struct(dto); err != nil {
		return respondValidation(c, err)
	}

	a, err := ctl.assignments.Create(c.Context(), dto.OwnerID, dto.SubjectID, model.AssignmentKind(dto.Kind), dto.BranchRole)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusCreated, a)
}

// Toggle PATCH /assignments/:id/active
func (ctl *AssignmentController) Toggle(c *fiber.Ctx) error {
	actorID, role := actorFrom(c)

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "malformed assignment id")
	}

	var dto ToggleAssignmentDTO
	if err := c.BodyParser(&dto); err != nil {
		return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "malformed body")
	}
	if err := ctl.validate.Struct(dto); err != nil {
		return respondValidation(c, err)
	}

	a, err := ctl.assignments.SetActiveAs(c.Context(), actorID, role, id, *dto.Active)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, a)
}
