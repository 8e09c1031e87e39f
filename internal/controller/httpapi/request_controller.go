package httpapi

import (
	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RequestController struct {
	requests *service.RequestService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRequestController(requests *service.RequestService, validate *validator.Validate, logger *zap.Logger) *RequestController {
	return &RequestController{
		requests: requests,
		validate: validate,
		logger:   logger,
	}
}

// Create POST /requests
func (ctl *RequestController) Create(c *fiber.Ctx) error {
	actorID, _ := actorFrom(c)

	var dto CreateRequestDTO
	if err := c.BodyParser(&dto); err != nil {
		return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "malformed body")
	}
	if err := ctl.validate.Struct(dto); err != nil {
		return respondValidation(c, err)
	}

	view, err := ctl.requests.Create(c.Context(), actorID, model.RequestKind(dto.Kind), dto.TargetID, dto.Message)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusCreated, view)
}

// List GET /requests
func (ctl *RequestController) List(c *fiber.Ctx) error {
	actorID, role := actorFrom(c)

	page, err := ctl.requests.List(c.Context(), actorID, role, service.ListParams{
		Statuses: statusesFrom(c),
		Keyword:  c.Query("keyword"),
		Page:     pageFrom(c),
	})
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, page)
}

func (ctl *RequestController) requestID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindBadRequest, "malformed request id")
	}
	return id, nil
}

// Cancel POST /requests/:id/cancel
func (ctl *RequestController) Cancel(c *fiber.Ctx) error {
	actorID, _ := actorFrom(c)

	id, err := ctl.requestID(c)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	view, err := ctl.requests.Cancel(c.Context(), actorID, id)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, view)
}

// Approve POST /requests/:id/approve
func (ctl *RequestController) Approve(c *fiber.Ctx) error {
	actorID, role := actorFrom(c)

	id, err := ctl.requestID(c)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	view, err := ctl.requests.Approve(c.Context(), actorID, role, id)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, view)
}

// Reject POST /requests/:id/reject
func (ctl *RequestController) Reject(c *fiber.Ctx) error {
	actorID, role := actorFrom(c)

	id, err := ctl.requestID(c)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	view, err := ctl.requests.Reject(c.Context(), actorID, role, id)
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, view)
}
