package httpapi

import (
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RosterController struct {
	roster *service.RosterService
	logger *zap.Logger
}

func NewRosterController(roster *service.RosterService, logger *zap.Logger) *RosterController {
	return &RosterController{
		roster: roster,
		logger: logger,
	}
}

// Students GET /roster/students — студенты учителя (или учителей,
// делегировавших ассистенту)
func (ctl *RosterController) Students(c *fiber.Ctx) error {
	actorID, role := actorFrom(c)

	page, err := ctl.roster.ListStudents(c.Context(), actorID, role, pageFrom(c))
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, page)
}

// Teachers GET /roster/teachers — учителя студента
func (ctl *RosterController) Teachers(c *fiber.Ctx) error {
	actorID, _ := actorFrom(c)

	page, err := ctl.roster.ListTeachers(c.Context(), actorID, pageFrom(c))
	if err != nil {
		return respondError(c, ctl.logger, err)
	}

	return success(c, fiber.StatusOK, page)
}
