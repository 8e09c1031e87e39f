package httpapi

import (
	"github.com/evlasenko/tutor_market/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Register монтирует все маршруты ядра отношений
func Register(
	app *fiber.App,
	requests *service.RequestService,
	assignments *service.AssignmentService,
	roster *service.RosterService,
	logger *zap.Logger,
) {
	validate := validator.New()

	requestCtl := NewRequestController(requests, validate, logger)
	assignmentCtl := NewAssignmentController(assignments, validate, logger)
	rosterCtl := NewRosterController(roster, logger)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api/v1", ActorMiddleware())

	req := api.Group("/requests")
	req.Post("/", requestCtl.Create)
	req.Get("/", requestCtl.List)
	req.Post("/:id/cancel", requestCtl.Cancel)
	req.Post("/:id/approve", requestCtl.Approve)
	req.Post("/:id/reject", requestCtl.Reject)

	asg := api.Group("/assignments")
	asg.Post("/", assignmentCtl.Create)
	asg.Patch("/:id/active", assignmentCtl.Toggle)

	ros := api.Group("/roster")
	ros.Get("/students", rosterCtl.Students)
	ros.Get("/teachers", rosterCtl.Teachers)
}
