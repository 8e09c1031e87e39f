package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActorApp() *fiber.App {
	app := fiber.New()
	app.Use(ActorMiddleware())
	app.Get("/probe", func(c *fiber.Ctx) error {
		id, role := actorFrom(c)
		return success(c, fiber.StatusOK, fiber.Map{"id": id, "role": role})
	})
	return app
}

func TestActorMiddleware_ValidHeaders(t *testing.T) {
	app := newActorApp()

	req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
	req.Header.Set(headerActorID, "42")
	req.Header.Set(headerActorRole, string(model.RoleTeacher))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestActorMiddleware_MissingID(t *testing.T) {
	app := newActorApp()

	req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
	req.Header.Set(headerActorRole, string(model.RoleTeacher))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestActorMiddleware_MalformedID(t *testing.T) {
	app := newActorApp()

	for _, id := range []string{"abc", "0", "-5"} {
		req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
		req.Header.Set(headerActorID, id)
		req.Header.Set(headerActorRole, string(model.RoleStudent))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, id)
	}
}

func TestActorMiddleware_UnknownRole(t *testing.T) {
	app := newActorApp()

	req := httptest.NewRequest(fiber.MethodGet, "/probe", nil)
	req.Header.Set(headerActorID, "42")
	req.Header.Set(headerActorRole, "visitor")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, httpStatus(apperr.KindNotFound))
	assert.Equal(t, fiber.StatusConflict, httpStatus(apperr.KindConflict))
	assert.Equal(t, fiber.StatusUnprocessableEntity, httpStatus(apperr.KindInvalidState))
	assert.Equal(t, fiber.StatusForbidden, httpStatus(apperr.KindForbidden))
	assert.Equal(t, fiber.StatusBadRequest, httpStatus(apperr.KindBadRequest))
	assert.Equal(t, fiber.StatusInternalServerError, httpStatus(apperr.KindUnknown))
}
