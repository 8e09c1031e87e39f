package httpapi

import (
	"strconv"

	"github.com/evlasenko/tutor_market/internal/apperr"
	"github.com/evlasenko/tutor_market/internal/model"
	"github.com/gofiber/fiber/v2"
)

// Аутентификация - забота внешнего шлюза: сюда личность приходит в доверенных
// заголовках. Ядро проверяет только их форму.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"

	localActorID   = "actor_id"
	localActorRole = "actor_role"
)

// ActorMiddleware извлекает действующее лицо из заголовков шлюза
func ActorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Get(headerActorID), 10, 64)
		if err != nil || id <= 0 {
			return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "missing or malformed actor id")
		}

		role := model.Role(c.Get(headerActorRole))
		if !role.Valid() {
			return fail(c, fiber.StatusBadRequest, apperr.KindBadRequest.String(), "missing or malformed actor role")
		}

		c.Locals(localActorID, id)
		c.Locals(localActorRole, role)
		return c.Next()
	}
}

func actorFrom(c *fiber.Ctx) (int64, model.Role) {
	id, _ := c.Locals(localActorID).(int64)
	role, _ := c.Locals(localActorRole).(model.Role)
	return id, role
}
