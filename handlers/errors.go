package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/placement-cell/placements-api/services"
	"github.com/placement-cell/placements-api/utils/response"
)

// ServiceError maps a classified service failure onto the matching HTTP
// response. Unclassified errors are logged and hidden behind a generic
// message.
func ServiceError(c *fiber.Ctx, err error) error {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		log.Printf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "")
	}

	switch se.Kind {
	case services.KindValidation:
		return response.BadRequest(c, se.Message)
	case services.KindNotFound:
		return response.NotFound(c, se.Message)
	case services.KindForbidden:
		return response.Forbidden(c, se.Message)
	case services.KindIneligible:
		return response.Ineligible(c, se.Message)
	case services.KindConflict:
		return response.Conflict(c, se.Message)
	default:
		log.Printf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "")
	}
}
