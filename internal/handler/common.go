package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prasetyow/galaxytix/internal/booking"
	"github.com/prasetyow/galaxytix/internal/model"
)

// actorFrom rebuilds the acting user's identity from the claims stored by
// the JWT middleware. JWT numeric claims decode as float64; string
// subjects are parsed as a fallback.
func actorFrom(c echo.Context) (booking.Actor, error) {
	var actor booking.Actor
	switch v := c.Get("user_id").(type) {
	case float64:
		actor.UserID = uint64(v)
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return actor, errors.New("invalid user claim")
		}
		actor.UserID = n
	default:
		return actor, errors.New("missing user claim")
	}
	if role, ok := c.Get("role").(string); ok {
		actor.Role = role
	} else {
		actor.Role = model.RoleUser
	}
	if actor.UserID == 0 {
		return actor, errors.New("missing user claim")
	}
	return actor, nil
}

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
