package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasetyow/galaxytix/internal/booking"
	"github.com/prasetyow/galaxytix/internal/model"
	"github.com/prasetyow/galaxytix/internal/repository"
)

// FilmHandler serves the public catalog listing and the admin-only film
// management endpoints.
type FilmHandler struct {
	Films  *repository.FilmRepo
	Engine *booking.Engine
}

func NewFilmHandler(films *repository.FilmRepo, engine *booking.Engine) *FilmHandler {
	return &FilmHandler{Films: films, Engine: engine}
}

type createFilmReq struct {
	Title     string   `json:"title"`
	Synopsis  string   `json:"synopsis"`
	ImageURL  string   `json:"image_url"`
	Showtimes []string `json:"showtimes"`
	Locations []string `json:"locations"`
	Price     string   `json:"price"`
}

type filmPart struct {
	ID        uint64   `json:"id"`
	Title     string   `json:"title"`
	Synopsis  string   `json:"synopsis"`
	ImageURL  string   `json:"image_url"`
	Showtimes []string `json:"showtimes"`
	Locations []string `json:"locations"`
	Price     int64    `json:"price"`
}

func toFilmPart(f model.Film) filmPart {
	return filmPart{
		ID:        f.ID,
		Title:     f.Title,
		Synopsis:  f.Synopsis,
		ImageURL:  f.ImageURL,
		Showtimes: f.Showtimes,
		Locations: f.Locations,
		Price:     f.Price,
	}
}

// List handles GET /v1/films. It returns the catalog newest-first together
// with the paid-ticket counts per film, shaped as parallel label/data
// arrays for the front-end chart.
func (h *FilmHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	films, err := h.Films.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list films failed"})
	}
	sales, err := h.Engine.TicketsSoldPerFilm(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregate sales failed"})
	}

	parts := make([]filmPart, 0, len(films))
	for _, f := range films {
		parts = append(parts, toFilmPart(f))
	}
	labels := make([]string, 0, len(sales))
	data := make([]int, 0, len(sales))
	for _, s := range sales {
		labels = append(labels, s.Title)
		data = append(data, s.TicketsSold)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"films":        parts,
		"chart_labels": labels,
		"chart_data":   data,
	})
}

// Create handles POST /v1/films (admin only). The title is required; an
// unparseable or non-positive price silently falls back to the default,
// matching the documented catalog leniency.
func (h *FilmHandler) Create(c echo.Context) error {
	var req createFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	film := model.Film{
		Title:     strings.TrimSpace(req.Title),
		Synopsis:  req.Synopsis,
		ImageURL:  req.ImageURL,
		Showtimes: req.Showtimes,
		Locations: req.Locations,
		Price:     model.ParsePrice(req.Price),
	}
	if film.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Films.Create(ctx, &film); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create film failed"})
	}
	return c.JSON(http.StatusCreated, toFilmPart(film))
}

// Delete handles DELETE /v1/films/:id (admin only). Deleting a film also
// removes all of its orders.
func (h *FilmHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.DeleteFilm(ctx, actor, id); err != nil {
		switch {
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete film failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
