package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasetyow/galaxytix/internal/booking"
	"github.com/prasetyow/galaxytix/internal/model"
	"github.com/prasetyow/galaxytix/internal/repository"
)

// OrderHandler exposes the purchase and payment endpoints. All routes sit
// behind JWT authentication; ownership checks happen inside the engine.
type OrderHandler struct {
	Engine *booking.Engine
}

func NewOrderHandler(engine *booking.Engine) *OrderHandler {
	return &OrderHandler{Engine: engine}
}

type createOrderReq struct {
	Qty           int      `json:"qty"`
	Seats         []string `json:"seats"`
	Showtime      string   `json:"showtime"`
	Location      string   `json:"location"`
	PaymentMethod string   `json:"payment_method"`
}

type orderPart struct {
	ID              uint64     `json:"id"`
	FilmID          uint64     `json:"film_id"`
	Qty             int        `json:"qty"`
	Seats           []string   `json:"seats"`
	Showtime        string     `json:"showtime"`
	Location        string     `json:"location"`
	PaymentMethod   string     `json:"payment_method"`
	Status          string     `json:"status"`
	TotalAmount     int64      `json:"total_amount"`
	PaymentCode     string     `json:"payment_code"`
	PaymentQR       string     `json:"payment_qr,omitempty"`
	PaymentDeadline time.Time  `json:"payment_deadline"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toOrderPart(o model.Order) orderPart {
	return orderPart{
		ID:              o.ID,
		FilmID:          o.FilmID,
		Qty:             o.Qty,
		Seats:           o.Seats,
		Showtime:        o.Showtime,
		Location:        o.Location,
		PaymentMethod:   o.PaymentMethod,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		PaymentCode:     o.PaymentCode,
		PaymentQR:       o.PaymentQR,
		PaymentDeadline: o.PaymentDeadline,
		PaidAt:          o.PaidAt,
		CreatedAt:       o.CreatedAt,
	}
}

// orderError maps engine errors to HTTP responses.
func orderError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qty, showtime, location and payment_method are required"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrAlreadyResolved):
		return c.JSON(http.StatusConflict, echo.Map{"error": "order already resolved"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// Create handles POST /v1/films/:id/orders: a ticket purchase for the
// given film. The response carries the payment code, deadline and, for
// the dana method, the QR image URL.
func (h *OrderHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	filmID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.CreateOrder(ctx, actor, booking.CreateOrderRequest{
		FilmID:        filmID,
		Qty:           req.Qty,
		Seats:         req.Seats,
		Showtime:      req.Showtime,
		Location:      req.Location,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderPart(order))
}

// Get handles GET /v1/orders/:id for the order's owner or an admin.
// Viewing a pending dana order regenerates a missing QR.
func (h *OrderHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.GetOrder(ctx, actor, orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderPart(order))
}

// ListMine handles GET /v1/orders: the caller's orders, newest first.
func (h *OrderHandler) ListMine(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Engine.ListOrders(ctx, actor)
	if err != nil {
		return orderError(c, err)
	}
	parts := make([]orderPart, 0, len(orders))
	for _, o := range orders {
		parts = append(parts, toOrderPart(o))
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": parts})
}

// Confirm handles POST /v1/orders/:id/confirm, the simulated payment
// verification. Confirming after the deadline cancels the order and
// returns 410 Gone so clients can tell expiry apart from success.
func (h *OrderHandler) Confirm(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.ConfirmPayment(ctx, actor, orderID)
	if errors.Is(err, booking.ErrDeadlineExpired) {
		return c.JSON(http.StatusGone, echo.Map{
			"error": "payment deadline expired, order canceled",
			"order": toOrderPart(order),
		})
	}
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderPart(order))
}

// Cancel handles POST /v1/orders/:id/cancel.
func (h *OrderHandler) Cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Engine.CancelOrder(ctx, actor, orderID)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderPart(order))
}
