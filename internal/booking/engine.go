// Package booking implements the order/payment state machine. It is the
// only place that creates orders or moves them between statuses; handlers
// translate HTTP requests into engine calls and engine errors back into
// responses.
//
// The engine operates on store interfaces rather than *sql.DB so the state
// machine is testable without a live database. Authorization is explicit:
// every call receives the acting user's identity and role instead of
// reading any ambient session state.
package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prasetyow/galaxytix/internal/model"
	"github.com/prasetyow/galaxytix/internal/queue"
	"github.com/prasetyow/galaxytix/internal/repository"
)

// ErrInvalidInput is returned for a malformed creation request (zero
// quantity, missing showtime/location/method). The caller can re-prompt.
var ErrInvalidInput = errors.New("invalid order input")

// ErrAlreadyResolved is returned when confirming or canceling an order
// that has already reached a terminal status. The order is unchanged.
var ErrAlreadyResolved = errors.New("order already resolved")

// ErrForbidden is returned when the actor is neither the order's owner nor
// an admin.
var ErrForbidden = errors.New("forbidden")

// ErrDeadlineExpired is returned by ConfirmPayment when the payment window
// has passed. As a side effect of the attempt the order transitions to
// canceled; paid_at is never set.
var ErrDeadlineExpired = errors.New("payment deadline expired")

// PaymentWindow is the default time a payer has to confirm a pending order.
const PaymentWindow = 30 * time.Minute

// qrSize is the pixel size requested from the render service.
const qrSize = 260

// paymentCodeLen is the length of the numeric payment reference shown to
// the payer.
const paymentCodeLen = 12

// Actor identifies who is performing an engine call.
type Actor struct {
	UserID uint64
	Role   string
}

func (a Actor) mayAccess(o *model.Order) bool {
	return o.UserID == a.UserID || a.Role == model.RoleAdmin
}

// FilmStore is the slice of the catalog the engine needs. Delete must
// cascade: removing a film removes all of its orders, both or neither.
type FilmStore interface {
	GetByID(ctx context.Context, id uint64) (model.Film, error)
	Delete(ctx context.Context, id uint64) error
}

// OrderStore persists orders. MarkPaid and MarkCanceled must be atomic
// compare-and-set transitions guarded by the pending status; they report
// whether the call won the transition. SetQR must only write an empty
// payment_qr column on a pending order.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
	MarkPaid(ctx context.Context, id uint64, paidAt time.Time) (bool, error)
	MarkCanceled(ctx context.Context, id uint64) (bool, error)
	SetQR(ctx context.Context, id uint64, qrURL string) error
	TicketsSoldPerFilm(ctx context.Context) ([]model.FilmSales, error)
}

// QRRenderer produces an image URL for a payment payload. Render must be
// idempotent: the same payload yields the same URL.
type QRRenderer interface {
	Render(ctx context.Context, payload string, size int) (string, error)
}

// Engine wires the stores together with an injectable clock. Now and
// Window default to UTC wall-clock time and PaymentWindow; tests override
// Now with a fixed clock to make deadline comparisons deterministic.
// Publish, when set, is called after a successful payment; failures are
// logged and never surface to the payer.
type Engine struct {
	Films   FilmStore
	Orders  OrderStore
	QR      QRRenderer
	Publish func(ctx context.Context, ev queue.OrderPaidEvent) error
	Now     func() time.Time
	Window  time.Duration
}

// NewEngine returns an Engine with the default clock and payment window.
func NewEngine(films FilmStore, orders OrderStore, qr QRRenderer) *Engine {
	return &Engine{
		Films:  films,
		Orders: orders,
		QR:     qr,
		Now:    func() time.Time { return time.Now().UTC() },
		Window: PaymentWindow,
	}
}

// CreateOrderRequest carries the purchase form fields.
type CreateOrderRequest struct {
	FilmID        uint64
	Qty           int
	Seats         []string
	Showtime      string
	Location      string
	PaymentMethod string
}

// CreateOrder validates the request, snapshots the total from the film's
// current price and persists a pending order with a fresh payment code and
// deadline. For the dana method it additionally requests a QR image URL;
// if the render service is down the order is created without one and the
// QR is healed lazily on the next read.
//
// The chosen showtime and location are only checked for non-emptiness, not
// for membership in the film's lists; the original behavior is preserved
// deliberately.
func (e *Engine) CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (model.Order, error) {
	req.Showtime = strings.TrimSpace(req.Showtime)
	req.Location = strings.TrimSpace(req.Location)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.Qty < 1 || req.Showtime == "" || req.Location == "" || req.PaymentMethod == "" {
		return model.Order{}, ErrInvalidInput
	}

	film, err := e.Films.GetByID(ctx, req.FilmID)
	if err != nil {
		return model.Order{}, err
	}

	code, err := paymentCode(paymentCodeLen)
	if err != nil {
		return model.Order{}, err
	}

	now := e.Now()
	order := model.Order{
		UserID:          actor.UserID,
		FilmID:          film.ID,
		Qty:             req.Qty,
		Seats:           req.Seats,
		Showtime:        req.Showtime,
		Location:        req.Location,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.OrderPending,
		TotalAmount:     film.Price * int64(req.Qty),
		PaymentCode:     code,
		PaymentDeadline: now.Add(e.Window),
		CreatedAt:       now,
	}

	if order.PaymentMethod == model.PaymentMethodDana {
		url, err := e.QR.Render(ctx, qrPayload(order.PaymentCode, film.Title, order.TotalAmount), qrSize)
		if err != nil {
			logrus.WithError(err).Warn("qr render failed, creating order without QR")
		} else {
			order.PaymentQR = url
		}
	}

	if err := e.Orders.Create(ctx, &order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// ConfirmPayment resolves a pending order. Before the deadline it becomes
// paid with paid_at stamped; after the deadline it becomes canceled and
// ErrDeadlineExpired is returned so the caller can tell expiry apart from
// success. Expiry is detected only here, lazily, never by a background
// sweep.
func (e *Engine) ConfirmPayment(ctx context.Context, actor Actor, orderID uint64) (model.Order, error) {
	order, err := e.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Resolved() {
		return model.Order{}, ErrAlreadyResolved
	}

	now := e.Now()
	if now.After(order.PaymentDeadline) {
		won, err := e.Orders.MarkCanceled(ctx, order.ID)
		if err != nil {
			return model.Order{}, err
		}
		if !won {
			return model.Order{}, ErrAlreadyResolved
		}
		order.Status = model.OrderCanceled
		return order, ErrDeadlineExpired
	}

	won, err := e.Orders.MarkPaid(ctx, order.ID, now)
	if err != nil {
		return model.Order{}, err
	}
	if !won {
		return model.Order{}, ErrAlreadyResolved
	}
	order.Status = model.OrderPaid
	order.PaidAt = &now

	e.publishPaid(ctx, order)
	return order, nil
}

// CancelOrder explicitly cancels a pending order.
func (e *Engine) CancelOrder(ctx context.Context, actor Actor, orderID uint64) (model.Order, error) {
	order, err := e.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if order.Resolved() {
		return model.Order{}, ErrAlreadyResolved
	}
	won, err := e.Orders.MarkCanceled(ctx, order.ID)
	if err != nil {
		return model.Order{}, err
	}
	if !won {
		return model.Order{}, ErrAlreadyResolved
	}
	order.Status = model.OrderCanceled
	return order, nil
}

// GetOrder returns an order to its owner or an admin. Reading a pending
// dana order without a QR heals it on the way out, covering orders whose
// QR render failed at creation time.
func (e *Engine) GetOrder(ctx context.Context, actor Actor, orderID uint64) (model.Order, error) {
	order, err := e.load(ctx, actor, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if err := e.EnsureQR(ctx, &order); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("lazy qr generation failed")
	}
	return order, nil
}

// EnsureQR synthesizes and stores the QR URL for a pending dana order that
// is missing one; in every other case it is a no-op. It is idempotent and
// safe to call on every read: the render service is a pure function of the
// payload and SetQR only ever fills an empty column.
func (e *Engine) EnsureQR(ctx context.Context, order *model.Order) error {
	if order.Status != model.OrderPending ||
		order.PaymentMethod != model.PaymentMethodDana ||
		order.PaymentQR != "" {
		return nil
	}
	film, err := e.Films.GetByID(ctx, order.FilmID)
	if err != nil {
		return err
	}
	url, err := e.QR.Render(ctx, qrPayload(order.PaymentCode, film.Title, order.TotalAmount), qrSize)
	if err != nil {
		return err
	}
	if err := e.Orders.SetQR(ctx, order.ID, url); err != nil {
		return err
	}
	order.PaymentQR = url
	return nil
}

// DeleteFilm removes a film and, through the store's cascade, every order
// placed against it. Admins only; once it returns, the film contributes
// nothing to the sales aggregation.
func (e *Engine) DeleteFilm(ctx context.Context, actor Actor, filmID uint64) error {
	if actor.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return e.Films.Delete(ctx, filmID)
}

// ListOrders returns the actor's own orders, newest first.
func (e *Engine) ListOrders(ctx context.Context, actor Actor) ([]model.Order, error) {
	return e.Orders.ListByUser(ctx, actor.UserID)
}

// TicketsSoldPerFilm exposes the paid-ticket aggregation.
func (e *Engine) TicketsSoldPerFilm(ctx context.Context) ([]model.FilmSales, error) {
	return e.Orders.TicketsSoldPerFilm(ctx)
}

// load fetches an order and enforces the ownership boundary before any
// state is touched.
func (e *Engine) load(ctx context.Context, actor Actor, orderID uint64) (model.Order, error) {
	order, err := e.Orders.GetByID(ctx, orderID)
	if err != nil {
		return model.Order{}, err
	}
	if !actor.mayAccess(&order) {
		return model.Order{}, ErrForbidden
	}
	return order, nil
}

func (e *Engine) publishPaid(ctx context.Context, order model.Order) {
	if e.Publish == nil {
		return
	}
	title := ""
	if film, err := e.Films.GetByID(ctx, order.FilmID); err == nil {
		title = film.Title
	} else if !errors.Is(err, repository.ErrNotFound) {
		logrus.WithError(err).Warn("load film for paid event failed")
	}
	ev := queue.OrderPaidEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		FilmID:        order.FilmID,
		FilmTitle:     title,
		Qty:           order.Qty,
		Seats:         order.Seats,
		Showtime:      order.Showtime,
		Location:      order.Location,
		PaymentMethod: order.PaymentMethod,
		PaymentCode:   order.PaymentCode,
		TotalAmount:   order.TotalAmount,
		PaidAt:        order.PaidAt.UTC().Format(time.RFC3339),
	}
	if err := e.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("publish order.paid failed")
	}
}

// qrPayload builds the string encoded into the payment QR image.
func qrPayload(code, filmTitle string, amount int64) string {
	return fmt.Sprintf("DANA|ORDER:%s|FILM:%s|AMOUNT:%d", code, filmTitle, amount)
}

// paymentCode returns n random decimal digits. The code is a display
// reference for the payer, not a key, so collisions are not checked.
func paymentCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = '0' + buf[i]%10
	}
	return string(buf), nil
}
