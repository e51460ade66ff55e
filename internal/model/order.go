package model

import "time"

// Order status values. Transitions are monotonic: a pending order moves to
// exactly one of paid or canceled and then never changes again.
const (
	OrderPending  = "pending"
	OrderPaid     = "paid"
	OrderCanceled = "canceled"
)

// PaymentMethodDana is the only payment method that carries a scannable QR
// image. All other methods ("gopay", "ovo", "transfer", ...) are paid by
// quoting the numeric payment code.
const PaymentMethodDana = "dana"

// Order represents a row in the `orders` table: a single ticket purchase
// for one film, one showtime and one location.
//
// TotalAmount is snapshotted at creation time (film price × qty) and is
// never recomputed, so later price changes do not affect existing orders.
// PaymentCode is a display reference for the payer, not a key; uniqueness
// is not enforced. PaymentQR is populated only for the dana method and is
// set at most once.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – purchasing user.
//  FilmID          – film the tickets are for.
//  Qty             – number of tickets (>= 1).
//  Seats           – chosen seat labels; free text, no collision checks.
//  Showtime        – chosen showtime label.
//  Location        – chosen venue label.
//  PaymentMethod   – payment method name.
//  Status          – pending, paid or canceled.
//  TotalAmount     – price snapshot in whole currency units.
//  PaymentCode     – random numeric reference string.
//  PaymentQR       – QR image URL (dana only, may be empty).
//  PaymentDeadline – wall-clock cutoff for confirming payment.
//  PaidAt          – set exactly when status becomes paid.
//  CreatedAt       – timestamp of creation.
type Order struct {
	ID              uint64     // orders.id
	UserID          uint64     // orders.user_id
	FilmID          uint64     // orders.film_id
	Qty             int        // orders.qty
	Seats           []string   // orders.seats_csv, split on read
	Showtime        string     // orders.showtime
	Location        string     // orders.location
	PaymentMethod   string     // orders.payment_method
	Status          string     // orders.status
	TotalAmount     int64      // orders.total_amount
	PaymentCode     string     // orders.payment_code
	PaymentQR       string     // orders.payment_qr
	PaymentDeadline time.Time  // orders.payment_deadline
	PaidAt          *time.Time // orders.paid_at (nullable)
	CreatedAt       time.Time  // orders.created_at
}

// Resolved reports whether the order has reached a terminal status.
func (o *Order) Resolved() bool { return o.Status != OrderPending }

// FilmSales is one row of the tickets-sold aggregation: the number of
// tickets across paid orders for a single film. Pending and canceled
// orders are excluded.
type FilmSales struct {
	FilmID      uint64 `json:"film_id"`
	Title       string `json:"title"`
	TicketsSold int    `json:"tickets_sold"`
}
