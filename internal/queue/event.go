// Package queue defines the payloads exchanged over the message broker and
// the background consumer that appends paid orders to logs/payments.log.
package queue

// OrderPaidEvent is published when a payment is successfully confirmed.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type OrderPaidEvent struct {
	OrderID       uint64   `json:"order_id"`
	UserID        uint64   `json:"user_id"`
	FilmID        uint64   `json:"film_id"`
	FilmTitle     string   `json:"film_title"`
	Qty           int      `json:"qty"`
	Seats         []string `json:"seats"`
	Showtime      string   `json:"showtime"`
	Location      string   `json:"location"`
	PaymentMethod string   `json:"payment_method"`
	PaymentCode   string   `json:"payment_code"`
	TotalAmount   int64    `json:"total_amount"`
	PaidAt        string   `json:"paid_at"`
}
