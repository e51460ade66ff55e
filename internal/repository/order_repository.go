package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/prasetyow/galaxytix/internal/model"
)

// OrderRepo provides persistence for orders. Status transitions are
// implemented as conditional updates guarded by `status='pending'`: the
// database resolves a double confirm/cancel race to exactly one winner and
// the loser observes zero affected rows.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,user_id,film_id,qty,seats_csv,showtime,location,payment_method," +
	"status,total_amount,payment_code,payment_qr,payment_deadline,paid_at,created_at"

func scanOrder(row interface{ Scan(...any) error }) (model.Order, error) {
	var (
		o        model.Order
		seatsCSV string
		paidAt   sql.NullTime
	)
	err := row.Scan(&o.ID, &o.UserID, &o.FilmID, &o.Qty, &seatsCSV,
		&o.Showtime, &o.Location, &o.PaymentMethod, &o.Status, &o.TotalAmount,
		&o.PaymentCode, &o.PaymentQR, &o.PaymentDeadline, &paidAt, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	o.Seats = model.SplitList(seatsCSV)
	if paidAt.Valid {
		t := paidAt.Time
		o.PaidAt = &t
	}
	return o, nil
}

// Create inserts an order and populates the generated ID. All payment
// fields, including created_at, come from the caller so that the engine's
// injected clock governs the deadline arithmetic.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO orders
		 (user_id, film_id, qty, seats_csv, showtime, location, payment_method,
		  status, total_amount, payment_code, payment_qr, payment_deadline, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.UserID, o.FilmID, o.Qty, model.JoinList(o.Seats), o.Showtime, o.Location,
		o.PaymentMethod, o.Status, o.TotalAmount, o.PaymentCode, o.PaymentQR,
		o.PaymentDeadline, o.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}

// GetByID fetches a single order.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return o, ErrNotFound
	}
	return o, err
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id=? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkPaid atomically moves a pending order to paid, stamping paid_at.
// It reports whether this call won the transition.
func (r *OrderRepo) MarkPaid(ctx context.Context, id uint64, paidAt time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=?, paid_at=? WHERE id=? AND status=?",
		model.OrderPaid, paidAt, id, model.OrderPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// MarkCanceled atomically moves a pending order to canceled. paid_at stays
// unset. It reports whether this call won the transition.
func (r *OrderRepo) MarkCanceled(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=? AND status=?",
		model.OrderCanceled, id, model.OrderPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetQR records the QR URL for a pending order that does not have one yet.
// The guard makes repeated calls harmless: the URL is written at most once.
func (r *OrderRepo) SetQR(ctx context.Context, id uint64, qrURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET payment_qr=? WHERE id=? AND status=? AND payment_qr=''",
		qrURL, id, model.OrderPending)
	return err
}

// TicketsSoldPerFilm sums ticket quantities over paid orders for every
// film in the catalog, newest film first. The aggregation is recomputed on
// each call; there is no counter to keep consistent, and deleted films
// (whose orders are removed by the cascade) simply no longer appear.
func (r *OrderRepo) TicketsSoldPerFilm(ctx context.Context) ([]model.FilmSales, error) {
	const q = `SELECT f.id, f.title, COALESCE(SUM(o.qty), 0)
	           FROM films f
	           LEFT JOIN orders o ON o.film_id = f.id AND o.status = ?
	           GROUP BY f.id, f.title
	           ORDER BY f.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, model.OrderPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sales := make([]model.FilmSales, 0)
	for rows.Next() {
		var s model.FilmSales
		if err := rows.Scan(&s.FilmID, &s.Title, &s.TicketsSold); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
