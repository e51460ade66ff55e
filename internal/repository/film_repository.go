package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/prasetyow/galaxytix/internal/model"
)

// FilmRepo provides CRUD operations on the `films` table. Showtime and
// location lists travel as comma-delimited columns in the database and as
// []string everywhere else; the conversion happens here and nowhere else.
type FilmRepo struct{ DB *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

const filmColumns = "id,title,synopsis,image_url,showtimes_csv,locations_csv,price,created_at"

func scanFilm(row interface{ Scan(...any) error }) (model.Film, error) {
	var (
		f            model.Film
		showtimesCSV string
		locationsCSV string
	)
	err := row.Scan(&f.ID, &f.Title, &f.Synopsis, &f.ImageURL,
		&showtimesCSV, &locationsCSV, &f.Price, &f.CreatedAt)
	if err != nil {
		return f, err
	}
	f.Showtimes = model.SplitList(showtimesCSV)
	f.Locations = model.SplitList(locationsCSV)
	return f, nil
}

// Create inserts a film and populates the generated ID. The title must be
// non-empty; a non-positive price is replaced with the default rather than
// rejected (see model.ParsePrice).
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	f.Title = strings.TrimSpace(f.Title)
	if f.Price <= 0 {
		f.Price = model.DefaultPrice
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO films (title, synopsis, image_url, showtimes_csv, locations_csv, price) VALUES (?,?,?,?,?,?)",
		f.Title, f.Synopsis, f.ImageURL,
		model.JoinList(f.Showtimes), model.JoinList(f.Locations), f.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a single film.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+filmColumns+" FROM films WHERE id=? LIMIT 1", id)
	f, err := scanFilm(row)
	if err == sql.ErrNoRows {
		return f, ErrNotFound
	}
	return f, err
}

// List returns all films in reverse-creation order, newest first.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+filmColumns+" FROM films ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	films := make([]model.Film, 0)
	for rows.Next() {
		f, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

// Delete removes a film together with all of its orders. The film owns its
// orders, so the cascade runs in a single transaction: either both deletes
// apply or neither does.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE film_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM films WHERE id=?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Count returns the number of films in the catalog.
func (r *FilmRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM films").Scan(&n)
	return n, err
}

// SeedDemo inserts the demo film when the catalog is empty, mirroring the
// first-run behavior of the original deployment.
func (r *FilmRepo) SeedDemo(ctx context.Context) error {
	n, err := r.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	demo := model.Film{
		Title:    "Demon Slayer: Infinity Castle — Part 1",
		Synopsis: "An epic battle inside the endless castle.",
		ImageURL: "https://images.unsplash.com/photo-1542273917363-3b1817f69a2d?q=80&w=1400&auto=format&fit=crop",
		Showtimes: []string{
			"2025-08-20 19:00", "2025-08-21 16:30", "2025-08-22 21:00",
		},
		Locations: []string{
			"CGV PVJ Bandung", "XXI Plaza Indonesia", "Cinepolis Miko Mall",
		},
		Price: 65000,
	}
	return r.Create(ctx, &demo)
}
