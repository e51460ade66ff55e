package model

import (
	"strconv"
	"strings"
	"time"
)

// DefaultPrice is the per-ticket price applied when a film is created with
// an unparseable or non-positive price. The fallback is deliberate
// leniency: an admin typo must not block adding a film.
const DefaultPrice = 50000

// Film represents a row in the `films` table. Showtimes and locations are
// stored as comma-delimited text columns for compatibility with the
// original schema but are always exposed as ordered string slices; the
// repository joins and splits them on the way in and out.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – film title (never empty).
//  Synopsis  – free-text description.
//  ImageURL  – poster image reference.
//  Showtimes – ordered showtime labels, e.g. "2025-08-20 19:00".
//  Locations – ordered venue labels.
//  Price     – per-ticket price in whole currency units (> 0).
//  CreatedAt – timestamp of creation.
type Film struct {
	ID        uint64    // films.id
	Title     string    // films.title
	Synopsis  string    // films.synopsis
	ImageURL  string    // films.image_url
	Showtimes []string  // films.showtimes_csv, split on read
	Locations []string  // films.locations_csv, split on read
	Price     int64     // films.price
	CreatedAt time.Time // films.created_at
}

// SplitList parses a comma-delimited field into a trimmed, non-empty
// ordered sequence. Empty input yields an empty (non-nil) slice so callers
// can range over the result without nil checks.
func SplitList(s string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// JoinList is the inverse of SplitList, used when persisting a film.
func JoinList(items []string) string {
	trimmed := make([]string, 0, len(items))
	for _, it := range items {
		if p := strings.TrimSpace(it); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, ",")
}

// ParsePrice converts raw price input into a valid per-ticket price.
// Unparseable or non-positive values fall back to DefaultPrice rather than
// failing the request.
func ParsePrice(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return DefaultPrice
	}
	return n
}
