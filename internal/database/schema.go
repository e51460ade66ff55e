package database

import (
	"context"
	"database/sql"
	"time"
)

// schema contains the idempotent bootstrap statements. The service creates
// its own tables on first run instead of shipping a migration tool; every
// statement is safe to re-execute on an existing database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(80)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(20)  NOT NULL DEFAULT 'user',
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS films (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title         VARCHAR(150) NOT NULL,
		synopsis      TEXT         NOT NULL,
		image_url     VARCHAR(500) NOT NULL DEFAULT '',
		showtimes_csv TEXT         NOT NULL,
		locations_csv TEXT         NOT NULL,
		price         BIGINT       NOT NULL DEFAULT 50000,
		created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id          BIGINT UNSIGNED NOT NULL,
		film_id          BIGINT UNSIGNED NOT NULL,
		qty              INT          NOT NULL DEFAULT 1,
		seats_csv        VARCHAR(200) NOT NULL DEFAULT '',
		showtime         VARCHAR(50)  NOT NULL,
		location         VARCHAR(120) NOT NULL,
		payment_method   VARCHAR(30)  NOT NULL,
		status           VARCHAR(20)  NOT NULL DEFAULT 'pending',
		total_amount     BIGINT       NOT NULL DEFAULT 0,
		payment_code     VARCHAR(32)  NOT NULL DEFAULT '',
		payment_qr       VARCHAR(600) NOT NULL DEFAULT '',
		payment_deadline DATETIME     NULL,
		paid_at          DATETIME     NULL,
		created_at       DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_orders_user (user_id),
		KEY idx_orders_film (film_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64)  NOT NULL,
		expires_at DATETIME  NOT NULL,
		revoked_at DATETIME  NULL,
		created_at DATETIME  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_refresh_tokens_user (user_id),
		KEY idx_refresh_tokens_hash (token_hash)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application's tables when they do not exist.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
