package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"jsoncompare/internal/config"
)

var DB *sqlx.DB

func Init(cfg config.DBConfig) error {
	conn, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	DB = conn
	slog.Info("Successfully connected to database", "host", cfg.Host, "name", cfg.Name)
	return nil
}

func Close() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
