// Package storage is the SQLite persistence layer. Dates are stored as
// ISO day strings so queries stay comparable and the driver needs no
// timezone handling.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"garasi/internal/core"

	_ "modernc.org/sqlite"
)

const dayLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, c core.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, nama, no_hp, jenis_mobil, no_kendaraan,
			tanggal_mulai, tanggal_jatuh_tempo, room_number, foto_kendaraan,
			harga, periode_bulan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Nama, c.NoHP, c.JenisMobil, c.NoKendaraan,
		c.TanggalMulai.Format(dayLayout), c.TanggalJatuhTempo.Format(dayLayout),
		c.RoomNumber, c.FotoKendaraan, c.Harga.Rupiah, c.PeriodeBulan)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	slog.InfoContext(ctx, "Customer saved to SQLite",
		"id", c.ID,
		"room", c.RoomNumber)
	return nil
}

func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, c core.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET nama = ?, no_hp = ?, jenis_mobil = ?, no_kendaraan = ?,
			tanggal_mulai = ?, tanggal_jatuh_tempo = ?, room_number = ?,
			foto_kendaraan = ?, harga = ?, periode_bulan = ?
		WHERE id = ?`,
		c.Nama, c.NoHP, c.JenisMobil, c.NoKendaraan,
		c.TanggalMulai.Format(dayLayout), c.TanggalJatuhTempo.Format(dayLayout),
		c.RoomNumber, c.FotoKendaraan, c.Harga.Rupiah, c.PeriodeBulan, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepository) DeleteCustomer(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id string) (core.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nama, no_hp, jenis_mobil, no_kendaraan,
			tanggal_mulai, tanggal_jatuh_tempo, room_number, foto_kendaraan,
			harga, periode_bulan
		FROM customers WHERE id = ?`, id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Customer{}, core.ErrNotFound
	}
	if err != nil {
		return core.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nama, no_hp, jenis_mobil, no_kendaraan,
			tanggal_mulai, tanggal_jatuh_tempo, room_number, foto_kendaraan,
			harga, periode_bulan
		FROM customers ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []core.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, deskripsi, harga, tanggal)
		VALUES (?, ?, ?, ?)`,
		e.ID, e.Deskripsi, e.Harga.Rupiah, e.Tanggal.Format(dayLayout))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"harga", e.Harga.Rupiah)
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, deskripsi, harga, tanggal
		FROM expenses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			tanggal string
		)
		if err := rows.Scan(&e.ID, &e.Deskripsi, &e.Harga.Rupiah, &tanggal); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Tanggal, err = time.Parse(dayLayout, tanggal); err != nil {
			return nil, fmt.Errorf("parse expense date: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (core.Customer, error) {
	var (
		c           core.Customer
		mulai, tempo string
	)
	if err := row.Scan(&c.ID, &c.Nama, &c.NoHP, &c.JenisMobil, &c.NoKendaraan,
		&mulai, &tempo, &c.RoomNumber, &c.FotoKendaraan,
		&c.Harga.Rupiah, &c.PeriodeBulan); err != nil {
		return core.Customer{}, err
	}

	var err error
	if c.TanggalMulai, err = time.Parse(dayLayout, mulai); err != nil {
		return core.Customer{}, fmt.Errorf("parse tanggal_mulai: %w", err)
	}
	if c.TanggalJatuhTempo, err = time.Parse(dayLayout, tempo); err != nil {
		return core.Customer{}, fmt.Errorf("parse tanggal_jatuh_tempo: %w", err)
	}
	return c, nil
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
