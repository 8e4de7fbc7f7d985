// Package repository contains data access logic separated from HTTP handlers.
// This file defines the café repository: list, insert and delete against
// the single `cafes` table. There is no update operation.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql.NullString stores an empty coffee price as NULL
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/cafe-finder/internal/database"
	"github.com/iliyamo/cafe-finder/internal/model"
)

// coffee_price is nullable in the table; COALESCE keeps scans into string safe.
const cafeColumns = `id, name, map_url, img_url, location, seats,
	COALESCE(coffee_price, '') AS coffee_price,
	has_toilet, has_wifi, has_sockets, can_take_calls`

// CafeRepo encapsulates all database queries related to cafés.  It
// depends on a sqlx.DB connection which should be configured elsewhere.
// Queries are written with `?` placeholders and rebound for the driver.
type CafeRepo struct {
	db *sqlx.DB // db is the underlying database connection pool
}

// NewCafeRepo constructs a CafeRepo with the provided DB handle.
func NewCafeRepo(db *sqlx.DB) *CafeRepo {
	return &CafeRepo{db: db}
}

// List returns every café ordered by id, i.e. in insertion order.
// An empty table yields an empty, non-nil slice.
func (r *CafeRepo) List(ctx context.Context) ([]*model.Cafe, error) {
	out := []*model.Cafe{}
	if err := r.db.SelectContext(ctx, &out, "SELECT "+cafeColumns+" FROM cafes ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return out, nil
}

// Insert persists c and sets c.ID to the identifier assigned by the
// database.  ErrConflict is returned when a café with the same name
// already exists; in that case nothing is written.
func (r *CafeRepo) Insert(ctx context.Context, c *model.Cafe) error {
	const q = `INSERT INTO cafes
		(name, map_url, img_url, location, seats, coffee_price, has_toilet, has_wifi, has_sockets, can_take_calls)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []any{
		c.Name, c.MapURL, c.ImgURL, c.Location, c.Seats,
		sql.NullString{String: c.CoffeePrice, Valid: c.CoffeePrice != ""},
		c.HasToilet, c.HasWifi, c.HasSockets, c.CanTakeCalls,
	}

	// MySQL has no RETURNING clause; the others hand the id back directly.
	if r.db.DriverName() == database.DriverMySQL {
		res, err := r.db.ExecContext(ctx, q, args...)
		if err != nil {
			return translateWriteErr(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)
		return nil
	}

	var id uint64
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(q+" RETURNING id"), args...).Scan(&id); err != nil {
		return translateWriteErr(err)
	}
	c.ID = id
	return nil
}

// Delete removes the café with the given id permanently.  It returns
// ErrCafeNotFound when no row is affected.
func (r *CafeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cafes WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete cafe %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCafeNotFound
	}
	return nil
}

// Count returns the number of stored cafés.
func (r *CafeRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM cafes"); err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

func translateWriteErr(err error) error {
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return fmt.Errorf("insert cafe: %w", err)
}
