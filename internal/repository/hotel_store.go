package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Hotel is a catalog row from the `hotels` table.
type Hotel struct {
	ID        int     // hotels.id
	Name      string  // hotels.name
	Address   string  // hotels.address
	Rating    float64 // hotels.rating
	CountryID int     // hotels.country_id (references countries.id)
}

// HotelFilter holds the optional predicates of the public search endpoint.
// Zero values mean "not filtered".
type HotelFilter struct {
	Name      string  // substring match on hotel name
	CountryID int     // exact country match
	MinRating float64 // lower bound on rating
}

// HotelStore implements EntityStore[Hotel] over MySQL, plus filtered search.
type HotelStore struct {
	db *sql.DB
}

func NewHotelStore(db *sql.DB) *HotelStore { return &HotelStore{db: db} }

func (s *HotelStore) Find(ctx context.Context, id int) (*Hotel, error) {
	const q = "SELECT id, name, address, rating, country_id FROM hotels WHERE id = ?"
	var h Hotel
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name, &h.Address, &h.Rating, &h.CountryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (s *HotelStore) List(ctx context.Context) ([]Hotel, error) {
	const q = "SELECT id, name, address, rating, country_id FROM hotels ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHotels(rows)
}

func (s *HotelStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hotels").Scan(&n)
	return n, err
}

func (s *HotelStore) Page(ctx context.Context, offset, limit int) ([]Hotel, error) {
	const q = "SELECT id, name, address, rating, country_id FROM hotels ORDER BY id LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHotels(rows)
}

func (s *HotelStore) Insert(ctx context.Context, h *Hotel) (*Hotel, error) {
	const q = "INSERT INTO hotels (name, address, rating, country_id) VALUES (?, ?, ?, ?)"
	res, err := s.db.ExecContext(ctx, q, h.Name, h.Address, h.Rating, h.CountryID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	h.ID = int(id)
	return h, nil
}

func (s *HotelStore) Update(ctx context.Context, h *Hotel) error {
	const q = "UPDATE hotels SET name = ?, address = ?, rating = ?, country_id = ? WHERE id = ?"
	res, err := s.db.ExecContext(ctx, q, h.Name, h.Address, h.Rating, h.CountryID, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *HotelStore) Remove(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM hotels WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search returns hotels matching the filter, building the WHERE clause
// only from the predicates the caller actually set.
func (s *HotelStore) Search(ctx context.Context, f HotelFilter) ([]Hotel, error) {
	var (
		conds []string
		args  []any
	)
	if f.Name != "" {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+f.Name+"%")
	}
	if f.CountryID > 0 {
		conds = append(conds, "country_id = ?")
		args = append(args, f.CountryID)
	}
	if f.MinRating > 0 {
		conds = append(conds, "rating >= ?")
		args = append(args, f.MinRating)
	}
	q := "SELECT id, name, address, rating, country_id FROM hotels"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHotels(rows)
}

func scanHotels(rows *sql.Rows) ([]Hotel, error) {
	var out []Hotel
	for rows.Next() {
		var h Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.Rating, &h.CountryID); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
