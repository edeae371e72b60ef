package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Country is a catalog reference row from the `countries` table.
type Country struct {
	ID        int    // countries.id
	Name      string // countries.name
	ShortName string // countries.short_name (ISO style code)
}

// CountryDetails is a country together with its hotels, used by the
// details endpoint.
type CountryDetails struct {
	Country
	Hotels []Hotel
}

// CountryStore implements EntityStore[Country] over MySQL.
type CountryStore struct {
	db *sql.DB
}

func NewCountryStore(db *sql.DB) *CountryStore { return &CountryStore{db: db} }

func (s *CountryStore) Find(ctx context.Context, id int) (*Country, error) {
	const q = "SELECT id, name, short_name FROM countries WHERE id = ?"
	var c Country
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.ShortName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *CountryStore) List(ctx context.Context) ([]Country, error) {
	const q = "SELECT id, name, short_name FROM countries ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCountries(rows)
}

func (s *CountryStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM countries").Scan(&n)
	return n, err
}

func (s *CountryStore) Page(ctx context.Context, offset, limit int) ([]Country, error) {
	const q = "SELECT id, name, short_name FROM countries ORDER BY id LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCountries(rows)
}

func (s *CountryStore) Insert(ctx context.Context, c *Country) (*Country, error) {
	const q = "INSERT INTO countries (name, short_name) VALUES (?, ?)"
	res, err := s.db.ExecContext(ctx, q, c.Name, c.ShortName)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	c.ID = int(id)
	return c, nil
}

func (s *CountryStore) Update(ctx context.Context, c *Country) error {
	const q = "UPDATE countries SET name = ?, short_name = ? WHERE id = ?"
	res, err := s.db.ExecContext(ctx, q, c.Name, c.ShortName, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CountryStore) Remove(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM countries WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDetails returns a country with its hotels attached.  Two bounded
// queries instead of a join keeps the scan code simple; hotel counts per
// country are small.
func (s *CountryStore) GetDetails(ctx context.Context, id int) (*CountryDetails, error) {
	c, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	const q = "SELECT id, name, address, rating, country_id FROM hotels WHERE country_id = ? ORDER BY id"
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels, err := scanHotels(rows)
	if err != nil {
		return nil, err
	}
	return &CountryDetails{Country: *c, Hotels: hotels}, nil
}

func scanCountries(rows *sql.Rows) ([]Country, error) {
	var out []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name, &c.ShortName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
