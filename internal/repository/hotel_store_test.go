package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func hotelRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "address", "rating", "country_id"})
}

func TestHotelFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, address, rating, country_id FROM hotels WHERE id").
		WithArgs(99).
		WillReturnRows(hotelRows())

	_, err = NewHotelStore(db).Find(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHotelPagePassesOffsetAndLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, address, rating, country_id FROM hotels ORDER BY id LIMIT").
		WithArgs(10, 20).
		WillReturnRows(hotelRows().
			AddRow(21, "Sandals Resort", "Negril", 4.5, 1).
			AddRow(22, "Comfort Suites", "George Town", 4.3, 2))

	hotels, err := NewHotelStore(db).Page(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Len(t, hotels, 2)
	require.Equal(t, "Sandals Resort", hotels[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHotelSearchBuildsOnlySetPredicates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, address, rating, country_id FROM hotels WHERE name LIKE \? AND rating >= \? ORDER BY id`).
		WithArgs("%resort%", 4.0).
		WillReturnRows(hotelRows().AddRow(21, "Sandals Resort", "Negril", 4.5, 1))

	hotels, err := NewHotelStore(db).Search(context.Background(), HotelFilter{Name: "resort", MinRating: 4.0})
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHotelSearchNoFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, address, rating, country_id FROM hotels ORDER BY id`).
		WillReturnRows(hotelRows())

	hotels, err := NewHotelStore(db).Search(context.Background(), HotelFilter{})
	require.NoError(t, err)
	require.Empty(t, hotels)
}

func TestHotelRemoveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM hotels WHERE id").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewHotelStore(db).Remove(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCountryGetDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, name, short_name FROM countries WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "short_name"}).AddRow(1, "Jamaica", "JM"))
	mock.ExpectQuery("SELECT id, name, address, rating, country_id FROM hotels WHERE country_id").
		WithArgs(1).
		WillReturnRows(hotelRows().AddRow(21, "Sandals Resort", "Negril", 4.5, 1))

	d, err := NewCountryStore(db).GetDetails(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Jamaica", d.Name)
	require.Len(t, d.Hotels, 1)
	require.Equal(t, "Sandals Resort", d.Hotels[0].Name)
}
