package store

import (
	"context"
	"fmt"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/google/uuid"
)

const movieColumns = `id, title, genre, number_in_stock, daily_rental_rate`

// MovieFilter 為 ListMovies 的查詢條件；零值表示不過濾
type MovieFilter struct {
	GenreID uuid.UUID
}

func scanMovie(row rowScanner, m *model.Movie) error {
	return row.Scan(&m.ID, &m.Title, &m.Genre, &m.NumberInStock, &m.DailyRentalRate)
}

func ListMovies(ctx context.Context, db database.Querier, f MovieFilter) ([]model.Movie, error) {
	sql := `SELECT ` + movieColumns + ` FROM movies`
	var args []any
	if f.GenreID != uuid.Nil {
		sql += ` WHERE genre->>'id' = $1`
		args = append(args, f.GenreID.String())
	}
	sql += ` ORDER BY title`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListMovies: %w", err)
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, fmt.Errorf("ListMovies: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListMovies: %w", err)
	}
	return movies, nil
}

func GetMovieByID(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Movie, error) {
	m := &model.Movie{}
	row := db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = $1`, id)
	if err := scanMovie(row, m); err != nil {
		return nil, wrapErr("GetMovieByID", err)
	}
	return m, nil
}

// CreateMovie 寫入 m.Genre 當下的複本
func CreateMovie(ctx context.Context, db database.Querier, m *model.Movie) (*model.Movie, error) {
	m.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO movies (id, title, genre, number_in_stock, daily_rental_rate)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+movieColumns,
		m.ID,
		m.Title,
		m.Genre,
		m.NumberInStock,
		m.DailyRentalRate,
	)
	if err := scanMovie(row, m); err != nil {
		return nil, fmt.Errorf("CreateMovie: %w", err)
	}
	return m, nil
}

func UpdateMovie(ctx context.Context, db database.Querier, m *model.Movie) (*model.Movie, error) {
	out := &model.Movie{}
	row := db.QueryRow(ctx,
		`UPDATE movies
		 SET title = $1, genre = $2, number_in_stock = $3, daily_rental_rate = $4
		 WHERE id = $5
		 RETURNING `+movieColumns,
		m.Title,
		m.Genre,
		m.NumberInStock,
		m.DailyRentalRate,
		m.ID,
	)
	if err := scanMovie(row, out); err != nil {
		return nil, wrapErr("UpdateMovie", err)
	}
	return out, nil
}

func DeleteMovie(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Movie, error) {
	m := &model.Movie{}
	row := db.QueryRow(ctx, `DELETE FROM movies WHERE id = $1 RETURNING `+movieColumns, id)
	if err := scanMovie(row, m); err != nil {
		return nil, wrapErr("DeleteMovie", err)
	}
	return m, nil
}
