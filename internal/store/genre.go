package store

import (
	"context"
	"fmt"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/google/uuid"
)

func ListGenres(ctx context.Context, db database.Querier) ([]model.Genre, error) {
	rows, err := db.Query(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListGenres: %w", err)
	}
	defer rows.Close()

	genres := []model.Genre{}
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("ListGenres: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListGenres: %w", err)
	}
	return genres, nil
}

func GetGenreByID(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Genre, error) {
	g := &model.Genre{}
	row := db.QueryRow(ctx, `SELECT id, name FROM genres WHERE id = $1`, id)
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		return nil, wrapErr("GetGenreByID", err)
	}
	return g, nil
}

func CreateGenre(ctx context.Context, db database.Querier, g *model.Genre) (*model.Genre, error) {
	g.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO genres (id, name) VALUES ($1, $2) RETURNING id, name`,
		g.ID,
		g.Name,
	)
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		return nil, fmt.Errorf("CreateGenre: %w", err)
	}
	return g, nil
}

// UpdateGenre 只改 genres 表；已嵌入 movies 的複本維持原值
func UpdateGenre(ctx context.Context, db database.Querier, g *model.Genre) (*model.Genre, error) {
	out := &model.Genre{}
	row := db.QueryRow(ctx,
		`UPDATE genres SET name = $1 WHERE id = $2 RETURNING id, name`,
		g.Name,
		g.ID,
	)
	if err := row.Scan(&out.ID, &out.Name); err != nil {
		return nil, wrapErr("UpdateGenre", err)
	}
	return out, nil
}

func DeleteGenre(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Genre, error) {
	g := &model.Genre{}
	row := db.QueryRow(ctx, `DELETE FROM genres WHERE id = $1 RETURNING id, name`, id)
	if err := row.Scan(&g.ID, &g.Name); err != nil {
		return nil, wrapErr("DeleteGenre", err)
	}
	return g, nil
}
