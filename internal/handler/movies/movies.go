package movies

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vidly/internal/cache"
	"vidly/internal/database"
	"vidly/internal/dto"
	"vidly/internal/handler"
	"vidly/internal/model"
	"vidly/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var (
	listMovies   = store.ListMovies
	getMovieByID = store.GetMovieByID
	createMovie  = store.CreateMovie
	updateMovie  = store.UpdateMovie
	deleteMovie  = store.DeleteMovie
	getGenreByID = store.GetGenreByID
)

func notFound(c echo.Context, id uuid.UUID) error {
	return handler.NotFound(c, fmt.Sprintf("Could not find movie with ID %s.", id))
}

// resolveGenre 取得 genreId 對應的類型；不存在時 ok 為 false 且已寫出 404
func resolveGenre(c echo.Context, db database.Querier, rawID string) (*model.Genre, bool, error) {
	genreID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, false, handler.BadRequest(c, "Not a valid ID.")
	}
	g, err := getGenreByID(c.Request().Context(), db, genreID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, handler.NotFound(c, fmt.Sprintf("Could not find genre with ID %s.", genreID))
	}
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

func toMovie(req dto.MovieRequest, g model.Genre) *model.Movie {
	return &model.Movie{
		Title:           req.Title,
		Genre:           g,
		NumberInStock:   *req.NumberInStock,
		DailyRentalRate: *req.DailyRentalRate,
	}
}

// 電影清單帶有庫存數；借還時刪 key 前讀到的舊清單可能在刪除後才寫回，
// 所以快取時間最多 maxListTTL
const maxListTTL = 30 * time.Second

func listTTL(ttl time.Duration) time.Duration {
	if ttl > maxListTTL {
		return maxListTTL
	}
	return ttl
}

func invalidate(ctx context.Context, cch cache.Cache, log logrus.FieldLogger) {
	handler.LogCacheError(log, "invalidate", cache.KeyMovies, cache.Invalidate(ctx, cch, cache.KeyMovies))
}

// ListMoviesHandler 依片名排序；未帶 genreId 時結果快取於 Redis
// @Summary     List movies
// @Tags        movies
// @Produce     json
// @Param       genreId query    string false "Filter by genre ID"
// @Success     200     {array}  model.Movie
// @Failure     400     {object} dto.HTTPError
// @Router      /movies [get]
func ListMoviesHandler(db database.Querier, cch cache.Cache, ttl time.Duration, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var filter store.MovieFilter
		if raw := c.QueryParam("genreId"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return handler.BadRequest(c, "Not a valid ID.")
			}
			filter.GenreID = id
		}
		useCache := filter.GenreID == uuid.Nil

		var movies []model.Movie
		if useCache {
			hit, err := cache.Lookup(ctx, cch, cache.KeyMovies, &movies)
			handler.LogCacheError(log, "lookup", cache.KeyMovies, err)
			if hit {
				return c.JSON(http.StatusOK, movies)
			}
		}

		movies, err := listMovies(ctx, db, filter)
		if err != nil {
			return err
		}
		if useCache {
			handler.LogCacheError(log, "store", cache.KeyMovies, cache.Store(ctx, cch, cache.KeyMovies, movies, listTTL(ttl)))
		}
		return c.JSON(http.StatusOK, movies)
	}
}

// GetMovieHandler
// @Summary     Get a movie
// @Tags        movies
// @Produce     json
// @Param       id  path     string true "Movie ID"
// @Success     200 {object} model.Movie
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Router      /movies/{id} [get]
func GetMovieHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		m, err := getMovieByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, m)
	}
}

// CreateMovieHandler 以 genreId 取得類型並嵌入電影
// @Summary     Create a movie
// @Tags        movies
// @Accept      json
// @Produce     json
// @Param       body body     dto.MovieRequest true "Movie"
// @Success     201  {object} model.Movie
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /movies [post]
func CreateMovieHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.MovieRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		g, ok, err := resolveGenre(c, db, req.GenreID)
		if !ok {
			return err
		}

		ctx := c.Request().Context()
		m, err := createMovie(ctx, db, toMovie(req, *g))
		if err != nil {
			return err
		}
		invalidate(ctx, cch, log)
		return c.JSON(http.StatusCreated, m)
	}
}

// UpdateMovieHandler 取代所有欄位，類型重新取複本
// @Summary     Update a movie
// @Tags        movies
// @Accept      json
// @Produce     json
// @Param       id   path     string           true "Movie ID"
// @Param       body body     dto.MovieRequest true "Movie"
// @Success     200  {object} model.Movie
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /movies/{id} [put]
func UpdateMovieHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		var req dto.MovieRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		if _, err := getMovieByID(ctx, db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(c, id)
			}
			return err
		}
		g, ok, err := resolveGenre(c, db, req.GenreID)
		if !ok {
			return err
		}

		in := toMovie(req, *g)
		in.ID = id
		m, err := updateMovie(ctx, db, in)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		invalidate(ctx, cch, log)
		return c.JSON(http.StatusOK, m)
	}
}

// DeleteMovieHandler 回傳被刪除的電影；既有租借紀錄保留其電影複本
// @Summary     Delete a movie
// @Tags        movies
// @Produce     json
// @Param       id  path     string true "Movie ID"
// @Success     200 {object} model.Movie
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /movies/{id} [delete]
func DeleteMovieHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		m, err := deleteMovie(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		invalidate(ctx, cch, log)
		return c.JSON(http.StatusOK, m)
	}
}
