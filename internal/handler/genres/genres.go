package genres

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
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
	listGenres   = store.ListGenres
	getGenreByID = store.GetGenreByID
	createGenre  = store.CreateGenre
	updateGenre  = store.UpdateGenre
	deleteGenre  = store.DeleteGenre
)

func notFound(c echo.Context, id uuid.UUID) error {
	return handler.NotFound(c, fmt.Sprintf("Could not find genre with ID %s.", id))
}

// ListGenresHandler 依名稱排序列出所有類型，結果快取於 Redis
// @Summary     List genres
// @Tags        genres
// @Produce     json
// @Success     200 {array}  model.Genre
// @Failure     500 {object} dto.HTTPError
// @Router      /genres [get]
func ListGenresHandler(db database.Querier, cch cache.Cache, ttl time.Duration, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var genres []model.Genre
		hit, err := cache.Lookup(ctx, cch, cache.KeyGenres, &genres)
		handler.LogCacheError(log, "lookup", cache.KeyGenres, err)
		if hit {
			return c.JSON(http.StatusOK, genres)
		}

		genres, err = listGenres(ctx, db)
		if err != nil {
			return err
		}
		handler.LogCacheError(log, "store", cache.KeyGenres, cache.Store(ctx, cch, cache.KeyGenres, genres, ttl))
		return c.JSON(http.StatusOK, genres)
	}
}

// GetGenreHandler
// @Summary     Get a genre
// @Tags        genres
// @Produce     json
// @Param       id  path     string true "Genre ID"
// @Success     200 {object} model.Genre
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Router      /genres/{id} [get]
func GetGenreHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		g, err := getGenreByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, g)
	}
}

// CreateGenreHandler 名稱存成小寫
// @Summary     Create a genre
// @Tags        genres
// @Accept      json
// @Produce     json
// @Param       body body     dto.GenreRequest true "Genre"
// @Success     201  {object} model.Genre
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /genres [post]
func CreateGenreHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.GenreRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()
		g, err := createGenre(ctx, db, &model.Genre{Name: strings.ToLower(req.Name)})
		if err != nil {
			return err
		}
		handler.LogCacheError(log, "invalidate", cache.KeyGenres, cache.Invalidate(ctx, cch, cache.KeyGenres))
		return c.JSON(http.StatusCreated, g)
	}
}

// UpdateGenreHandler 只改類型本身，已建立電影內的類型複本不變
// @Summary     Update a genre
// @Tags        genres
// @Accept      json
// @Produce     json
// @Param       id   path     string           true "Genre ID"
// @Param       body body     dto.GenreRequest true "Genre"
// @Success     200  {object} model.Genre
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /genres/{id} [put]
func UpdateGenreHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		var req dto.GenreRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()
		g, err := updateGenre(ctx, db, &model.Genre{ID: id, Name: strings.ToLower(req.Name)})
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		handler.LogCacheError(log, "invalidate", cache.KeyGenres, cache.Invalidate(ctx, cch, cache.KeyGenres))
		return c.JSON(http.StatusOK, g)
	}
}

// DeleteGenreHandler 回傳被刪除的類型
// @Summary     Delete a genre
// @Tags        genres
// @Produce     json
// @Param       id  path     string true "Genre ID"
// @Success     200 {object} model.Genre
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /genres/{id} [delete]
func DeleteGenreHandler(db database.Querier, cch cache.Cache, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		g, err := deleteGenre(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		handler.LogCacheError(log, "invalidate", cache.KeyGenres, cache.Invalidate(ctx, cch, cache.KeyGenres))
		return c.JSON(http.StatusOK, g)
	}
}
