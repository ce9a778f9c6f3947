package rentals

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"vidly/internal/cache"
	"vidly/internal/database"
	"vidly/internal/dto"
	"vidly/internal/events"
	"vidly/internal/handler"
	"vidly/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var (
	listRentals = store.ListRentals
	checkout    = store.Checkout
	checkIn     = store.Return
	timeNow     = time.Now
)

func queryID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

// ListRentalsHandler 依借出時間新到舊，可用 customerId、movieId、open 過濾
// @Summary     List rentals
// @Tags        rentals
// @Produce     json
// @Param       customerId query    string false "Filter by customer ID"
// @Param       movieId    query    string false "Filter by movie ID"
// @Param       open       query    bool   false "true: not yet returned, false: returned"
// @Success     200        {array}  model.Rental
// @Failure     400        {object} dto.HTTPError
// @Failure     401        {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /rentals [get]
func ListRentalsHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		var (
			f   store.RentalFilter
			err error
		)
		if f.CustomerID, err = queryID(c, "customerId"); err != nil {
			return handler.BadRequest(c, "Not a valid ID.")
		}
		if f.MovieID, err = queryID(c, "movieId"); err != nil {
			return handler.BadRequest(c, "Not a valid ID.")
		}
		if raw := c.QueryParam("open"); raw != "" {
			open, err := strconv.ParseBool(raw)
			if err != nil {
				return handler.BadRequest(c, `"open" must be true or false.`)
			}
			f.Open = &open
		}

		rentals, err := listRentals(c.Request().Context(), db, f)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, rentals)
	}
}

func parseRental(c echo.Context) (customerID, movieID uuid.UUID, err error) {
	var req dto.RentalRequest
	if err := handler.BindAndValidate(c, &req); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if customerID, err = uuid.Parse(req.CustomerID); err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Not a valid ID.")
	}
	if movieID, err = uuid.Parse(req.MovieID); err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Not a valid ID.")
	}
	return customerID, movieID, nil
}

// afterRentalChange 庫存已變動，清掉電影列表快取
func afterRentalChange(c echo.Context, cch cache.Cache, log logrus.FieldLogger) {
	err := cache.Invalidate(c.Request().Context(), cch, cache.KeyMovies)
	handler.LogCacheError(log, "invalidate", cache.KeyMovies, err)
}

// CheckoutHandler 建立租借並扣一片庫存
// @Summary     Check out a movie
// @Tags        rentals
// @Accept      json
// @Produce     json
// @Param       body body     dto.RentalRequest true "Customer and movie"
// @Success     201  {object} model.Rental
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /rentals [post]
func CheckoutHandler(db database.DB, cch cache.Cache, notifier events.Notifier, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		customerID, movieID, err := parseRental(c)
		if err != nil {
			return err
		}

		r, err := checkout(c.Request().Context(), db, customerID, movieID, timeNow())
		switch {
		case errors.Is(err, store.ErrMovieNotFound):
			return handler.NotFound(c, fmt.Sprintf("Could not find movie with ID %s.", movieID))
		case errors.Is(err, store.ErrCustomerNotFound):
			return handler.NotFound(c, fmt.Sprintf("Could not find customer with ID %s.", customerID))
		case errors.Is(err, store.ErrOutOfStock):
			return handler.BadRequest(c, "Movie not in stock.")
		case err != nil:
			return err
		}

		afterRentalChange(c, cch, log)
		notifier.RentalCheckedOut(*r)
		return c.JSON(http.StatusCreated, r)
	}
}

// ReturnHandler 歸還並計算租金，補回一片庫存
// @Summary     Return a movie
// @Tags        rentals
// @Accept      json
// @Produce     json
// @Param       body body     dto.RentalRequest true "Customer and movie"
// @Success     200  {object} model.Rental
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /returns [post]
func ReturnHandler(db database.DB, cch cache.Cache, notifier events.Notifier, log logrus.FieldLogger) echo.HandlerFunc {
	return func(c echo.Context) error {
		customerID, movieID, err := parseRental(c)
		if err != nil {
			return err
		}

		r, err := checkIn(c.Request().Context(), db, customerID, movieID, timeNow())
		switch {
		case errors.Is(err, store.ErrNotFound):
			return handler.NotFound(c, "Cannot find a rental for this customer and movie.")
		case errors.Is(err, store.ErrAlreadyReturned):
			return handler.BadRequest(c, "Rental already returned.")
		case err != nil:
			return err
		}

		afterRentalChange(c, cch, log)
		notifier.RentalReturned(*r)
		return c.JSON(http.StatusOK, r)
	}
}
