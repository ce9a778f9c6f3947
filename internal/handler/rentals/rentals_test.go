package rentals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vidly/internal/cache"
	"vidly/internal/database"
	"vidly/internal/middleware"
	"vidly/internal/model"
	"vidly/internal/service"
	"vidly/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func restore() {
	listRentals = store.ListRentals
	checkout = store.Checkout
	checkIn = store.Return
	timeNow = time.Now
}

type recordingNotifier struct {
	checkedOut []model.Rental
	returned   []model.Rental
}

func (n *recordingNotifier) RentalCheckedOut(r model.Rental) { n.checkedOut = append(n.checkedOut, r) }
func (n *recordingNotifier) RentalReturned(r model.Rental)   { n.returned = append(n.returned, r) }

func newEcho() (*echo.Echo, logrus.FieldLogger) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.Validator = service.NewCustomValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	return e, log
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func rentalBody(customerID, movieID uuid.UUID) string {
	return fmt.Sprintf(`{"customerId":"%s","movieId":"%s"}`, customerID, movieID)
}

func openRental(customerID, movieID uuid.UUID) *model.Rental {
	return &model.Rental{
		ID:       uuid.New(),
		Customer: model.CustomerSnapshot{ID: customerID, Name: "Sallie Smith", Phone: "555-555-5555"},
		Movie:    model.MovieSnapshot{ID: movieID, Title: "Airplane", DailyRentalRate: 2},
		DateOut:  now,
	}
}

func TestListRentalsHandler(t *testing.T) {
	cid, mid := uuid.New(), uuid.New()
	yes, no := true, false
	cases := []struct {
		name  string
		query string
		want  store.RentalFilter
	}{
		{"none", "", store.RentalFilter{}},
		{"customer", "?customerId=" + cid.String(), store.RentalFilter{CustomerID: cid}},
		{"movie and open", "?movieId=" + mid.String() + "&open=true", store.RentalFilter{MovieID: mid, Open: &yes}},
		{"closed", "?open=false", store.RentalFilter{Open: &no}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(restore)
			e, _ := newEcho()
			var got store.RentalFilter
			listRentals = func(_ context.Context, _ database.Querier, f store.RentalFilter) ([]model.Rental, error) {
				got = f
				return []model.Rental{*openRental(cid, mid)}, nil
			}
			e.GET("/rentals", ListRentalsHandler(nil))

			rec := do(e, http.MethodGet, "/rentals"+tc.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.want, got)
			require.NotContains(t, rec.Body.String(), "dateReturned")
		})
	}

	t.Run("bad filters", func(t *testing.T) {
		t.Cleanup(restore)
		e, _ := newEcho()
		listRentals = func(context.Context, database.Querier, store.RentalFilter) ([]model.Rental, error) {
			t.Fatal("listRentals should not be called")
			return nil, nil
		}
		e.GET("/rentals", ListRentalsHandler(nil))
		for _, q := range []string{"?customerId=1", "?movieId=x", "?open=maybe"} {
			require.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/rentals"+q, "").Code, q)
		}
	})

	t.Run("db error", func(t *testing.T) {
		t.Cleanup(restore)
		e, _ := newEcho()
		listRentals = func(context.Context, database.Querier, store.RentalFilter) ([]model.Rental, error) {
			return nil, errors.New("db")
		}
		e.GET("/rentals", ListRentalsHandler(nil))
		require.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/rentals", "").Code)
	})
}

func TestCheckoutHandler(t *testing.T) {
	cid, mid := uuid.New(), uuid.New()

	setup := func(t *testing.T, err error) (*echo.Echo, *recordingNotifier, cache.Cache) {
		t.Cleanup(restore)
		timeNow = func() time.Time { return now }
		checkout = func(_ context.Context, _ database.DB, customerID, movieID uuid.UUID, at time.Time) (*model.Rental, error) {
			require.Equal(t, cid, customerID)
			require.Equal(t, mid, movieID)
			require.Equal(t, now, at)
			if err != nil {
				return nil, err
			}
			return openRental(customerID, movieID), nil
		}
		e, log := newEcho()
		n := &recordingNotifier{}
		cch := cache.MemoryCache()
		require.NoError(t, cache.Store(context.Background(), cch, cache.KeyMovies, []model.Movie{{ID: mid, NumberInStock: 1}}, 0))
		e.POST("/rentals", CheckoutHandler(nil, cch, n, log))
		return e, n, cch
	}

	t.Run("created", func(t *testing.T) {
		e, n, cch := setup(t, nil)
		rec := do(e, http.MethodPost, "/rentals", rentalBody(cid, mid))
		require.Equal(t, http.StatusCreated, rec.Code)

		var r model.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
		require.True(t, r.IsOpen())
		require.Equal(t, "Airplane", r.Movie.Title)
		require.Len(t, n.checkedOut, 1)
		require.Equal(t, r.ID, n.checkedOut[0].ID)

		hit, err := cache.Lookup(context.Background(), cch, cache.KeyMovies, &[]model.Movie{})
		require.NoError(t, err)
		require.False(t, hit)
	})

	errCases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"movie missing", fmt.Errorf("Checkout: %w", store.ErrMovieNotFound), http.StatusNotFound, "Could not find movie with ID " + mid.String()},
		{"customer missing", fmt.Errorf("Checkout: %w", store.ErrCustomerNotFound), http.StatusNotFound, "Could not find customer with ID " + cid.String()},
		{"out of stock", fmt.Errorf("Checkout: %w", store.ErrOutOfStock), http.StatusBadRequest, "Movie not in stock."},
		{"db error", errors.New("conn reset"), http.StatusInternalServerError, "Unexpected error."},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			e, n, cch := setup(t, tc.err)
			rec := do(e, http.MethodPost, "/rentals", rentalBody(cid, mid))
			require.Equal(t, tc.code, rec.Code)
			require.Contains(t, rec.Body.String(), tc.msg)
			require.Empty(t, n.checkedOut)

			hit, err := cache.Lookup(context.Background(), cch, cache.KeyMovies, &[]model.Movie{})
			require.NoError(t, err)
			require.True(t, hit)
		})
	}

	t.Run("validation", func(t *testing.T) {
		e, _, _ := setup(t, nil)
		rec := do(e, http.MethodPost, "/rentals", `{"customerId":"1"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), `\"customerId\" must be a valid id`)
		require.Contains(t, rec.Body.String(), `\"movieId\" is required`)
	})
}

func TestReturnHandler(t *testing.T) {
	cid, mid := uuid.New(), uuid.New()
	returnedAt := now.Add(72 * time.Hour)

	setup := func(t *testing.T, err error) (*echo.Echo, *recordingNotifier) {
		t.Cleanup(restore)
		timeNow = func() time.Time { return returnedAt }
		checkIn = func(_ context.Context, _ database.DB, customerID, movieID uuid.UUID, at time.Time) (*model.Rental, error) {
			if err != nil {
				return nil, err
			}
			r := openRental(customerID, movieID)
			r.CheckIn(at)
			return r, nil
		}
		e, log := newEcho()
		n := &recordingNotifier{}
		e.POST("/returns", ReturnHandler(nil, cache.MemoryCache(), n, log))
		return e, n
	}

	t.Run("ok", func(t *testing.T) {
		e, n := setup(t, nil)
		rec := do(e, http.MethodPost, "/returns", rentalBody(cid, mid))
		require.Equal(t, http.StatusOK, rec.Code)

		var r model.Rental
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
		require.NotNil(t, r.DateReturned)
		require.True(t, returnedAt.Equal(*r.DateReturned))
		require.Equal(t, 6.0, *r.RentalFee)
		require.Len(t, n.returned, 1)
	})

	t.Run("no rental", func(t *testing.T) {
		e, n := setup(t, fmt.Errorf("Return: lookupRental: %w", store.ErrNotFound))
		rec := do(e, http.MethodPost, "/returns", rentalBody(cid, mid))
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "Cannot find a rental for this customer and movie.")
		require.Empty(t, n.returned)
	})

	t.Run("already returned", func(t *testing.T) {
		e, n := setup(t, fmt.Errorf("Return: %w", store.ErrAlreadyReturned))
		rec := do(e, http.MethodPost, "/returns", rentalBody(cid, mid))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "Rental already returned.")
		require.Empty(t, n.returned)
	})

	t.Run("db error", func(t *testing.T) {
		e, _ := setup(t, errors.New("conn reset"))
		rec := do(e, http.MethodPost, "/returns", rentalBody(cid, mid))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
