package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/stretchr/testify/require"
)

// 需要真實的 PostgreSQL：TEST_DATABASE_URL=postgres://... go test ./internal/store
func openTestDB(t *testing.T) database.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.RunMigrations(url))
	db, err := database.NewPgxPool(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
		_ = database.RollbackAll(url)
	})
	return db
}

func TestRentalWorkflowPostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	genre, err := CreateGenre(ctx, db, &model.Genre{Name: "Comedy"})
	require.NoError(t, err)
	movie, err := CreateMovie(ctx, db, &model.Movie{Title: "Airplane", Genre: *genre, NumberInStock: 2, DailyRentalRate: 2})
	require.NoError(t, err)
	alice, err := CreateCustomer(ctx, db, &model.Customer{Name: "Alice", Phone: "5555555"})
	require.NoError(t, err)
	bob, err := CreateCustomer(ctx, db, &model.Customer{Name: "Bob", Phone: "3333333", IsGold: true})
	require.NoError(t, err)

	out := time.Now().UTC().Truncate(time.Millisecond)

	_, err = Checkout(ctx, db, alice.ID, movie.ID, out)
	require.NoError(t, err)

	// 剩最後一片，兩個併發借出只會成功一個
	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, c := range []*model.Customer{bob, alice} {
		wg.Add(1)
		go func(i int, c *model.Customer) {
			defer wg.Done()
			_, errs[i] = Checkout(ctx, db, c.ID, movie.ID, out)
		}(i, c)
	}
	wg.Wait()
	var ok, outOfStock int
	for _, e := range errs {
		switch {
		case e == nil:
			ok++
		case isOutOfStock(e):
			outOfStock++
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, outOfStock)

	m, err := GetMovieByID(ctx, db, movie.ID)
	require.NoError(t, err)
	require.Equal(t, 0, m.NumberInStock)

	r, err := Return(ctx, db, alice.ID, movie.ID, out.Add(3*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 6.0, *r.RentalFee)

	m, err = GetMovieByID(ctx, db, movie.ID)
	require.NoError(t, err)
	require.Equal(t, 1, m.NumberInStock)

	// genre 改名不影響已嵌入的複本
	_, err = UpdateGenre(ctx, db, &model.Genre{ID: genre.ID, Name: "Slapstick"})
	require.NoError(t, err)
	m, err = GetMovieByID(ctx, db, movie.ID)
	require.NoError(t, err)
	require.Equal(t, "Comedy", m.Genre.Name)

	movies, err := ListMovies(ctx, db, MovieFilter{GenreID: genre.ID})
	require.NoError(t, err)
	require.Len(t, movies, 1)

	open := true
	rentals, err := ListRentals(ctx, db, RentalFilter{MovieID: movie.ID, Open: &open})
	require.NoError(t, err)
	require.Len(t, rentals, 1)

	_, err = CreateUser(ctx, db, &model.User{Name: "Admin", Email: "admin@vidly.test", PasswordHash: "x"})
	require.NoError(t, err)
	_, err = CreateUser(ctx, db, &model.User{Name: "Admin", Email: "admin@vidly.test", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestReturnTwicePostgres(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	movie, err := CreateMovie(ctx, db, &model.Movie{Title: "Die Hard", NumberInStock: 1, DailyRentalRate: 3})
	require.NoError(t, err)
	c, err := CreateCustomer(ctx, db, &model.Customer{Name: "Carol", Phone: "1234567"})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = Checkout(ctx, db, c.ID, movie.ID, now)
	require.NoError(t, err)
	_, err = Return(ctx, db, c.ID, movie.ID, now)
	require.NoError(t, err)
	_, err = Return(ctx, db, c.ID, movie.ID, now)
	require.ErrorIs(t, err, ErrAlreadyReturned)

	m, err := GetMovieByID(ctx, db, movie.ID)
	require.NoError(t, err)
	require.Equal(t, 1, m.NumberInStock)
}

func isOutOfStock(err error) bool { return errors.Is(err, ErrOutOfStock) }
