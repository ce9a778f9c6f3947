package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const rentalColumns = `id, customer, movie, date_out, date_returned, rental_fee`

var (
	beginFunc = pgx.BeginFunc
	tracer    = otel.Tracer("vidly/store")
)

// RentalFilter 為 ListRentals 的查詢條件；零值欄位不參與過濾
type RentalFilter struct {
	CustomerID uuid.UUID
	MovieID    uuid.UUID
	Open       *bool
}

func scanRental(row rowScanner, r *model.Rental) error {
	return row.Scan(&r.ID, &r.Customer, &r.Movie, &r.DateOut, &r.DateReturned, &r.RentalFee)
}

func ListRentals(ctx context.Context, db database.Querier, f RentalFilter) ([]model.Rental, error) {
	var (
		where []string
		args  []any
	)
	if f.CustomerID != uuid.Nil {
		args = append(args, f.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.MovieID != uuid.Nil {
		args = append(args, f.MovieID)
		where = append(where, fmt.Sprintf("movie_id = $%d", len(args)))
	}
	if f.Open != nil {
		if *f.Open {
			where = append(where, "date_returned IS NULL")
		} else {
			where = append(where, "date_returned IS NOT NULL")
		}
	}

	sql := `SELECT ` + rentalColumns + ` FROM rentals`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY date_out DESC`

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListRentals: %w", err)
	}
	defer rows.Close()

	rentals := []model.Rental{}
	for rows.Next() {
		var r model.Rental
		if err := scanRental(rows, &r); err != nil {
			return nil, fmt.Errorf("ListRentals: %w", err)
		}
		rentals = append(rentals, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRentals: %w", err)
	}
	return rentals, nil
}

// Checkout 在同一個交易內建立租借紀錄並扣庫存。
// 扣庫存以 number_in_stock >= 1 為條件，併發借出最後一片時只有一筆會成功。
func Checkout(ctx context.Context, db database.DB, customerID, movieID uuid.UUID, now time.Time) (*model.Rental, error) {
	ctx, span := tracer.Start(ctx, "store.Checkout")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("movie.id", movieID.String()),
	)

	var rental *model.Rental
	err := beginFunc(ctx, db, func(tx pgx.Tx) error {
		movie, err := GetMovieByID(ctx, tx, movieID)
		if errors.Is(err, ErrNotFound) {
			return ErrMovieNotFound
		}
		if err != nil {
			return err
		}
		customer, err := GetCustomerByID(ctx, tx, customerID)
		if errors.Is(err, ErrNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`UPDATE movies SET number_in_stock = number_in_stock - 1
			 WHERE id = $1 AND number_in_stock >= 1`,
			movieID,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrOutOfStock
		}

		r := &model.Rental{
			ID:       newID(),
			Customer: customer.Snapshot(),
			Movie:    movie.Snapshot(),
			DateOut:  now.UTC(),
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO rentals (id, customer_id, movie_id, customer, movie, date_out)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID,
			customerID,
			movieID,
			r.Customer,
			r.Movie,
			r.DateOut,
		); err != nil {
			return fmt.Errorf("insert rental: %w", err)
		}
		rental = r
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("Checkout: %w", err)
	}
	span.SetAttributes(attribute.String("rental.id", rental.ID.String()))
	return rental, nil
}

// lookupRental 優先取未歸還的紀錄並鎖定該列
func lookupRental(ctx context.Context, tx database.Querier, customerID, movieID uuid.UUID) (*model.Rental, error) {
	r := &model.Rental{}
	row := tx.QueryRow(ctx,
		`SELECT `+rentalColumns+` FROM rentals
		 WHERE customer_id = $1 AND movie_id = $2
		 ORDER BY date_returned IS NULL DESC, date_out DESC
		 LIMIT 1
		 FOR UPDATE`,
		customerID,
		movieID,
	)
	if err := scanRental(row, r); err != nil {
		return nil, wrapErr("lookupRental", err)
	}
	return r, nil
}

// Return 關閉租借紀錄、計算費用並補回庫存，整段在同一個交易內。
// 電影已被刪除時紀錄仍會關閉，補庫存不影響任何列。
func Return(ctx context.Context, db database.DB, customerID, movieID uuid.UUID, now time.Time) (*model.Rental, error) {
	ctx, span := tracer.Start(ctx, "store.Return")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("movie.id", movieID.String()),
	)

	var rental *model.Rental
	err := beginFunc(ctx, db, func(tx pgx.Tx) error {
		r, err := lookupRental(ctx, tx, customerID, movieID)
		if err != nil {
			return err
		}
		if !r.IsOpen() {
			return ErrAlreadyReturned
		}

		r.CheckIn(now.UTC())
		tag, err := tx.Exec(ctx,
			`UPDATE rentals SET date_returned = $1, rental_fee = $2
			 WHERE id = $3 AND date_returned IS NULL`,
			*r.DateReturned,
			*r.RentalFee,
			r.ID,
		)
		if err != nil {
			return fmt.Errorf("close rental: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyReturned
		}

		if _, err := tx.Exec(ctx,
			`UPDATE movies SET number_in_stock = number_in_stock + 1 WHERE id = $1`,
			movieID,
		); err != nil {
			return fmt.Errorf("increment stock: %w", err)
		}
		rental = r
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("Return: %w", err)
	}
	span.SetAttributes(attribute.Float64("rental.fee", *rental.RentalFee))
	return rental, nil
}
