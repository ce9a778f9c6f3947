// Package store 以 SQL 實作各資料表的讀寫。handler 以 errors.Is 比對下列錯誤，
// 決定回應狀態碼。
package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound 指定的資料不存在 (404)
	ErrNotFound = errors.New("not found")
	// Checkout 用來區分缺的是哪一筆；兩者皆可用 errors.Is(err, ErrNotFound) 比對
	ErrMovieNotFound    = fmt.Errorf("movie %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	// ErrOutOfStock 電影庫存為 0，無法出租
	ErrOutOfStock = errors.New("movie not in stock")
	// ErrAlreadyReturned 租借紀錄已歸還
	ErrAlreadyReturned = errors.New("rental already returned")
	// ErrDuplicateEmail email 已被註冊
	ErrDuplicateEmail = errors.New("email already registered")
)

const uniqueViolation = "23505"

var newID = uuid.New

type rowScanner interface {
	Scan(dest ...any) error
}

func wrapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
