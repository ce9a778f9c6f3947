package store

import (
	"context"
	"fmt"

	"vidly/internal/database"
	"vidly/internal/model"

	"github.com/google/uuid"
)

const customerColumns = `id, name, phone, is_gold`

func scanCustomer(row rowScanner, c *model.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Phone, &c.IsGold)
}

func ListCustomers(ctx context.Context, db database.Querier) ([]model.Customer, error) {
	rows, err := db.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("ListCustomers: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCustomers: %w", err)
	}
	return customers, nil
}

func GetCustomerByID(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Customer, error) {
	c := &model.Customer{}
	row := db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err := scanCustomer(row, c); err != nil {
		return nil, wrapErr("GetCustomerByID", err)
	}
	return c, nil
}

func CreateCustomer(ctx context.Context, db database.Querier, c *model.Customer) (*model.Customer, error) {
	c.ID = newID()
	row := db.QueryRow(ctx,
		`INSERT INTO customers (id, name, phone, is_gold)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+customerColumns,
		c.ID,
		c.Name,
		c.Phone,
		c.IsGold,
	)
	if err := scanCustomer(row, c); err != nil {
		return nil, fmt.Errorf("CreateCustomer: %w", err)
	}
	return c, nil
}

func UpdateCustomer(ctx context.Context, db database.Querier, c *model.Customer) (*model.Customer, error) {
	out := &model.Customer{}
	row := db.QueryRow(ctx,
		`UPDATE customers SET name = $1, phone = $2, is_gold = $3
		 WHERE id = $4
		 RETURNING `+customerColumns,
		c.Name,
		c.Phone,
		c.IsGold,
		c.ID,
	)
	if err := scanCustomer(row, out); err != nil {
		return nil, wrapErr("UpdateCustomer", err)
	}
	return out, nil
}

func DeleteCustomer(ctx context.Context, db database.Querier, id uuid.UUID) (*model.Customer, error) {
	c := &model.Customer{}
	row := db.QueryRow(ctx, `DELETE FROM customers WHERE id = $1 RETURNING `+customerColumns, id)
	if err := scanCustomer(row, c); err != nil {
		return nil, wrapErr("DeleteCustomer", err)
	}
	return c, nil
}
