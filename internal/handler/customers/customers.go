package customers

import (
	"errors"
	"fmt"
	"net/http"

	"vidly/internal/database"
	"vidly/internal/dto"
	"vidly/internal/handler"
	"vidly/internal/model"
	"vidly/internal/store"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	listCustomers   = store.ListCustomers
	getCustomerByID = store.GetCustomerByID
	createCustomer  = store.CreateCustomer
	updateCustomer  = store.UpdateCustomer
	deleteCustomer  = store.DeleteCustomer
)

func notFound(c echo.Context, id uuid.UUID) error {
	return handler.NotFound(c, fmt.Sprintf("Could not find customer with ID %s.", id))
}

func toCustomer(req dto.CustomerRequest) *model.Customer {
	return &model.Customer{Name: req.Name, Phone: req.Phone, IsGold: req.IsGold}
}

// ListCustomersHandler
// @Summary     List customers
// @Tags        customers
// @Produce     json
// @Success     200 {array}  model.Customer
// @Failure     401 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /customers [get]
func ListCustomersHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		customers, err := listCustomers(c.Request().Context(), db)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, customers)
	}
}

// GetCustomerHandler
// @Summary     Get a customer
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer ID"
// @Success     200 {object} model.Customer
// @Failure     400 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /customers/{id} [get]
func GetCustomerHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		cu, err := getCustomerByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cu)
	}
}

// CreateCustomerHandler isGold 未提供時為 false
// @Summary     Create a customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       body body     dto.CustomerRequest true "Customer"
// @Success     201  {object} model.Customer
// @Failure     400  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /customers [post]
func CreateCustomerHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CustomerRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		cu, err := createCustomer(c.Request().Context(), db, toCustomer(req))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, cu)
	}
}

// UpdateCustomerHandler
// @Summary     Update a customer
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       id   path     string              true "Customer ID"
// @Param       body body     dto.CustomerRequest true "Customer"
// @Success     200  {object} model.Customer
// @Failure     400  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /customers/{id} [put]
func UpdateCustomerHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		var req dto.CustomerRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		in := toCustomer(req)
		in.ID = id
		cu, err := updateCustomer(c.Request().Context(), db, in)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cu)
	}
}

// DeleteCustomerHandler 已存在的租借紀錄保留顧客複本
// @Summary     Delete a customer
// @Tags        customers
// @Produce     json
// @Param       id  path     string true "Customer ID"
// @Success     200 {object} model.Customer
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /customers/{id} [delete]
func DeleteCustomerHandler(db database.Querier) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}
		cu, err := deleteCustomer(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, cu)
	}
}
