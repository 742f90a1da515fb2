package swervpay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// CreateCustomerInput captures the fields the provider requires for a customer.
type CreateCustomerInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
}

// CreateCustomer registers a card-issuing customer. Required fields are checked
// before any network call to save the round trip.
func (c *Client) CreateCustomer(ctx context.Context, input CreateCustomerInput) (Customer, error) {
	switch {
	case input.FirstName == "" || input.LastName == "":
		return Customer{}, apperr.Validation("first_name and last_name are required")
	case input.Email == "":
		return Customer{}, apperr.Validation("email is required")
	case input.PhoneNumber == "":
		return Customer{}, apperr.Validation("phone_number is required")
	case input.Country == "":
		return Customer{}, apperr.Validation("country is required")
	}

	var customer Customer
	if err := c.request(ctx, http.MethodPost, "/customers", input, &customer); err != nil {
		return Customer{}, err
	}
	if customer.ID == "" {
		return Customer{}, apperr.Upstream(http.StatusOK, "customer response missing id")
	}
	return customer, nil
}

// GetCustomer fetches a customer by provider id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (Customer, error) {
	if customerID == "" {
		return Customer{}, apperr.Validation("customer id is required")
	}
	var customer Customer
	err := c.request(ctx, http.MethodGet, "/customers/"+url.PathEscape(customerID), nil, &customer)
	return customer, err
}

// ListCustomers pages through the business's customers.
func (c *Client) ListCustomers(ctx context.Context, page, limit int) (CustomerPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	var result CustomerPage
	path := fmt.Sprintf("/customers?page=%d&limit=%d", page, limit)
	err := c.request(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

// UpdateCustomer applies a partial update to an existing customer.
func (c *Client) UpdateCustomer(ctx context.Context, customerID string, input CreateCustomerInput) (Customer, error) {
	if customerID == "" {
		return Customer{}, apperr.Validation("customer id is required")
	}
	var customer Customer
	err := c.request(ctx, http.MethodPost, "/customers/"+url.PathEscape(customerID), input, &customer)
	return customer, err
}

// CustomerKYC submits KYC documents for a customer. The payload shape is
// dictated by the provider and passed through untouched.
func (c *Client) CustomerKYC(ctx context.Context, customerID string, payload any) error {
	if customerID == "" {
		return apperr.Validation("customer id is required")
	}
	return c.request(ctx, http.MethodPost, "/customers/"+url.PathEscape(customerID)+"/kyc", payload, nil)
}
