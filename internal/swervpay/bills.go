package swervpay

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

// BillCategories lists the top-level bill-payment categories.
func (c *Client) BillCategories(ctx context.Context) ([]BillCategory, error) {
	var result struct {
		Data []BillCategory `json:"data"`
	}
	if err := c.request(ctx, http.MethodGet, "/bills/categories", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// BillCategoryList fetches the billers available under one category.
func (c *Client) BillCategoryList(ctx context.Context, categoryID string) (BillCategoryList, error) {
	if categoryID == "" {
		return BillCategoryList{}, apperr.Validation("category id is required")
	}
	var result BillCategoryList
	err := c.request(ctx, http.MethodGet, "/bills/categories/"+url.PathEscape(categoryID), nil, &result)
	return result, err
}

// BillCategoryItem fetches one payable item, including amount and fee.
func (c *Client) BillCategoryItem(ctx context.Context, categoryID, itemID string) (BillItem, error) {
	if categoryID == "" || itemID == "" {
		return BillItem{}, apperr.Validation("category id and item id are required")
	}
	var result BillItem
	path := "/bills/categories/" + url.PathEscape(categoryID) + "/items/" + url.PathEscape(itemID)
	err := c.request(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

type validateBillCustomerRequest struct {
	BillerCode string `json:"biller_code"`
	CustomerID string `json:"customer_id"`
}

// ValidateBillCustomer checks a customer reference against a biller before payment.
func (c *Client) ValidateBillCustomer(ctx context.Context, billerCode, customerID string) (BillCustomerValidation, error) {
	if billerCode == "" || customerID == "" {
		return BillCustomerValidation{}, apperr.Validation("biller_code and customer_id are required")
	}
	var result BillCustomerValidation
	body := validateBillCustomerRequest{BillerCode: billerCode, CustomerID: customerID}
	err := c.request(ctx, http.MethodPost, "/bills/validate-customer", body, &result)
	return result, err
}

// BillPaymentInput captures a bill payment order.
type BillPaymentInput struct {
	Amount     int64          `json:"amount"`
	BillerCode string         `json:"biller_code"`
	CustomerID string         `json:"customer_id"`
	Reference  string         `json:"reference,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// CreateBillPayment submits a bill payment. A missing reference is defaulted so
// the provider sees a stable identifier per order.
func (c *Client) CreateBillPayment(ctx context.Context, input BillPaymentInput) (BillPayment, error) {
	switch {
	case input.Amount <= 0:
		return BillPayment{}, apperr.Validation("amount must be greater than zero")
	case input.BillerCode == "":
		return BillPayment{}, apperr.Validation("biller_code is required")
	case input.CustomerID == "":
		return BillPayment{}, apperr.Validation("customer_id is required")
	}
	if input.Reference == "" {
		input.Reference = "bill_" + uuid.NewString()
	}
	if input.Metadata == nil {
		input.Metadata = map[string]any{}
	}

	var result BillPayment
	if err := c.request(ctx, http.MethodPost, "/bills/create-bill", input, &result); err != nil {
		return BillPayment{}, err
	}
	return result, nil
}
