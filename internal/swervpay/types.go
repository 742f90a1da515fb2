package swervpay

import "encoding/json"

// Customer is a card-issuing customer on the provider side.
type Customer struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Country     string `json:"country"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// CustomerPage is a paginated customer listing.
type CustomerPage struct {
	Data  []Customer `json:"data"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int        `json:"total"`
}

// Card is an issued virtual or physical card.
type Card struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	MaskedPAN  string `json:"masked_pan"`
	Type       string `json:"type"`
	Currency   string `json:"currency"`
	Status     string `json:"status"`
	Balance    string `json:"balance"`
	CreatedAt  string `json:"created_at"`
}

// CardPage is a paginated card listing.
type CardPage struct {
	Data  []Card `json:"data"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int    `json:"total"`
}

// CardTransactionPage carries card transaction history. The entries are passed
// through to the app untouched.
type CardTransactionPage struct {
	Data  []json.RawMessage `json:"data"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
}

// BillCategory is a top-level bill-payment category (airtime, power, tv, ...).
type BillCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// BillCategoryList holds the billers available under one category.
type BillCategoryList struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []BillItem `json:"items"`
}

// BillItem is a payable product under a biller.
type BillItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BillerCode string `json:"biller_code"`
	Amount     string `json:"amount"`
	Fee        string `json:"fee"`
}

// BillCustomerValidation is the result of validating a customer against a biller.
type BillCustomerValidation struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	BillerCode   string `json:"biller_code"`
	Valid        bool   `json:"valid"`
}

// BillPayment is the provider record of a created bill payment.
type BillPayment struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}
