package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one unvalidated input row, fields still in string form.
// The cleaner is the only consumer; everything downstream sees Transaction.
type RawRow struct {
	CustomerID  string
	InvoiceID   string
	InvoiceDate string
	Quantity    string
	UnitPrice   string
}

// Transaction is a validated retail line item.
type Transaction struct {
	CustomerID  string
	InvoiceID   string
	InvoiceDate time.Time
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal // Quantity × UnitPrice
}
