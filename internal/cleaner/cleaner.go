// Package cleaner validates raw transaction rows and normalizes the
// survivors into typed transactions. Bad rows are dropped and tallied,
// never fatal; only an input with no usable rows at all is an error.
package cleaner

import (
	"errors"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// ErrNoUsableRows indicates the input was empty or every row was dropped,
// so no snapshot date can be derived downstream.
var ErrNoUsableRows = errors.New("no usable transaction rows in input")

// DropReason classifies why a row was rejected.
type DropReason string

const (
	DropNone            DropReason = ""
	DropMissingCustomer DropReason = "missing_customer_id"
	DropCancellation    DropReason = "cancellation_invoice"
	DropBadQuantity     DropReason = "non_positive_quantity"
	DropBadPrice        DropReason = "negative_price"
	DropBadDate         DropReason = "unparsable_date"
)

// Report tallies the outcome of a cleaning pass.
type Report struct {
	Total   int
	Kept    int
	Dropped map[DropReason]int
}

// DroppedTotal returns the number of rows rejected for any reason.
func (r Report) DroppedTotal() int {
	return r.Total - r.Kept
}

// dateLayouts are tried in order. The retail export ships day-first
// timestamps; ISO forms are accepted for re-cleaned data.
var dateLayouts = []string{
	"2/1/2006 15:04",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// Clean validates rows and returns the surviving transactions in input
// order, plus a per-reason drop tally. Pure over the input. Returns
// ErrNoUsableRows when nothing survives.
func Clean(rows []model.RawRow) ([]model.Transaction, Report, error) {
	report := Report{Total: len(rows), Dropped: make(map[DropReason]int)}

	var cleaned []model.Transaction
	for _, row := range rows {
		txn, reason := CleanRow(row)
		if reason != DropNone {
			report.Dropped[reason]++
			continue
		}
		cleaned = append(cleaned, txn)
	}
	report.Kept = len(cleaned)

	if len(cleaned) == 0 {
		return nil, report, ErrNoUsableRows
	}
	return cleaned, report, nil
}

// CleanRow validates a single row. A non-empty DropReason means the row
// was rejected and the returned transaction is zero.
func CleanRow(row model.RawRow) (model.Transaction, DropReason) {
	if row.CustomerID == "" {
		return model.Transaction{}, DropMissingCustomer
	}
	if isCancellation(row.InvoiceID) {
		return model.Transaction{}, DropCancellation
	}

	qty, err := strconv.ParseInt(row.Quantity, 10, 64)
	if err != nil || qty <= 0 {
		return model.Transaction{}, DropBadQuantity
	}

	price, err := decimal.NewFromString(row.UnitPrice)
	if err != nil || price.IsNegative() {
		return model.Transaction{}, DropBadPrice
	}

	date, ok := parseDate(row.InvoiceDate)
	if !ok {
		return model.Transaction{}, DropBadDate
	}

	return model.Transaction{
		CustomerID:  row.CustomerID,
		InvoiceID:   row.InvoiceID,
		InvoiceDate: date,
		Quantity:    qty,
		UnitPrice:   price,
		LineTotal:   price.Mul(decimal.NewFromInt(qty)),
	}, DropNone
}

// isCancellation reports whether an invoice ID carries a credit-note
// prefix (a leading non-digit, "C539993" in the retail dataset).
func isCancellation(invoiceID string) bool {
	if invoiceID == "" {
		return false
	}
	c := invoiceID[0]
	return c < '0' || c > '9'
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
