// Package rfm reduces cleaned transactions to per-customer
// recency/frequency/monetary metrics and scores them into ordinal tiers.
package rfm

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// ErrNoTransactions indicates aggregation was asked to run over an empty
// transaction set, so no snapshot date exists.
var ErrNoTransactions = errors.New("no transactions to aggregate")

// Aggregate groups transactions by customer and computes one RFM record
// per distinct customer ID, sorted by customer ID.
//
// The snapshot date is the caller-supplied reference (or, when nil, the
// latest invoice date in the set) plus one day, so the most recent buyer
// always has recency 1, never 0.
func Aggregate(txns []model.Transaction, reference *time.Time) ([]model.CustomerRFM, error) {
	snapshot, err := SnapshotDate(txns, reference)
	if err != nil {
		return nil, err
	}

	type group struct {
		last     time.Time
		invoices map[string]struct{}
		monetary decimal.Decimal
	}

	groups := make(map[string]*group)
	for _, t := range txns {
		g, ok := groups[t.CustomerID]
		if !ok {
			g = &group{last: t.InvoiceDate, invoices: make(map[string]struct{})}
			groups[t.CustomerID] = g
		}
		if t.InvoiceDate.After(g.last) {
			g.last = t.InvoiceDate
		}
		g.invoices[t.InvoiceID] = struct{}{}
		g.monetary = g.monetary.Add(t.LineTotal)
	}

	records := make([]model.CustomerRFM, 0, len(groups))
	for id, g := range groups {
		records = append(records, model.CustomerRFM{
			CustomerID: id,
			Recency:    daysBetween(g.last, snapshot),
			Frequency:  len(g.invoices),
			Monetary:   g.monetary,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CustomerID < records[j].CustomerID
	})
	return records, nil
}

// SnapshotDate returns the recency reference point: the caller-supplied
// reference (or the latest invoice date when nil) plus one day. A
// reference older than the data is rejected rather than producing
// non-positive recencies.
func SnapshotDate(txns []model.Transaction, reference *time.Time) (time.Time, error) {
	if len(txns) == 0 {
		return time.Time{}, ErrNoTransactions
	}

	maxDate := txns[0].InvoiceDate
	for _, t := range txns[1:] {
		if t.InvoiceDate.After(maxDate) {
			maxDate = t.InvoiceDate
		}
	}

	base := maxDate
	if reference != nil {
		if reference.Before(maxDate) {
			return time.Time{}, fmt.Errorf("snapshot reference %s precedes latest invoice %s",
				reference.Format("2006-01-02"), maxDate.Format("2006-01-02"))
		}
		base = *reference
	}
	return base.Add(24 * time.Hour), nil
}

// daysBetween returns whole days from a to b, truncated.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
