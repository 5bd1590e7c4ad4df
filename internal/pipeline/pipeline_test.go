package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfmkit-dev/rfmkit/internal/cleaner"
	"github.com/rfmkit-dev/rfmkit/internal/config"
	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// rawRow builds a valid raw row; tests mutate fields to break it.
func rawRow(customer, invoice, date, qty, price string) model.RawRow {
	return model.RawRow{
		CustomerID:  customer,
		InvoiceID:   invoice,
		InvoiceDate: date,
		Quantity:    qty,
		UnitPrice:   price,
	}
}

// fixtureRows builds 10 customers with spread-out behavior plus some junk
// rows. Customer C01 is the obvious champion: most recent, most frequent,
// biggest spender.
func fixtureRows() []model.RawRow {
	var rows []model.RawRow

	// C01: five invoices, latest on the snapshot-defining day.
	for i := 0; i < 5; i++ {
		rows = append(rows, rawRow("C01", fmt.Sprintf("9%03d", i),
			fmt.Sprintf("%d/12/2010 10:00", 5+i), "10", "100.00"))
	}
	// C02..C09: single invoice each, progressively older and cheaper.
	for i := 2; i <= 9; i++ {
		rows = append(rows, rawRow(fmt.Sprintf("C%02d", i), fmt.Sprintf("8%03d", i),
			fmt.Sprintf("%d/11/2010 10:00", 30-2*i), "1", fmt.Sprintf("%d.00", 100-10*i)))
	}
	// C10: ancient single cheap purchase.
	rows = append(rows, rawRow("C10", "7001", "5/1/2010 10:00", "1", "1.00"))

	// Junk that the cleaner must drop.
	rows = append(rows, rawRow("", "6001", "1/12/2010 10:00", "1", "5.00"))
	rows = append(rows, rawRow("C02", "C6002", "1/12/2010 10:00", "-1", "5.00"))
	rows = append(rows, rawRow("C03", "6003", "soon", "1", "5.00"))

	return rows
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := config.Default()
	res, err := Run(fixtureRows(), cfg, Options{})
	require.NoError(t, err)

	// 10 distinct customers survive, sorted by ID.
	require.Len(t, res.Scored, 10)
	require.Len(t, res.Assignments, 10)
	assert.Equal(t, "C01", res.Scored[0].CustomerID)
	assert.Equal(t, "C10", res.Scored[9].CustomerID)

	// Quality tally: 17 rows in, 14 kept.
	assert.Equal(t, 17, res.Quality.Total)
	assert.Equal(t, 14, res.Quality.Kept)
	assert.Equal(t, 1, res.Quality.Dropped[cleaner.DropMissingCustomer])
	assert.Equal(t, 1, res.Quality.Dropped[cleaner.DropCancellation])
	assert.Equal(t, 1, res.Quality.Dropped[cleaner.DropBadDate])

	// Snapshot is one day past the latest invoice (9/12/2010 10:00).
	assert.Equal(t, 10, res.Snapshot.Day())
	assert.Equal(t, 12, int(res.Snapshot.Month()))

	for i, s := range res.Scored {
		assert.GreaterOrEqual(t, s.Recency, 1)
		for _, score := range []int{s.RScore, s.FScore, s.MScore} {
			assert.GreaterOrEqual(t, score, 1)
			assert.LessOrEqual(t, score, cfg.Bins)
		}
		assert.Equal(t, s.CustomerID, res.Assignments[i].CustomerID)
		assert.NotEmpty(t, res.Assignments[i].Segment)
	}

	// Best on all three metrics: champion.
	best := res.Scored[0]
	assert.Equal(t, 5, best.RScore)
	assert.Equal(t, 5, best.FScore)
	assert.Equal(t, 5, best.MScore)
	assert.Equal(t, model.SegmentChampions, res.Assignments[0].Segment)

	// Worst on all three: lost.
	assert.Equal(t, model.SegmentLostCustomers, res.Assignments[9].Segment)
}

func TestRun_Deterministic(t *testing.T) {
	cfg := config.Default()
	first, err := Run(fixtureRows(), cfg, Options{})
	require.NoError(t, err)
	second, err := Run(fixtureRows(), cfg, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Scored, second.Scored)
	assert.Equal(t, first.Assignments, second.Assignments)
}

func TestRun_NoUsableRows(t *testing.T) {
	rows := []model.RawRow{
		rawRow("", "6001", "1/12/2010 10:00", "1", "5.00"),
	}
	_, err := Run(rows, config.Default(), Options{})
	assert.ErrorIs(t, err, cleaner.ErrNoUsableRows)
}

func TestRun_EmptyInput(t *testing.T) {
	_, err := Run(nil, config.Default(), Options{})
	assert.ErrorIs(t, err, cleaner.ErrNoUsableRows)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Bins = -1
	_, err := Run(fixtureRows(), cfg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestRun_SnapshotOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot = "2011-01-08"

	res, err := Run(fixtureRows(), cfg, Options{})
	require.NoError(t, err)

	// C01 last bought 9/12/2010; snapshot ref 2011-01-08 plus one day.
	assert.Equal(t, "C01", res.Scored[0].CustomerID)
	assert.Equal(t, 30, res.Scored[0].Recency)
}
