package rfm

import (
	"fmt"
	"sort"

	"github.com/rfmkit-dev/rfmkit/internal/model"
)

// Score assigns each record ordinal R/F/M scores in [1, bins] via
// rank-based quantile binning, computed independently per metric.
//
// Binning is rank-based rather than value-based: records are stably
// sorted by metric value (original position breaks value ties in the
// sort), and a record's preliminary bin is rank*bins/n. Every record in
// a run of equal values then takes the bin of the run's first rank, so
// equal values always score equally and a metric with fewer distinct
// values than bins yields fewer effective tiers instead of failing.
//
// RScore is inverted: the smallest recency scores `bins`. Frequency and
// monetary score directly. The function is pure, so re-scoring the same
// population is idempotent.
func Score(records []model.CustomerRFM, bins int) ([]model.ScoredRFM, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bins must be >= 1, got %d", bins)
	}
	if len(records) == 0 {
		return nil, ErrNoTransactions
	}

	n := len(records)

	rBins := rankBins(n, bins,
		func(i, j int) bool { return records[i].Recency < records[j].Recency },
		func(i, j int) bool { return records[i].Recency == records[j].Recency })
	fBins := rankBins(n, bins,
		func(i, j int) bool { return records[i].Frequency < records[j].Frequency },
		func(i, j int) bool { return records[i].Frequency == records[j].Frequency })
	mBins := rankBins(n, bins,
		func(i, j int) bool { return records[i].Monetary.LessThan(records[j].Monetary) },
		func(i, j int) bool { return records[i].Monetary.Equal(records[j].Monetary) })

	scored := make([]model.ScoredRFM, n)
	for i, rec := range records {
		scored[i] = model.ScoredRFM{
			CustomerRFM: rec,
			RScore:      bins + 1 - rBins[i], // recent = good
			FScore:      fBins[i],
			MScore:      mBins[i],
		}
	}
	return scored, nil
}

// rankBins computes ascending quantile bins over n records compared by
// less/eq on original indexes. Result is indexed by original position;
// values are in [1, bins].
func rankBins(n, bins int, less, eq func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(order[a], order[b])
	})

	out := make([]int, n)
	for pos := 0; pos < n; {
		end := pos
		for end+1 < n && eq(order[end+1], order[pos]) {
			end++
		}
		bin := pos*bins/n + 1
		for k := pos; k <= end; k++ {
			out[order[k]] = bin
		}
		pos = end + 1
	}
	return out
}
