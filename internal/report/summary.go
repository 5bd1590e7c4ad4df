package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfmkit-dev/rfmkit/internal/model"
	"github.com/rfmkit-dev/rfmkit/internal/pipeline"
	"github.com/rfmkit-dev/rfmkit/internal/segment"
)

// Summary is the JSON run digest consumed by dashboards and humans.
type Summary struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Snapshot    string           `json:"snapshot_date"`
	Bins        int              `json:"bins"`
	Customers   int              `json:"customers"`
	Rows        RowStats         `json:"rows"`
	AvgScores   AvgScores        `json:"avg_scores"`
	Segments    []SegmentSummary `json:"segments"`
}

// RowStats reports input data quality.
type RowStats struct {
	Total   int            `json:"total"`
	Kept    int            `json:"kept"`
	Dropped map[string]int `json:"dropped"`
}

// AvgScores holds population-mean scores per metric.
type AvgScores struct {
	R float64 `json:"r"`
	F float64 `json:"f"`
	M float64 `json:"m"`
}

// SegmentSummary is one segment's slice of the customer base.
type SegmentSummary struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	Share          float64 `json:"share"` // fraction of customers, 0..1
	AvgMonetary    string  `json:"avg_monetary"`
	Recommendation string  `json:"recommendation"`
}

// BuildSummary condenses a pipeline result into a Summary, segments
// ordered largest first.
func BuildSummary(res *pipeline.Result) Summary {
	n := len(res.Scored)

	dropped := make(map[string]int, len(res.Quality.Dropped))
	for reason, count := range res.Quality.Dropped {
		dropped[string(reason)] = count
	}

	var rSum, fSum, mSum int
	counts := make(map[model.Segment]int)
	monetary := make(map[model.Segment]decimal.Decimal)
	for i, s := range res.Scored {
		rSum += s.RScore
		fSum += s.FScore
		mSum += s.MScore
		seg := res.Assignments[i].Segment
		counts[seg]++
		monetary[seg] = monetary[seg].Add(s.Monetary)
	}

	segments := make([]SegmentSummary, 0, len(counts))
	for seg, count := range counts {
		avg := monetary[seg].Div(decimal.NewFromInt(int64(count)))
		segments = append(segments, SegmentSummary{
			Name:           string(seg),
			Count:          count,
			Share:          float64(count) / float64(n),
			AvgMonetary:    avg.StringFixed(2),
			Recommendation: segment.Recommendation(seg),
		})
	}
	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Count != segments[j].Count {
			return segments[i].Count > segments[j].Count
		}
		return segments[i].Name < segments[j].Name
	})

	return Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Snapshot:    res.Snapshot.Format("2006-01-02"),
		Bins:        res.Bins,
		Customers:   n,
		Rows: RowStats{
			Total:   res.Quality.Total,
			Kept:    res.Quality.Kept,
			Dropped: dropped,
		},
		AvgScores: AvgScores{
			R: float64(rSum) / float64(n),
			F: float64(fSum) / float64(n),
			M: float64(mSum) / float64(n),
		},
		Segments: segments,
	}
}

// ExportJSON writes data as indented JSON, creating the directory if
// needed.
func ExportJSON(filename string, data any) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}

// TimestampedFilename builds a report path like dir/summary_20260823_150405.json.
func TimestampedFilename(dir, name string) string {
	t := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", name, t))
}
