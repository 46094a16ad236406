package report

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/vk/fibbench/internal/bench"
)

// WriteSummary prints the measurements fastest first, each with its slowdown
// relative to the fastest case.
func WriteSummary(w io.Writer, ms []bench.Measurement) error {
	if len(ms) == 0 {
		return nil
	}
	sorted := make([]bench.Measurement, len(ms))
	copy(sorted, ms)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Elapsed < sorted[j].Elapsed })

	fastest := sorted[0].Elapsed
	if _, err := fmt.Fprintf(w, "\nsummary (n=%d)\n", sorted[0].N); err != nil {
		return err
	}
	for i, m := range sorted {
		_, err := fmt.Fprintf(w, "%2d. %-24s %20s  %-28s %s\n",
			i+1, m.Name, humanize.BigComma(new(big.Int).SetUint64(m.Result)), humanDuration(m.Elapsed), ratio(m.Elapsed, fastest))
		if err != nil {
			return err
		}
	}
	return nil
}

// humanDuration renders d with durafmt, falling back to the raw nanosecond
// count below a microsecond where durafmt has nothing to show.
func humanDuration(d time.Duration) string {
	if d < time.Microsecond {
		return fmt.Sprintf("%d nanoseconds", d.Nanoseconds())
	}
	return durafmt.Parse(d).LimitFirstN(2).String()
}

func ratio(d, fastest time.Duration) string {
	if fastest <= 0 {
		return "-"
	}
	return fmt.Sprintf("x%.2f", float64(d)/float64(fastest))
}
