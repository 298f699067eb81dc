// Package voucher assigns period-scoped sequential identifiers of the form
// PREFIX-YY-MM-### to dated rows. Sequences restart per (year, month) bucket
// and follow ascending date order, stable on ties. Numbers are not unique
// across runs; there is no persisted counter.
package voucher

import (
	"fmt"
	"sort"
	"time"
)

// sentinelBucket collects rows whose date could not be parsed instead of
// failing the run.
const sentinelBucket = "00-00"

// Numbers returns one voucher number per input date, aligned by index with the
// input. The input order is untouched; only the sequence assignment follows
// date order.
func Numbers(dates []time.Time, prefix string) []string {
	order := make([]int, len(dates))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		return dates[order[a]].Before(dates[order[b]])
	})

	counters := make(map[string]int)
	out := make([]string, len(dates))

	for _, i := range order {
		b := bucket(dates[i])
		counters[b]++
		out[i] = fmt.Sprintf("%s-%s-%03d", prefix, b, counters[b])
	}

	return out
}

func bucket(d time.Time) string {
	if d.IsZero() {
		return sentinelBucket
	}

	return d.Format("06-01")
}
