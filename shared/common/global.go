package common

import (
	"fmt"
	"time"
)

// MillisecondsBuckets is the histogram bucket layout for timings measured in milliseconds.
var MillisecondsBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

func StatFmt(d time.Duration) string {
	return fmt.Sprintf("%d μs", int64(d/time.Microsecond))
}
