package formatter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/mincpu/pkg/aws"
	"github.com/younsl/mincpu/pkg/report"
)

// FormatPercent renders a utilization value the way the report has always shown it:
// whole numbers keep one decimal place (2.0), other values print their shortest
// form (2.35), and very small or very large values switch to exponent form (1e-05)
func FormatPercent(v float64) string {
	exp := decimalExponent(v)
	if exp < -4 || exp >= 16 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatUtilization renders a window minimum. A window without samples prints
// the bare empty window value (0) so it never reads like a measured 0.0.
func FormatUtilization(v float64, noData bool) string {
	if noData {
		return strconv.FormatFloat(aws.EmptyWindowMinimum, 'f', -1, 64)
	}
	return FormatPercent(v)
}

// decimalExponent returns the base 10 exponent of v in scientific notation
func decimalExponent(v float64) int {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(s[strings.LastIndexByte(s, 'e')+1:])
	if err != nil {
		return 0
	}
	return exp
}

// printWindows prints the generation time and both window ranges
func printWindows(w io.Writer, r *report.Report) {
	fmt.Fprintf(w, "Report time: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	for _, window := range []report.Window{r.TwoWeeks, r.OneMonth} {
		fmt.Fprintf(w, "  %s: %s to %s (%s)\n",
			window.Label,
			window.Start.Format("2006-01-02 15:04"),
			window.End.Format("2006-01-02 15:04"),
			humanize.RelTime(window.Start, window.End, "long", ""),
		)
	}
}

// PrintScanDuration prints how long the scan took
func PrintScanDuration(w io.Writer, scanStartTime time.Time, scanDuration time.Duration) {
	fmt.Fprintf(w, "Scan completed at %s (took %.2fs)\n", scanStartTime.Format("2006-01-02 15:04:05"), scanDuration.Seconds())
}
