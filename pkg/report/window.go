package report

import (
	"time"

	"github.com/younsl/mincpu/pkg/utils"
)

// Window lengths, in fixed 24h days regardless of calendar month boundaries
var (
	TwoWeeks = utils.Days(14)
	OneMonth = utils.Days(30)
)

// Window is a trailing time interval ending at report generation time
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// NewWindow returns the window of the given length ending at end
func NewWindow(label string, length time.Duration, end time.Time) Window {
	return Window{
		Label: label,
		Start: end.Add(-length),
		End:   end,
	}
}

// Length returns the duration the window covers
func (w Window) Length() time.Duration {
	return w.End.Sub(w.Start)
}

// StandardWindows returns the two-week and one-month windows anchored at the same end
func StandardWindows(now time.Time) (Window, Window) {
	return NewWindow("Last Two Weeks", TwoWeeks, now), NewWindow("Last One Month", OneMonth, now)
}
