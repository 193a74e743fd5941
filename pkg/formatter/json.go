package formatter

import (
	"fmt"
	"io"
	"time"

	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/pkg/report"
	"github.com/younsl/mincpu/pkg/utils"
)

type jsonWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type jsonReport struct {
	GeneratedAt time.Time                  `json:"generatedAt"`
	TwoWeeks    jsonWindow                 `json:"twoWeeks"`
	OneMonth    jsonWindow                 `json:"oneMonth"`
	Regions     []string                   `json:"regions"`
	Records     []models.UtilizationRecord `json:"records"`
}

// PrintReportJSON writes the report as indented JSON
func PrintReportJSON(w io.Writer, r *report.Report) error {
	out, err := utils.FormatJSON(jsonReport{
		GeneratedAt: r.GeneratedAt,
		TwoWeeks:    jsonWindow{Start: r.TwoWeeks.Start, End: r.TwoWeeks.End},
		OneMonth:    jsonWindow{Start: r.OneMonth.Start, End: r.OneMonth.End},
		Regions:     r.Regions,
		Records:     r.Records,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, out)
	return err
}
