package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/pkg/report"
)

// maxNameWidth keeps long Name tags from stretching the table
const maxNameWidth = 40

// PrintReportTable prints a formatted table of utilization records
func PrintReportTable(w io.Writer, r *report.Report, withPricing bool) {
	if len(r.Records) == 0 {
		fmt.Fprintln(w, "No running instances found.")
		return
	}

	// kubectl 스타일 tabwriter 설정
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	printWindows(tw, r)

	// Print header
	header := "REGION\tINSTANCE ID\tNAME\tTYPE\tMIN CPU (14D)\tMIN CPU (30D)\tLAUNCHED"
	if withPricing {
		header += "\tCOST/MO\tPRICING"
	}
	fmt.Fprintln(tw, header)

	// Print each record
	for _, record := range r.Records {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s%%\t%s%%\t%s",
			record.Region,
			record.InstanceID,
			TruncateToWidth(record.InstanceName, maxNameWidth),
			record.InstanceType,
			FormatUtilization(record.MinCPUTwoWeeks, record.NoDataTwoWeeks),
			FormatUtilization(record.MinCPUOneMonth, record.NoDataOneMonth),
			formatLaunched(record, r),
		)
		if withPricing {
			row += fmt.Sprintf("\t%s\t%s", formatMonthlyCost(record), GetPricingMarker(record.PricingSource))
		}
		fmt.Fprintln(tw, row)
	}

	printTotals(tw, r.Records, withPricing)

	tw.Flush()
}

// formatLaunched shows how long before the report the instance started.
// Instances launched inside a window are marked with the shortest window they fall in.
func formatLaunched(record models.UtilizationRecord, r *report.Report) string {
	if record.LaunchTime == nil {
		return "-"
	}
	launched := humanize.RelTime(*record.LaunchTime, r.GeneratedAt, "ago", "from now")
	switch {
	case record.LaunchTime.After(r.TwoWeeks.Start):
		return launched + " (<14d)"
	case record.LaunchTime.After(r.OneMonth.Start):
		return launched + " (<30d)"
	}
	return launched
}

// formatMonthlyCost formats the monthly cost with 2 decimal places
func formatMonthlyCost(record models.UtilizationRecord) string {
	if record.PricingSource == "N/A" {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", record.EstimatedMonthlyCost)
}

// printTotals prints the summary information at the bottom of the table
func printTotals(w io.Writer, records []models.UtilizationRecord, withPricing bool) {
	if !withPricing {
		fmt.Fprintf(w, "Total:\t%s instances\n", humanize.Comma(int64(len(records))))
		return
	}

	var totalMonthlyCost float64
	for _, record := range records {
		totalMonthlyCost += record.EstimatedMonthlyCost
	}

	// Print summary with kubernetes style alignment
	fmt.Fprintf(w, "Total:\t%s instances\t\t\t\t\t\t$%s\n",
		humanize.Comma(int64(len(records))),
		humanize.CommafWithDigits(totalMonthlyCost, 2),
	)
}

// PrintReportSummary displays instance counts per region and utilization band
func PrintReportSummary(w io.Writer, r *report.Report) {
	if len(r.Records) == 0 {
		return
	}

	perRegion := make(map[string]int)
	for _, record := range r.Records {
		perRegion[record.Region]++
	}

	fmt.Fprintln(w, "\n## Running Instances by Region")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tINSTANCE COUNT")

	// Regions in scan order; regions without instances are left out
	for _, region := range r.Regions {
		if count := perRegion[region]; count > 0 {
			fmt.Fprintf(tw, "%s\t%d\n", region, count)
		}
	}
	tw.Flush()

	// Classify by lowest CPU seen in the last month
	keys := []string{"No data / 0%", "Under 5%", "5-20%", "20-50%", "Over 50%"}
	bands := make(map[string]int, len(keys))
	for _, record := range r.Records {
		v := record.MinCPUOneMonth
		switch {
		case record.NoDataOneMonth || v <= 0:
			bands[keys[0]]++
		case v < 5:
			bands[keys[1]]++
		case v < 20:
			bands[keys[2]]++
		case v < 50:
			bands[keys[3]]++
		default:
			bands[keys[4]]++
		}
	}

	fmt.Fprintln(w, "\n## Min CPU Utilization (Last One Month)")

	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "MIN CPU\tINSTANCE COUNT")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%d\n", key, bands[key])
	}
	tw.Flush()
}

// GetPricingMarker returns a suitable marker for the pricing source
func GetPricingMarker(source string) string {
	switch source {
	case "API":
		return "API"
	case "Cache":
		return "CACHE"
	case "N/A":
		return "N/A"
	default:
		return "-"
	}
}
