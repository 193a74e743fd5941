package formatter

import (
	"fmt"
	"io"

	"github.com/younsl/mincpu/internal/models"
)

const reportHeader = "Instance Report for Min CPU Utilization in All Regions:"

// PrintReportLines prints one line per record in discovery order
func PrintReportLines(w io.Writer, records []models.UtilizationRecord) {
	fmt.Fprintln(w, reportHeader)
	for _, record := range records {
		fmt.Fprintln(w, FormatRecordLine(record))
	}
}

// FormatRecordLine renders a record in the fixed single-line report format
func FormatRecordLine(record models.UtilizationRecord) string {
	return fmt.Sprintf("Region: %s, Instance Name: %s, Instance ID: %s, Instance Type: %s, "+
		"Min CPU Utilization (Last Two Weeks): %s%%, Min CPU Utilization (Last One Month): %s%%",
		record.Region,
		record.InstanceName,
		record.InstanceID,
		record.InstanceType,
		FormatUtilization(record.MinCPUTwoWeeks, record.NoDataTwoWeeks),
		FormatUtilization(record.MinCPUOneMonth, record.NoDataOneMonth),
	)
}
