// ABOUTME: CSV export of the flat report for downstream spreadsheet workflows
// ABOUTME: One row per keyword with cluster, label, intent, and cannibalization columns

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"serp-cluster-api/core/domain"
)

// csvHeader is the fixed column layout of the export.
var csvHeader = []string{
	"keyword",
	"location_code",
	"language_code",
	"cluster_id",
	"cluster_label",
	"intent",
	"cluster_size",
	"cannibalized",
	"primary_url",
	"fetch_status",
}

// WriteCSV streams the report rows as CSV.
func WriteCSV(w io.Writer, rep *domain.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.Keyword.Text,
			strconv.Itoa(row.Keyword.Locale.LocationCode),
			row.Keyword.Locale.LanguageCode,
			row.ClusterID,
			row.ClusterLabel,
			string(row.Intent),
			strconv.Itoa(row.ClusterSize),
			strconv.FormatBool(row.Cannibalized),
			row.PrimaryURL,
			string(row.Status),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for %q: %w", row.Keyword.Text, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
