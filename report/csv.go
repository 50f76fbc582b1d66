// Package report renders list results into download formats.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"assetflow/record"
)

// assetColumns pairs CSV headers with the document fields they read.
var assetColumns = []struct {
	header string
	field  string
}{
	{"Asset ID", "asset_id"},
	{"Name", "name"},
	{"Category", "category"},
	{"Status", "status"},
	{"Purchase Date", "purchase_date"},
	{"Purchase Value", "purchase_value"},
	{"Current Value", "current_value"},
	{"Serial Number", "serial_number"},
	{"Manufacturer", "manufacturer"},
	{"Warranty Expiry", "warranty_expiry"},
	{"Assigned To", "assigned_to_email"},
	{"Owner", "owner_email"},
	{"Location", "location"},
	{"Created Date", "created_date"},
}

// WriteAssetsCSV writes the given asset documents as CSV. Callers are
// expected to have applied visibility filtering already.
func WriteAssetsCSV(w io.Writer, assets []record.Document) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(assetColumns))
	for i, col := range assetColumns {
		header[i] = col.header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: write csv header: %w", err)
	}

	row := make([]string, len(assetColumns))
	for _, asset := range assets {
		for i, col := range assetColumns {
			row[i] = formatValue(asset[col.field])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatValue renders a document field for CSV output. JSON-decoded numbers
// arrive as float64; whole values print without a fractional part.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
