package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"assetflow/record"
)

func TestWriteAssetsCSV(t *testing.T) {
	assets := []record.Document{
		{
			"asset_id":          "AST-001",
			"name":              "MacBook Pro, 16\"",
			"category":          "electronics",
			"status":            "assigned",
			"purchase_value":    float64(2500),
			"current_value":     1875.5,
			"assigned_to_email": "user@org.com",
			"created_date":      "2025-01-15T10:00:00Z",
		},
		{
			"asset_id": "AST-002",
			"name":     "Standing Desk",
		},
	}

	var buf bytes.Buffer
	if err := WriteAssetsCSV(&buf, assets); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	header := rows[0]
	if header[0] != "Asset ID" || header[len(header)-1] != "Created Date" {
		t.Fatalf("unexpected header %v", header)
	}

	first := rows[1]
	if first[0] != "AST-001" {
		t.Fatalf("expected asset id in first column, got %q", first[0])
	}
	if first[1] != "MacBook Pro, 16\"" {
		t.Fatalf("quoting broke the name column: %q", first[1])
	}
	if first[5] != "2500" {
		t.Fatalf("whole number should print without fraction, got %q", first[5])
	}
	if first[6] != "1875.5" {
		t.Fatalf("fractional number mangled: %q", first[6])
	}

	second := rows[2]
	if second[0] != "AST-002" {
		t.Fatalf("expected AST-002, got %q", second[0])
	}
	for i := 2; i < len(second); i++ {
		if second[i] != "" {
			t.Fatalf("missing fields should render empty, column %d = %q", i, second[i])
		}
	}
}

func TestWriteAssetsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAssetsCSV(&buf, nil); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
