//go:build !integration

package invitation

import (
	"bytes"
	"encoding/csv"
	"testing"

	"npsSurvey/domain"
)

func TestWriteCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "order_id,customer_id,customer_phone,product_category,survey_type,survey_link\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCSV_Rows(t *testing.T) {
	invitations := []domain.SurveyInvitation{
		{
			OrderID:         1,
			CustomerID:      101,
			CustomerPhone:   "1234567890",
			ProductCategory: "lepa",
			SurveyType:      "V1",
			SurveyLink:      "https://nathabit.typeform.com/to/RVcdBbTG#customer_id=101&product_category=lepa&nps_survey_id=1",
		},
		{
			OrderID:         2,
			CustomerID:      102,
			CustomerPhone:   "0987654321",
			ProductCategory: "Hair, Oil",
			SurveyType:      "V2",
			SurveyLink:      "https://nathabit.typeform.com/to/bXFb9h7f#customer_id=102&product_category=Hair%2C+Oil&nps_survey_id=2",
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, invitations); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}

	first := records[1]
	if first[0] != "1" || first[1] != "101" || first[2] != "1234567890" || first[3] != "lepa" || first[4] != "V1" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if records[2][3] != "Hair, Oil" {
		t.Fatalf("expected quoted category to round trip, got %q", records[2][3])
	}
}
