package invitation

import (
	"encoding/csv"
	"fmt"
	"io"
	"npsSurvey/domain"
	"strconv"
)

const CSVFilename = "survey_customers.csv"

var csvHeader = []string{
	"order_id",
	"customer_id",
	"customer_phone",
	"product_category",
	"survey_type",
	"survey_link",
}

// WriteCSV writes the header and one row per invitation. The header is always written.
func WriteCSV(w io.Writer, invitations []domain.SurveyInvitation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, inv := range invitations {
		row := []string{
			strconv.FormatInt(inv.OrderID, 10),
			strconv.FormatInt(inv.CustomerID, 10),
			inv.CustomerPhone,
			inv.ProductCategory,
			inv.SurveyType,
			inv.SurveyLink,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
