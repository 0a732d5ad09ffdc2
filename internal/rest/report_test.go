//go:build !integration

package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"npsSurvey/domain"

	"github.com/labstack/echo/v4"
)

type fakeReportServices struct {
	lastCustomer int64
}

func (f *fakeReportServices) GetCustomerInvitations(ctx context.Context, customerID int64) ([]domain.NPSSurveyCustomer, error) {
	f.lastCustomer = customerID
	return []domain.NPSSurveyCustomer{{NPSSurveyID: 1, CustomerID: customerID, ProductCategory: "lepa"}}, nil
}

func (f *fakeReportServices) GetSubmission(ctx context.Context, id string) (domain.SurveySubmission, error) {
	if id != "evt" {
		return domain.SurveySubmission{}, fmt.Errorf("submission %s: %w", id, domain.ErrNotFound)
	}
	return domain.SurveySubmission{Primary: domain.NPSSurveyPrimaryResponse{NPSSurveyID: "evt", CustomerID: 8}}, nil
}

func (f *fakeReportServices) GetAllQuestionnaires(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error) {
	return []domain.NPSSurveyQuestionnaire{{SurveyID: 1}, {SurveyID: 2}}, nil
}

func (f *fakeReportServices) GetQuestionnaireByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error) {
	if surveyID != 1 {
		return domain.NPSSurveyQuestionnaire{}, domain.ErrNotFound
	}
	return domain.NPSSurveyQuestionnaire{SurveyID: 1}, nil
}

func newReportServer(f *fakeReportServices) *echo.Echo {
	h := NewReportHandler(f, f, f)
	e := echo.New()
	api := e.Group("/api/v1/surveys")
	api.GET("/invitations", h.GetCustomerInvitations)
	api.GET("/responses/:id", h.GetSubmission)
	api.GET("/questionnaires", h.GetAllQuestionnaires)
	api.GET("/questionnaires/:id", h.GetQuestionnaireByID)
	return e
}

func TestReportHandler(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{name: "invitations for customer", target: "/api/v1/surveys/invitations?customer_id=101", wantCode: http.StatusOK, wantBody: `"product_category":"lepa"`},
		{name: "invitations without customer", target: "/api/v1/surveys/invitations", wantCode: http.StatusBadRequest},
		{name: "invitations with bad customer", target: "/api/v1/surveys/invitations?customer_id=abc", wantCode: http.StatusBadRequest},
		{name: "known submission", target: "/api/v1/surveys/responses/evt", wantCode: http.StatusOK, wantBody: `"nps_survey_id":"evt"`},
		{name: "unknown submission", target: "/api/v1/surveys/responses/nope", wantCode: http.StatusNotFound},
		{name: "all questionnaires", target: "/api/v1/surveys/questionnaires", wantCode: http.StatusOK, wantBody: `"survey_id":2`},
		{name: "one questionnaire", target: "/api/v1/surveys/questionnaires/1", wantCode: http.StatusOK, wantBody: `"survey_id":1`},
		{name: "missing questionnaire", target: "/api/v1/surveys/questionnaires/9", wantCode: http.StatusNotFound},
		{name: "invalid questionnaire id", target: "/api/v1/surveys/questionnaires/x", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeReportServices{}
			e := newReportServer(f)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantBody != "" && !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Fatalf("body %s does not contain %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
