//go:build !integration

package rest

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"npsSurvey/business/invitation"
	"npsSurvey/business/response"
	"npsSurvey/domain"

	"github.com/labstack/echo/v4"
)

type fakeInvitationService struct {
	invitations []domain.SurveyInvitation
	err         error
}

func (f *fakeInvitationService) SendSurveys(ctx context.Context) ([]domain.SurveyInvitation, error) {
	return f.invitations, f.err
}

type fakeResponseService struct {
	calls    int
	lastBody string
	err      error
}

func (f *fakeResponseService) ReceiveSurveyResponse(ctx context.Context, body []byte) (response.Result, error) {
	f.calls++
	f.lastBody = string(body)
	return response.Result{}, f.err
}

func serve(h echo.HandlerFunc, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	return rec
}

func TestSendSurveys_ReturnsCSVAttachment(t *testing.T) {
	svc := &fakeInvitationService{invitations: []domain.SurveyInvitation{{
		OrderID:         1,
		CustomerID:      101,
		CustomerPhone:   "1234567890",
		ProductCategory: "lepa",
		SurveyType:      "V1",
		SurveyLink:      "https://nathabit.typeform.com/to/RVcdBbTG#customer_id=101&product_category=lepa&nps_survey_id=1",
	}}}
	h := NewSurveyHandler(svc, &fakeResponseService{}, "")

	rec := serve(h.SendSurveys, http.MethodGet, "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="survey_customers.csv"` {
		t.Fatalf("content disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", rec.Body.String())
	}
	if !strings.HasPrefix(lines[1], "1,101,1234567890,lepa,V1,https://") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestSendSurveys_EmptyRunIsStillOK(t *testing.T) {
	h := NewSurveyHandler(&fakeInvitationService{}, &fakeResponseService{}, "")

	rec := serve(h.SendSurveys, http.MethodGet, "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "order_id,customer_id,customer_phone,product_category,survey_type,survey_link" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestSendSurveys_Errors(t *testing.T) {
	h := NewSurveyHandler(&fakeInvitationService{err: invitation.ErrRunInProgress}, &fakeResponseService{}, "")
	if rec := serve(h.SendSurveys, http.MethodGet, "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	h = NewSurveyHandler(&fakeInvitationService{err: errors.New("db down")}, &fakeResponseService{}, "")
	if rec := serve(h.SendSurveys, http.MethodGet, "", nil); rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestReceiveSurveyResponse_Success(t *testing.T) {
	svc := &fakeResponseService{}
	h := NewSurveyHandler(&fakeInvitationService{}, svc, "")

	rec := serve(h.ReceiveSurveyResponse, http.MethodPost, `{"event_id":"abc"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not json: %v", err)
	}
	if body["status"] != "success" {
		t.Fatalf("body = %v", body)
	}
	if svc.calls != 1 || svc.lastBody != `{"event_id":"abc"}` {
		t.Fatalf("service got %d calls, body %q", svc.calls, svc.lastBody)
	}
}

func TestReceiveSurveyResponse_NonPostIsRejected(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			svc := &fakeResponseService{}
			h := NewSurveyHandler(&fakeInvitationService{}, svc, "")

			rec := serve(h.ReceiveSurveyResponse, method, "", nil)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if strings.TrimSpace(rec.Body.String()) != `{"error":"Invalid request"}` {
				t.Fatalf("body = %q", rec.Body.String())
			}
			if svc.calls != 0 {
				t.Fatal("service must not be called")
			}
		})
	}
}

func TestReceiveSurveyResponse_MalformedIs500(t *testing.T) {
	svc := &fakeResponseService{err: fmt.Errorf("%w: missing form_id", response.ErrMalformedPayload)}
	h := NewSurveyHandler(&fakeInvitationService{}, svc, "")

	rec := serve(h.ReceiveSurveyResponse, http.MethodPost, `{}`, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestReceiveSurveyResponse_Signature(t *testing.T) {
	const secret = "s3cret"
	body := `{"event_id":"abc"}`
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	good := "sha256=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid", header: good, wantCode: http.StatusOK},
		{name: "missing", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong", header: "sha256=AAAA", wantCode: http.StatusUnauthorized},
		{name: "no prefix", header: strings.TrimPrefix(good, "sha256="), wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeResponseService{}
			h := NewSurveyHandler(&fakeInvitationService{}, svc, secret)

			headers := map[string]string{}
			if tt.header != "" {
				headers[typeformSignatureHeader] = tt.header
			}
			rec := serve(h.ReceiveSurveyResponse, http.MethodPost, body, headers)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
