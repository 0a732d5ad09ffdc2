package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"npsSurvey/business/invitation"
	"npsSurvey/business/response"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
	"time"

	"github.com/labstack/echo/v4"
)

const typeformSignatureHeader = "Typeform-Signature"

type (
	InvitationService interface {
		SendSurveys(ctx context.Context) ([]domain.SurveyInvitation, error)
	}

	ResponseService interface {
		ReceiveSurveyResponse(ctx context.Context, body []byte) (response.Result, error)
	}

	SurveyHandler struct {
		invitationService InvitationService
		responseService   ResponseService
		webhookSecret     string
		selectorTimeout   time.Duration
		webhookTimeout    time.Duration
	}
)

// NewSurveyHandler builds the selector and webhook handlers. An empty
// webhookSecret disables signature checks.
func NewSurveyHandler(invitationService InvitationService, responseService ResponseService, webhookSecret string) *SurveyHandler {
	return &SurveyHandler{
		invitationService: invitationService,
		responseService:   responseService,
		webhookSecret:     webhookSecret,
		selectorTimeout:   2 * time.Minute,
		webhookTimeout:    10 * time.Second,
	}
}

func (h *SurveyHandler) SendSurveys(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.selectorTimeout)
	defer cancel()

	invitations, err := h.invitationService.SendSurveys(ctx)
	if err != nil {
		if errors.Is(err, invitation.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to send surveys", err)
		return err
	}

	var buf bytes.Buffer
	if err := invitation.WriteCSV(&buf, invitations); err != nil {
		logger.Error("Failed to write survey csv", err)
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", invitation.CSVFilename))
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

// ReceiveSurveyResponse accepts every method so that non-POST requests get
// the provider-facing 400 body instead of a router 405.
func (h *SurveyHandler) ReceiveSurveyResponse(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.JSON(http.StatusBadRequest, typeformError{Error: "Invalid request"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		logger.Error("Failed to read webhook body", err)
		return c.JSON(http.StatusBadRequest, typeformError{Error: "Invalid request"})
	}

	if h.webhookSecret != "" && !validTypeformSignature(h.webhookSecret, c.Request().Header.Get(typeformSignatureHeader), body) {
		logger.Warn("Rejected webhook with invalid signature", "remote_ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, typeformError{Error: "Invalid signature"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.webhookTimeout)
	defer cancel()

	if _, err := h.responseService.ReceiveSurveyResponse(ctx, body); err != nil {
		if errors.Is(err, response.ErrMalformedPayload) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
		}
		logger.Error("Failed to receive survey response", err)
		return err
	}

	return c.JSON(http.StatusOK, typeformStatus{Status: "success"})
}
