package rest

import (
	"context"
	"errors"
	"net/http"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CustomerInvitationService interface {
		GetCustomerInvitations(ctx context.Context, customerID int64) ([]domain.NPSSurveyCustomer, error)
	}

	SubmissionService interface {
		GetSubmission(ctx context.Context, npsSurveyID string) (domain.SurveySubmission, error)
	}

	QuestionnaireService interface {
		GetAllQuestionnaires(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error)
		GetQuestionnaireByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error)
	}

	ReportHandler struct {
		validate             *validator.Validate
		invitationService    CustomerInvitationService
		submissionService    SubmissionService
		questionnaireService QuestionnaireService
		timeout              time.Duration
	}

	InvitationQuery struct {
		CustomerID int64 `query:"customer_id" validate:"required,gt=0"`
	}

	QuestionnairePath struct {
		SurveyID int `param:"id" validate:"required,gt=0"`
	}
)

func NewReportHandler(invitationService CustomerInvitationService, submissionService SubmissionService, questionnaireService QuestionnaireService) *ReportHandler {
	return &ReportHandler{
		validate:             validator.New(),
		invitationService:    invitationService,
		submissionService:    submissionService,
		questionnaireService: questionnaireService,
		timeout:              10 * time.Second,
	}
}

func (h *ReportHandler) GetCustomerInvitations(c echo.Context) error {
	var q InvitationQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	invitations, err := h.invitationService.GetCustomerInvitations(ctx, q.CustomerID)
	if err != nil {
		logger.Error("Failed to get customer invitations", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(invitations))
}

func (h *ReportHandler) GetSubmission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	submission, err := h.submissionService.GetSubmission(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "submission not found"})
		}
		logger.Error("Failed to get submission", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(submission))
}

func (h *ReportHandler) GetAllQuestionnaires(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	questionnaires, err := h.questionnaireService.GetAllQuestionnaires(ctx)
	if err != nil {
		logger.Error("Failed to find all questionnaires", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(questionnaires))
}

func (h *ReportHandler) GetQuestionnaireByID(c echo.Context) error {
	var p QuestionnairePath
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid survey id"})
	}
	if err := h.validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid survey id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	questionnaire, err := h.questionnaireService.GetQuestionnaireByID(ctx, p.SurveyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "questionnaire not found"})
		}
		logger.Error("Failed to find questionnaire", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(questionnaire))
}
