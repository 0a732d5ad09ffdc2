package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
	"npsSurvey/pkg/metrics"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

var ErrMalformedPayload = errors.New("malformed survey payload")

// ResponseRepository stores submissions. SaveSubmission calls fill inside the same
// transaction once the primary response is new; a fill error rolls everything back.
type ResponseRepository interface {
	SaveSubmission(ctx context.Context, primary *domain.NPSSurveyPrimaryResponse, answers []domain.NPSSurveyQuestionResponse, fill func(ctx context.Context) error) (bool, error)
	FindSubmission(ctx context.Context, npsSurveyID string) (domain.SurveySubmission, error)
}

type InvitationRepository interface {
	FindOldestUnfilled(ctx context.Context, customerID int64, surveyID int, productCategory string) (domain.NPSSurveyCustomer, bool, error)
	MarkFilled(ctx context.Context, npsSurveyID uint64) error
}

// FormFields maps the V1 form and its demographic questions. V2 fields are not mapped.
type FormFields struct {
	FormV1      string
	AgeField    string
	GenderField string
}

type Result struct {
	NPSSurveyID string
	SurveyID    int
	Duplicate   bool
	// FilledInvitation is 0 when no invitation matched.
	FilledInvitation uint64
}

type ResponseService struct {
	responseRepo   ResponseRepository
	invitationRepo InvitationRepository
	fields         FormFields
	validate       *validator.Validate
	now            func() time.Time
}

func NewResponseService(responseRepo ResponseRepository, invitationRepo InvitationRepository, fields FormFields) *ResponseService {
	return &ResponseService{
		responseRepo:   responseRepo,
		invitationRepo: invitationRepo,
		fields:         fields,
		validate:       validator.New(),
		now:            time.Now,
	}
}

// ReceiveSurveyResponse stores one Typeform submission and marks the matching
// invitation filled. Re-delivered events are reported as duplicates and not stored again.
func (s *ResponseService) ReceiveSurveyResponse(ctx context.Context, body []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context error: %w", err)
	}

	var payload domain.TypeformWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		return s.malformed(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}
	if err := s.validate.Struct(&payload); err != nil {
		return s.malformed(fmt.Errorf("%w: %v", ErrMalformedPayload, err))
	}

	form := payload.FormResponse
	customerID, err := strconv.ParseInt(form.Hidden.CustomerID, 10, 64)
	if err != nil {
		return s.malformed(fmt.Errorf("%w: customer_id %q", ErrMalformedPayload, form.Hidden.CustomerID))
	}

	submissionID := payload.EventID
	if submissionID == "" {
		submissionID = form.Hidden.NPSSurveyID
	}
	if submissionID == "" {
		return s.malformed(fmt.Errorf("%w: no event_id or nps_survey_id", ErrMalformedPayload))
	}

	answersByField := make(map[string]domain.TypeformAnswer, len(form.Answers))
	for _, a := range form.Answers {
		answersByField[a.Field.ID] = a
	}

	surveyID := domain.SurveyIDV2
	surveyType := domain.SurveyTypeV2
	var age, gender *string
	if form.FormID == s.fields.FormV1 {
		surveyID = domain.SurveyIDV1
		surveyType = domain.SurveyTypeV1
		age = choiceLabel(answersByField[s.fields.AgeField])
		gender = choiceLabel(answersByField[s.fields.GenderField])
	}

	filledAt := s.now()
	primary := domain.NPSSurveyPrimaryResponse{
		NPSSurveyID:      submissionID,
		CustomerID:       customerID,
		Age:              age,
		Gender:           gender,
		SurveyFilledDate: &filledAt,
		Payload:          datatypes.JSON(body),
	}

	answers := make([]domain.NPSSurveyQuestionResponse, 0, len(form.Answers))
	for _, a := range form.Answers {
		answers = append(answers, domain.NPSSurveyQuestionResponse{
			NPSSurveyID: submissionID,
			QuestionID:  a.Field.ID,
			Response:    answerValue(a),
		})
	}

	var filled uint64
	created, err := s.responseRepo.SaveSubmission(ctx, &primary, answers, func(ctx context.Context) error {
		id, err := s.fillInvitation(ctx, submissionID, customerID, surveyID, form.Hidden.ProductCategory)
		filled = id
		return err
	})
	if err != nil {
		logger.Error("Failed to save survey submission", "nps_survey_id", submissionID, "error", err)
		return Result{}, err
	}

	result := Result{NPSSurveyID: submissionID, SurveyID: surveyID}
	if !created {
		logger.Info("Duplicate survey submission ignored", "nps_survey_id", submissionID)
		metrics.ResponsesReceived.WithLabelValues(surveyType, "duplicate").Inc()
		result.Duplicate = true
		return result, nil
	}
	metrics.ResponsesReceived.WithLabelValues(surveyType, "stored").Inc()

	if filled != 0 {
		metrics.InvitationsFilled.Inc()
		result.FilledInvitation = filled
	}

	logger.Info("Survey submission stored",
		"nps_survey_id", submissionID,
		"customer_id", customerID,
		"invitation_id", filled,
	)

	return result, nil
}

// fillInvitation marks the oldest unfilled invitation of the triple filled. It runs
// inside the submission transaction, so an error here leaves nothing stored.
func (s *ResponseService) fillInvitation(ctx context.Context, submissionID string, customerID int64, surveyID int, productCategory string) (uint64, error) {
	invitation, found, err := s.invitationRepo.FindOldestUnfilled(ctx, customerID, surveyID, productCategory)
	if err != nil {
		return 0, fmt.Errorf("find invitation for submission %s: %w", submissionID, err)
	}
	if !found {
		logger.Warn("No unfilled invitation matches submission",
			"nps_survey_id", submissionID,
			"customer_id", customerID,
			"survey_id", surveyID,
			"product_category", productCategory,
		)
		return 0, nil
	}

	if err := s.invitationRepo.MarkFilled(ctx, invitation.NPSSurveyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Invitation already filled", "invitation_id", invitation.NPSSurveyID)
			return 0, nil
		}
		return 0, err
	}

	return invitation.NPSSurveyID, nil
}

func (s *ResponseService) GetSubmission(ctx context.Context, npsSurveyID string) (domain.SurveySubmission, error) {
	if strings.TrimSpace(npsSurveyID) == "" {
		return domain.SurveySubmission{}, errors.New("invalid nps survey id")
	}

	submission, err := s.responseRepo.FindSubmission(ctx, npsSurveyID)
	if err != nil {
		logger.Error("Failed to find submission", err)
		return domain.SurveySubmission{}, err
	}

	return submission, nil
}

func (s *ResponseService) malformed(err error) (Result, error) {
	logger.Warn("Rejected survey payload", err)
	metrics.ResponsesReceived.WithLabelValues("unknown", "malformed").Inc()
	return Result{}, err
}

func choiceLabel(a domain.TypeformAnswer) *string {
	if a.Choice == nil {
		return nil
	}

	label := a.Choice.Label
	if label == "" {
		label = a.Choice.Other
	}
	if label == "" {
		return nil
	}

	return &label
}

// answerValue renders an answer as stored text. Unknown types give nil.
func answerValue(a domain.TypeformAnswer) *string {
	switch a.Type {
	case "number":
		if a.Number == nil {
			return nil
		}
		v := strconv.FormatFloat(*a.Number, 'f', -1, 64)
		return &v
	case "text":
		return a.Text
	case "email":
		return a.Email
	case "url":
		return a.URL
	case "file_url":
		return a.FileURL
	case "phone_number":
		return a.PhoneNumber
	case "date":
		return a.Date
	case "boolean":
		if a.Boolean == nil {
			return nil
		}
		v := strconv.FormatBool(*a.Boolean)
		return &v
	case "choice":
		return choiceLabel(a)
	case "choices":
		if a.Choices == nil {
			return nil
		}
		labels := append([]string{}, a.Choices.Labels...)
		if a.Choices.Other != "" {
			labels = append(labels, a.Choices.Other)
		}
		if len(labels) == 0 {
			return nil
		}
		v := strings.Join(labels, ", ")
		return &v
	default:
		return nil
	}
}
