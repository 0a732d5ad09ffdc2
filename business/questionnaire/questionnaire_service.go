package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
)

// QuestionnaireRepository contract interface
type QuestionnaireRepository interface {
	FindAll(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error)
	FindByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error)
}

type questionnaireService struct {
	questionnaireRepo QuestionnaireRepository
}

func NewQuestionnaireService(questionnaireRepo QuestionnaireRepository) *questionnaireService {
	return &questionnaireService{
		questionnaireRepo: questionnaireRepo,
	}
}

func (s *questionnaireService) GetAllQuestionnaires(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all questionnaires")
		return nil, fmt.Errorf("context error: %w", err)
	}

	questionnaires, err := s.questionnaireRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all questionnaires", err)
		return nil, err
	}

	return questionnaires, nil
}

func (s *questionnaireService) GetQuestionnaireByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get questionnaire by id")
		return domain.NPSSurveyQuestionnaire{}, fmt.Errorf("context error: %w", err)
	}

	if surveyID <= 0 {
		logger.Error("Invalid survey id")
		return domain.NPSSurveyQuestionnaire{}, errors.New("invalid survey id")
	}

	questionnaire, err := s.questionnaireRepo.FindByID(ctx, surveyID)
	if err != nil {
		logger.Error("Failed to find questionnaire", err)
		return domain.NPSSurveyQuestionnaire{}, err
	}

	return questionnaire, nil
}
