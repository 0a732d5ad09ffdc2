package postgres

import (
	"context"
	"errors"
	"fmt"
	"npsSurvey/domain"

	"gorm.io/gorm"
)

type QuestionnaireRepository struct {
	DB *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{
		DB: db,
	}
}

func (r *QuestionnaireRepository) FindAll(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var questionnaires []domain.NPSSurveyQuestionnaire
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Order("survey_id").
		Find(&questionnaires).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find questionnaires: %w", err)
	}

	return questionnaires, nil
}

func (r *QuestionnaireRepository) FindByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error) {
	if err := ctx.Err(); err != nil {
		return domain.NPSSurveyQuestionnaire{}, fmt.Errorf("context error: %w", err)
	}

	var questionnaire domain.NPSSurveyQuestionnaire
	err := r.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Where("survey_id = ?", surveyID).
		First(&questionnaire).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NPSSurveyQuestionnaire{}, fmt.Errorf("questionnaire %d: %w", surveyID, domain.ErrNotFound)
		}
		return domain.NPSSurveyQuestionnaire{}, fmt.Errorf("failed to find questionnaire: %w", err)
	}

	return questionnaire, nil
}
