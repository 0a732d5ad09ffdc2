package postgres

import (
	"context"
	"errors"
	"fmt"
	"npsSurvey/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyResponseRepository struct {
	DB *gorm.DB
}

func NewSurveyResponseRepository(db *gorm.DB) *SurveyResponseRepository {
	return &SurveyResponseRepository{
		DB: db,
	}
}

// SaveSubmission stores the primary response, its answers and whatever fill writes
// in one transaction. created is false when the event id was already stored; nothing
// is written and fill is not called then.
func (r *SurveyResponseRepository) SaveSubmission(ctx context.Context, primary *domain.NPSSurveyPrimaryResponse, answers []domain.NPSSurveyQuestionResponse, fill func(ctx context.Context) error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	created := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nps_survey_id"}},
			DoNothing: true,
		}).Create(primary)
		if res.Error != nil {
			return fmt.Errorf("failed to create primary response: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		if len(answers) > 0 {
			if err := tx.CreateInBatches(answers, 100).Error; err != nil {
				return fmt.Errorf("failed to create question responses: %w", err)
			}
		}

		if fill != nil {
			return fill(withTx(ctx, tx))
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return created, nil
}

func (r *SurveyResponseRepository) FindSubmission(ctx context.Context, npsSurveyID string) (domain.SurveySubmission, error) {
	if err := ctx.Err(); err != nil {
		return domain.SurveySubmission{}, fmt.Errorf("context error: %w", err)
	}

	var submission domain.SurveySubmission

	err := r.DB.WithContext(ctx).Where("nps_survey_id = ?", npsSurveyID).First(&submission.Primary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SurveySubmission{}, fmt.Errorf("submission %s: %w", npsSurveyID, domain.ErrNotFound)
		}
		return domain.SurveySubmission{}, fmt.Errorf("failed to find submission: %w", err)
	}

	err = r.DB.WithContext(ctx).
		Where("nps_survey_id = ?", npsSurveyID).
		Order("id").
		Find(&submission.Responses).Error
	if err != nil {
		return domain.SurveySubmission{}, fmt.Errorf("failed to find question responses: %w", err)
	}

	return submission, nil
}
