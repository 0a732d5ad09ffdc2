package postgres

import (
	"context"
	"errors"
	"fmt"
	"npsSurvey/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SurveyCustomerRepository struct {
	DB *gorm.DB
}

func NewSurveyCustomerRepository(db *gorm.DB) *SurveyCustomerRepository {
	return &SurveyCustomerRepository{
		DB: db,
	}
}

func (r *SurveyCustomerRepository) Create(ctx context.Context, invitation *domain.NPSSurveyCustomer) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(invitation).Error; err != nil {
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

func (r *SurveyCustomerRepository) CountSentSince(ctx context.Context, customerID int64, since time.Time) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.NPSSurveyCustomer{}).
		Where("customer_id = ? AND sent_date >= ?", customerID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count recent invitations: %w", err)
	}

	return count, nil
}

func (r *SurveyCustomerRepository) CountUnfilled(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.NPSSurveyCustomer{}).
		Where("customer_id = ? AND survey_filled = ?", customerID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unfilled invitations: %w", err)
	}

	return count, nil
}

func (r *SurveyCustomerRepository) HasSurvey(ctx context.Context, customerID int64, surveyID int) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&domain.NPSSurveyCustomer{}).
		Where("customer_id = ? AND survey_id = ?", customerID, surveyID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check survey history: %w", err)
	}

	return count > 0, nil
}

// FindOldestUnfilled picks the first sent unfilled invitation for the triple and
// locks it when ctx carries a transaction.
func (r *SurveyCustomerRepository) FindOldestUnfilled(ctx context.Context, customerID int64, surveyID int, productCategory string) (domain.NPSSurveyCustomer, bool, error) {
	var invitation domain.NPSSurveyCustomer

	err := conn(ctx, r.DB).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND survey_id = ? AND product_category = ? AND survey_filled = ?",
			customerID, surveyID, productCategory, false).
		Order("sent_date ASC").
		Order("nps_survey_id ASC").
		First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NPSSurveyCustomer{}, false, nil
	}
	if err != nil {
		return domain.NPSSurveyCustomer{}, false, fmt.Errorf("failed to find invitation: %w", err)
	}

	return invitation, true, nil
}

// MarkFilled flips survey_filled once. A row already filled is not touched.
func (r *SurveyCustomerRepository) MarkFilled(ctx context.Context, npsSurveyID uint64) error {
	result := conn(ctx, r.DB).
		Model(&domain.NPSSurveyCustomer{}).
		Where("nps_survey_id = ? AND survey_filled = ?", npsSurveyID, false).
		Update("survey_filled", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark invitation filled: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("invitation %d: %w", npsSurveyID, domain.ErrNotFound)
	}

	return nil
}

func (r *SurveyCustomerRepository) FindByCustomer(ctx context.Context, customerID int64) ([]domain.NPSSurveyCustomer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var invitations []domain.NPSSurveyCustomer
	err := r.DB.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sent_date DESC").
		Find(&invitations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find invitations: %w", err)
	}

	return invitations, nil
}
