//go:build !integration

package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"npsSurvey/domain"
)

type fakeQuestionnaireRepo struct {
	items []domain.NPSSurveyQuestionnaire
}

func (f *fakeQuestionnaireRepo) FindAll(ctx context.Context) ([]domain.NPSSurveyQuestionnaire, error) {
	return f.items, nil
}

func (f *fakeQuestionnaireRepo) FindByID(ctx context.Context, surveyID int) (domain.NPSSurveyQuestionnaire, error) {
	for _, q := range f.items {
		if q.SurveyID == surveyID {
			return q, nil
		}
	}
	return domain.NPSSurveyQuestionnaire{}, fmt.Errorf("questionnaire %d: %w", surveyID, domain.ErrNotFound)
}

func TestQuestionnaireService(t *testing.T) {
	repo := &fakeQuestionnaireRepo{items: []domain.NPSSurveyQuestionnaire{
		{SurveyID: 1, ProductCategory: "all", Questions: []domain.NPSSurveyQuestion{{SurveyID: 1, QuestionID: "r7TMRukeAETP", QuestionDescription: "What is your age group?"}}},
		{SurveyID: 2, ProductCategory: "all"},
	}}
	svc := NewQuestionnaireService(repo)

	all, err := svc.GetAllQuestionnaires(context.Background())
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAllQuestionnaires = %d, %v", len(all), err)
	}

	q, err := svc.GetQuestionnaireByID(context.Background(), 1)
	if err != nil || len(q.Questions) != 1 {
		t.Fatalf("GetQuestionnaireByID(1) = %+v, %v", q, err)
	}

	if _, err := svc.GetQuestionnaireByID(context.Background(), 3); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.GetQuestionnaireByID(context.Background(), 0); err == nil {
		t.Fatal("expected error for invalid id")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GetAllQuestionnaires(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
