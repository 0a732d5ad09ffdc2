package domain

import "time"

// TypeformWebhook is the form_response event delivered by Typeform.
type TypeformWebhook struct {
	EventID      string                `json:"event_id"`
	EventType    string                `json:"event_type"`
	FormResponse *TypeformFormResponse `json:"form_response" validate:"required"`
}

type TypeformFormResponse struct {
	FormID      string           `json:"form_id" validate:"required"`
	Token       string           `json:"token"`
	LandedAt    *time.Time       `json:"landed_at,omitempty"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	Hidden      TypeformHidden   `json:"hidden"`
	Answers     []TypeformAnswer `json:"answers" validate:"dive"`
}

type TypeformHidden struct {
	CustomerID      string `json:"customer_id" validate:"required,numeric"`
	ProductCategory string `json:"product_category"`
	NPSSurveyID     string `json:"nps_survey_id"`
}

type TypeformField struct {
	ID   string `json:"id" validate:"required"`
	Type string `json:"type"`
	Ref  string `json:"ref"`
}

type TypeformChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Ref   string `json:"ref"`
	Other string `json:"other,omitempty"`
}

type TypeformChoices struct {
	IDs    []string `json:"ids"`
	Labels []string `json:"labels"`
	Refs   []string `json:"refs"`
	Other  string   `json:"other,omitempty"`
}

// TypeformAnswer carries its value under the key named by Type.
type TypeformAnswer struct {
	Type  string        `json:"type" validate:"required"`
	Field TypeformField `json:"field"`

	Text        *string          `json:"text,omitempty"`
	Email       *string          `json:"email,omitempty"`
	URL         *string          `json:"url,omitempty"`
	FileURL     *string          `json:"file_url,omitempty"`
	PhoneNumber *string          `json:"phone_number,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Number      *float64         `json:"number,omitempty"`
	Boolean     *bool            `json:"boolean,omitempty"`
	Choice      *TypeformChoice  `json:"choice,omitempty"`
	Choices     *TypeformChoices `json:"choices,omitempty"`
}
