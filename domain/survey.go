package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SurveyIDV1 = 1
	SurveyIDV2 = 2

	SurveyTypeV1 = "V1"
	SurveyTypeV2 = "V2"
)

// CREATE TABLE public.nps_survey_customers (
//     nps_survey_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     customer_id       BIGINT NOT NULL,
//     customer_mobile   VARCHAR(15),
//     sent_date         TIMESTAMPTZ NOT NULL,
//     product_category  VARCHAR(100),
//     survey_id         INT NOT NULL,
//     order_id          BIGINT NOT NULL,
//     utm_parameter     VARCHAR(100),
//     survey_filled     BOOLEAN DEFAULT FALSE
// );

// NPSSurveyCustomer is one invitation sent to a customer for one order category.
type NPSSurveyCustomer struct {
	NPSSurveyID     uint64    `json:"nps_survey_id" gorm:"column:nps_survey_id;primaryKey;autoIncrement"`
	CustomerID      int64     `json:"customer_id" gorm:"column:customer_id;not null;index"`
	CustomerMobile  string    `json:"customer_mobile" gorm:"column:customer_mobile;size:15"`
	SentDate        time.Time `json:"sent_date" gorm:"column:sent_date;not null"`
	ProductCategory string    `json:"product_category" gorm:"column:product_category;size:100"`
	SurveyID        int       `json:"survey_id" gorm:"column:survey_id;not null"`
	OrderID         int64     `json:"order_id" gorm:"column:order_id;not null"`
	UTMParameter    string    `json:"utm_parameter" gorm:"column:utm_parameter;size:100"`
	SurveyFilled    bool      `json:"survey_filled" gorm:"column:survey_filled;default:false"`
}

func (NPSSurveyCustomer) TableName() string {
	return "nps_survey_customers"
}

// CREATE TABLE public.nps_survey_primary_responses (
//     nps_survey_id       VARCHAR(50) PRIMARY KEY,
//     customer_id         BIGINT NOT NULL,
//     age                 VARCHAR(50),
//     gender              VARCHAR(50),
//     survey_filled_date  TIMESTAMPTZ,
//     payload             JSONB,
//     created_at          TIMESTAMPTZ DEFAULT NOW(),
//     updated_at          TIMESTAMPTZ DEFAULT NOW()
// );

// NPSSurveyPrimaryResponse holds the demographic part of a submission. The key is
// the provider's event id, not the invitation id.
type NPSSurveyPrimaryResponse struct {
	NPSSurveyID      string         `json:"nps_survey_id" gorm:"column:nps_survey_id;primaryKey;size:50"`
	CustomerID       int64          `json:"customer_id" gorm:"column:customer_id;not null"`
	Age              *string        `json:"age" gorm:"column:age;size:50"`
	Gender           *string        `json:"gender" gorm:"column:gender;size:50"`
	SurveyFilledDate *time.Time     `json:"survey_filled_date" gorm:"column:survey_filled_date"`
	Payload          datatypes.JSON `json:"-" gorm:"column:payload;type:jsonb"`
	CreatedAt        time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"column:updated_at"`
}

func (NPSSurveyPrimaryResponse) TableName() string {
	return "nps_survey_primary_responses"
}

// CREATE TABLE public.nps_survey_questionnaires (
//     survey_id         INT PRIMARY KEY,
//     product_category  VARCHAR(100)
// );

type NPSSurveyQuestionnaire struct {
	SurveyID        int    `json:"survey_id" gorm:"column:survey_id;primaryKey;autoIncrement:false"`
	ProductCategory string `json:"product_category" gorm:"column:product_category;size:100"`

	Questions []NPSSurveyQuestion `json:"questions,omitempty" gorm:"foreignKey:SurveyID;references:SurveyID"`
}

func (NPSSurveyQuestionnaire) TableName() string {
	return "nps_survey_questionnaires"
}

type NPSSurveyQuestion struct {
	ID                  uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	SurveyID            int    `json:"survey_id" gorm:"column:survey_id;not null;index"`
	QuestionID          string `json:"question_id" gorm:"column:question_id;size:50"`
	QuestionDescription string `json:"question_description" gorm:"column:question_description;size:255"`
}

func (NPSSurveyQuestion) TableName() string {
	return "nps_survey_questions"
}

// CREATE TABLE public.nps_survey_question_responses (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     nps_survey_id   VARCHAR(50) NOT NULL,
//     question_id     VARCHAR(50) NOT NULL,
//     response        TEXT
// );

type NPSSurveyQuestionResponse struct {
	ID          uint64  `json:"id" gorm:"primaryKey;autoIncrement"`
	NPSSurveyID string  `json:"nps_survey_id" gorm:"column:nps_survey_id;size:50;not null;index"`
	QuestionID  string  `json:"question_id" gorm:"column:question_id;size:50;not null"`
	Response    *string `json:"response" gorm:"column:response;type:text"`
}

func (NPSSurveyQuestionResponse) TableName() string {
	return "nps_survey_question_responses"
}

// SurveyInvitation is one CSV row of a selector run.
type SurveyInvitation struct {
	OrderID         int64  `json:"order_id"`
	CustomerID      int64  `json:"customer_id"`
	CustomerPhone   string `json:"customer_phone"`
	ProductCategory string `json:"product_category"`
	SurveyType      string `json:"survey_type"`
	SurveyLink      string `json:"survey_link"`
}

// SurveySubmission is a stored primary response with its answers.
type SurveySubmission struct {
	Primary   NPSSurveyPrimaryResponse    `json:"primary"`
	Responses []NPSSurveyQuestionResponse `json:"responses"`
}
