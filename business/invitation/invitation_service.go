package invitation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"npsSurvey/domain"
	"npsSurvey/pkg/logger"
	"npsSurvey/pkg/metrics"
	"time"

	"github.com/google/uuid"
)

const (
	runLockKey = "nps:selector:run"
	runLockTTL = 10 * time.Minute
)

var ErrRunInProgress = errors.New("survey selection run already in progress")

type OrdersRepository interface {
	FindDeliveredBetween(ctx context.Context, from, to time.Time) ([]domain.Order, error)
	FindItemCategories(ctx context.Context, orderID int64) ([]string, error)
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *domain.NPSSurveyCustomer) error
	CountSentSince(ctx context.Context, customerID int64, since time.Time) (int64, error)
	CountUnfilled(ctx context.Context, customerID int64) (int64, error)
	HasSurvey(ctx context.Context, customerID int64, surveyID int) (bool, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]domain.NPSSurveyCustomer, error)
}

// RunLocker guards a selector run against concurrent runs on other replicas.
type RunLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// Rules are the eligibility windows of a run.
type Rules struct {
	DeliveryLagDays    int
	CooldownDays       int
	MaxUnfilled        int
	ExcludedCategories []string
	Location           *time.Location
}

// Forms names the survey provider host and the form of each survey version.
type Forms struct {
	Host   string
	FormV1 string
	FormV2 string
}

type surveyVersion struct {
	surveyID   int
	formID     string
	surveyType string
}

type InvitationService struct {
	ordersRepo     OrdersRepository
	invitationRepo InvitationRepository
	locker         RunLocker
	rules          Rules
	forms          Forms
	excluded       map[string]struct{}
	now            func() time.Time
}

type Option func(*InvitationService)

func WithRunLocker(locker RunLocker) Option {
	return func(s *InvitationService) {
		s.locker = locker
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *InvitationService) {
		s.now = now
	}
}

func NewInvitationService(ordersRepo OrdersRepository, invitationRepo InvitationRepository, rules Rules, forms Forms, opts ...Option) *InvitationService {
	if rules.Location == nil {
		rules.Location = time.UTC
	}

	excluded := make(map[string]struct{}, len(rules.ExcludedCategories))
	for _, c := range rules.ExcludedCategories {
		excluded[c] = struct{}{}
	}

	s := &InvitationService{
		ordersRepo:     ordersRepo,
		invitationRepo: invitationRepo,
		rules:          rules,
		forms:          forms,
		excluded:       excluded,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SendSurveys invites every eligible customer whose order was delivered
// DeliveryLagDays ago and returns the invitations created by this run.
func (s *InvitationService) SendSurveys(ctx context.Context) ([]domain.SurveyInvitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, runLockKey, runLockTTL)
		if err != nil {
			logger.Error("Failed to acquire selector run lock", err)
			return nil, err
		}
		if !ok {
			logger.Warn("Selector run skipped, lock held")
			return nil, ErrRunInProgress
		}
		defer release()
	}

	started := time.Now()
	defer func() {
		metrics.SelectorRunDuration.Observe(time.Since(started).Seconds())
	}()

	now := s.now().In(s.rules.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.rules.Location)
	deliveryDay := today.AddDate(0, 0, -s.rules.DeliveryLagDays)
	cooldownStart := today.AddDate(0, 0, -s.rules.CooldownDays)

	orders, err := s.ordersRepo.FindDeliveredBetween(ctx, deliveryDay, deliveryDay.AddDate(0, 0, 1))
	if err != nil {
		logger.Error("Failed to find delivered orders", err)
		return nil, err
	}

	runID := uuid.NewString()
	logger.Info("Survey selection started",
		"run_id", runID,
		"delivery_date", deliveryDay.Format(time.DateOnly),
		"orders", len(orders),
	)

	invitations := make([]domain.SurveyInvitation, 0, len(orders))
	for _, order := range orders {
		created, err := s.inviteOrder(ctx, order, cooldownStart, now)
		invitations = append(invitations, created...)
		if err != nil {
			logger.Error("Survey selection aborted", "run_id", runID, "order_id", order.OrderID, "error", err)
			return invitations, err
		}
	}

	logger.Info("Survey selection finished", "run_id", runID, "invitations", len(invitations))

	return invitations, nil
}

func (s *InvitationService) inviteOrder(ctx context.Context, order domain.Order, cooldownStart, sentAt time.Time) ([]domain.SurveyInvitation, error) {
	categories, err := s.ordersRepo.FindItemCategories(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		if _, blocked := s.excluded[c]; blocked {
			metrics.OrdersExcluded.WithLabelValues("blocklist").Inc()
			return nil, nil
		}
	}

	recent, err := s.invitationRepo.CountSentSince(ctx, order.CustomerID, cooldownStart)
	if err != nil {
		return nil, err
	}
	if recent > 0 {
		metrics.OrdersExcluded.WithLabelValues("cooldown").Inc()
		return nil, nil
	}

	// counts every unfilled invitation ever sent, not a consecutive streak
	unfilled, err := s.invitationRepo.CountUnfilled(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	if unfilled >= int64(s.rules.MaxUnfilled) {
		metrics.OrdersExcluded.WithLabelValues("non_responder").Inc()
		return nil, nil
	}

	version, err := s.versionFor(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}

	invitations := make([]domain.SurveyInvitation, 0, len(categories))
	for _, category := range categories {
		record := domain.NPSSurveyCustomer{
			CustomerID:      order.CustomerID,
			CustomerMobile:  order.CustomerMobile,
			SentDate:        sentAt,
			ProductCategory: category,
			SurveyID:        version.surveyID,
			OrderID:         order.OrderID,
			UTMParameter:    fmt.Sprintf("utm=%d", order.CustomerID),
		}
		if err := s.invitationRepo.Create(ctx, &record); err != nil {
			return invitations, err
		}
		metrics.InvitationsCreated.WithLabelValues(version.surveyType).Inc()

		invitations = append(invitations, domain.SurveyInvitation{
			OrderID:         order.OrderID,
			CustomerID:      order.CustomerID,
			CustomerPhone:   order.CustomerMobile,
			ProductCategory: category,
			SurveyType:      version.surveyType,
			SurveyLink:      s.surveyLink(version.formID, record),
		})
	}

	return invitations, nil
}

// versionFor moves a customer who already got survey 1 on to survey 2.
// It is decided per order; nothing carries over to the next customer.
func (s *InvitationService) versionFor(ctx context.Context, customerID int64) (surveyVersion, error) {
	hadV1, err := s.invitationRepo.HasSurvey(ctx, customerID, domain.SurveyIDV1)
	if err != nil {
		return surveyVersion{}, err
	}

	if hadV1 {
		return surveyVersion{surveyID: domain.SurveyIDV2, formID: s.forms.FormV2, surveyType: domain.SurveyTypeV2}, nil
	}

	return surveyVersion{surveyID: domain.SurveyIDV1, formID: s.forms.FormV1, surveyType: domain.SurveyTypeV1}, nil
}

func (s *InvitationService) surveyLink(formID string, record domain.NPSSurveyCustomer) string {
	return fmt.Sprintf("https://%s/to/%s#customer_id=%d&product_category=%s&nps_survey_id=%d",
		s.forms.Host,
		formID,
		record.CustomerID,
		url.QueryEscape(record.ProductCategory),
		record.NPSSurveyID,
	)
}

func (s *InvitationService) GetCustomerInvitations(ctx context.Context, customerID int64) ([]domain.NPSSurveyCustomer, error) {
	if customerID <= 0 {
		logger.Error("Invalid customer id")
		return nil, errors.New("invalid customer id")
	}

	invitations, err := s.invitationRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		logger.Error("Failed to find customer invitations", err)
		return nil, err
	}

	return invitations, nil
}
