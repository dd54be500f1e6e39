package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
	"eventhub/pkg/rbac"
)

// TokenIssuer mints one-click decision tokens for approval emails.
type TokenIssuer interface {
	Issue(ctx context.Context, eventID, userID int64, decisionType string, ttl time.Duration) (string, error)
}

// CateringService drives the two orthogonal state machines on the
// catering record: the approval axis and the payment axis.
type CateringService struct {
	events   EventStore
	catering CateringStore
	users    UserStore
	tokens   TokenIssuer
	notifier *Notifier
	recorder EventRecorder
	logger   *zap.Logger
	baseURL  string
}

func NewCateringService(
	events EventStore,
	catering CateringStore,
	users UserStore,
	tokens TokenIssuer,
	notifier *Notifier,
	recorder EventRecorder,
	baseURL string,
	logger *zap.Logger,
) *CateringService {
	return &CateringService{
		events:   events,
		catering: catering,
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		recorder: recorder,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Submit moves the catering request into AWAITING_APPROVAL and notifies
// every financial approver with one-click decision links. A resubmission
// out of CHANGES_REQUESTED bumps the revision count by exactly one.
func (s *CateringService) Submit(ctx context.Context, actor Actor, eventID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	approval, err := s.catering.Get(ctx, eventID)
	if err != nil {
		return fmt.Errorf("no catering request found: %w", err)
	}

	now := time.Now()
	if approval.Status == model.CateringChangesRequested {
		approval.RevisionCount++
	}
	approval.Status = model.CateringAwaitingApproval
	approval.SubmittedAt = &now

	if err := s.catering.Save(ctx, approval); err != nil {
		return err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	s.notifyApprovers(ctx, event)
	s.record(ctx, eventID, "catering.submitted", map[string]any{
		"event_id": eventID,
		"revision": approval.RevisionCount,
	})

	s.logger.Info("Catering submitted for approval",
		zap.Int64("event_id", eventID),
		zap.Int("revision_count", approval.RevisionCount),
	)
	return nil
}

// Decide applies an approval-axis decision as an in-app action. Only
// actors with the financial-approval capability may decide.
func (s *CateringService) Decide(ctx context.Context, actor Actor, eventID int64, decision string, changeNotes string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !rbac.HasCapability(actor.Role, rbac.CapDecideApproval) {
		return ErrUnauthorized
	}
	return s.applyDecision(ctx, actor.ID, eventID, decision, changeNotes)
}

// ApplyTokenDecision applies a decision on behalf of the actor bound to
// a resolved action token. The capability check already happened at
// issue time, when the token was mailed to a financial approver. Tokens
// carry a decision kind (APPROVE), not a status (APPROVED), so the kind
// is translated here before it hits the state machine.
func (s *CateringService) ApplyTokenDecision(ctx context.Context, deciderID, eventID int64, tokenType string) error {
	decision, ok := model.DecisionForTokenType(tokenType)
	if !ok {
		return fmt.Errorf("%w: unknown token type %q", ErrInvalidState, tokenType)
	}
	return s.applyDecision(ctx, deciderID, eventID, decision, "")
}

func (s *CateringService) applyDecision(ctx context.Context, deciderID, eventID int64, decision string, changeNotes string) error {
	switch decision {
	case model.CateringApproved, model.CateringRejected, model.CateringChangesRequested:
	default:
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidState, decision)
	}

	approval, err := s.catering.Get(ctx, eventID)
	if err != nil {
		return err
	}

	now := time.Now()
	approval.Status = decision
	approval.DecidedAt = &now
	approval.DecidedByID = &deciderID
	if decision == model.CateringChangesRequested && changeNotes != "" {
		approval.ChangeNotes = &changeNotes
	} else {
		approval.ChangeNotes = nil
	}

	// Approving always raises a payment request: the payment axis may
	// leave PENDING because the approval axis is now APPROVED.
	if decision == model.CateringApproved && approval.PaymentStatus == model.PaymentPending {
		approval.PaymentStatus = model.PaymentRequested
	}

	if err := s.catering.Save(ctx, approval); err != nil {
		return err
	}

	s.logger.Info("Catering decision applied",
		zap.Int64("event_id", eventID),
		zap.String("decision", decision),
		zap.Int64("decided_by", deciderID),
	)

	if decision == model.CateringApproved {
		event, err := s.events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		s.notifyPaymentAdmins(ctx, event)
		s.record(ctx, eventID, "catering.approved", map[string]any{
			"event_id":   eventID,
			"decided_by": deciderID,
		})
		s.record(ctx, eventID, "catering.payment_requested", map[string]any{
			"event_id": eventID,
		})
	} else {
		s.record(ctx, eventID, "catering.decided", map[string]any{
			"event_id":   eventID,
			"decision":   decision,
			"decided_by": deciderID,
		})
	}
	return nil
}

// UpdateCateringParams carries the mutable detail fields. Nil pointers
// leave the stored value untouched.
type UpdateCateringParams struct {
	Vendor        *string
	EstimatedCost *float64
	ActualCost    *float64
	MenuDetails   *string
	DietaryNotes  *string
	Headcount     *int
	OrderLink     *string
	InvoiceURL    *string
	InvoiceImgURL *string
}

// UpdateDetails edits the free-form catering fields. Typically used by
// the champion while in DRAFT or CHANGES_REQUESTED.
func (s *CateringService) UpdateDetails(ctx context.Context, actor Actor, eventID int64, params UpdateCateringParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	approval, err := s.catering.Get(ctx, eventID)
	if err != nil {
		return err
	}

	if params.Vendor != nil {
		approval.Vendor = params.Vendor
	}
	if params.EstimatedCost != nil {
		approval.EstimatedCost = params.EstimatedCost
	}
	if params.ActualCost != nil {
		approval.ActualCost = params.ActualCost
	}
	if params.MenuDetails != nil {
		approval.MenuDetails = params.MenuDetails
	}
	if params.DietaryNotes != nil {
		approval.DietaryNotes = params.DietaryNotes
	}
	if params.Headcount != nil {
		approval.Headcount = params.Headcount
	}
	if params.OrderLink != nil {
		approval.OrderLink = params.OrderLink
	}
	if params.InvoiceURL != nil {
		approval.InvoiceURL = params.InvoiceURL
	}
	if params.InvoiceImgURL != nil {
		approval.InvoiceImgURL = params.InvoiceImgURL
	}

	return s.catering.Save(ctx, approval)
}

// RequestPayment explicitly raises the payment request. Gated on the
// cross-axis invariant: only an APPROVED record may leave PENDING.
func (s *CateringService) RequestPayment(ctx context.Context, actor Actor, eventID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	approval, err := s.catering.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if approval.Status != model.CateringApproved {
		return fmt.Errorf("%w: payment may only be requested once catering is approved", ErrInvalidState)
	}

	approval.PaymentStatus = model.PaymentRequested
	if err := s.catering.Save(ctx, approval); err != nil {
		return err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	s.notifyPaymentAdmins(ctx, event)
	s.record(ctx, eventID, "catering.payment_requested", map[string]any{"event_id": eventID})
	return nil
}

// MarkPaid settles the payment axis. Requires the payment capability.
func (s *CateringService) MarkPaid(ctx context.Context, actor Actor, eventID int64, note string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !rbac.HasCapability(actor.Role, rbac.CapMarkPaid) {
		return ErrUnauthorized
	}

	approval, err := s.catering.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if approval.Status != model.CateringApproved {
		return fmt.Errorf("%w: payment may only be settled once catering is approved", ErrInvalidState)
	}

	if note == "" {
		note = "Done"
	}
	now := time.Now()
	approval.PaymentStatus = model.PaymentPaid
	approval.PaidByID = &actor.ID
	approval.PaidAt = &now
	approval.PaymentNote = &note

	if err := s.catering.Save(ctx, approval); err != nil {
		return err
	}

	s.record(ctx, eventID, "catering.paid", map[string]any{
		"event_id": eventID,
		"paid_by":  actor.ID,
	})
	s.logger.Info("Catering payment settled",
		zap.Int64("event_id", eventID),
		zap.Int64("paid_by", actor.ID),
	)
	return nil
}

// notifyApprovers mails everyone holding the approval capability a
// decision-capable request with fresh one-click tokens. Deriving the
// role set from the capability keeps it in step with in-app Decide.
func (s *CateringService) notifyApprovers(ctx context.Context, event *model.Event) {
	approvers, err := s.users.ListByRoles(ctx, rbac.RolesWith(rbac.CapDecideApproval)...)
	if err != nil {
		s.logger.Error("Failed to list financial approvers", zap.Error(err))
		return
	}

	for i := range approvers {
		approver := &approvers[i]
		links, err := s.decisionLinks(ctx, event.ID, approver.ID)
		if err != nil {
			s.logger.Error("Failed to issue decision tokens",
				zap.Int64("event_id", event.ID),
				zap.Int64("approver_id", approver.ID),
				zap.Error(err),
			)
			continue
		}
		s.notifier.SendApprovalRequest(ctx, event, approver, links)
	}
}

func (s *CateringService) decisionLinks(ctx context.Context, eventID, userID int64) (DecisionLinks, error) {
	var links DecisionLinks
	for _, d := range []struct {
		kind string
		dst  *string
	}{
		{model.TokenApprove, &links.Approve},
		{model.TokenReject, &links.Reject},
		{model.TokenRequestChanges, &links.RequestChanges},
	} {
		token, err := s.tokens.Issue(ctx, eventID, userID, d.kind, 0)
		if err != nil {
			return DecisionLinks{}, err
		}
		*d.dst = fmt.Sprintf("%s/api/actions?token=%s", s.baseURL, token)
	}
	return links, nil
}

func (s *CateringService) notifyPaymentAdmins(ctx context.Context, event *model.Event) {
	admins, err := s.users.ListByRoles(ctx, rbac.RolePaymentAdmin, rbac.RoleFinance)
	if err != nil {
		s.logger.Error("Failed to list payment admins", zap.Error(err))
		return
	}
	for i := range admins {
		s.notifier.SendPaymentRequest(ctx, event, &admins[i])
	}
}

func (s *CateringService) record(ctx context.Context, eventID int64, routingKey string, payload any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, "catering", &eventID, routingKey, payload); err != nil {
		s.logger.Error("Failed to record domain event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
