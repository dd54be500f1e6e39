package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
)

// EventService owns the top-level event lifecycle. Status transitions
// are deliberately unconstrained beyond authentication: any actor may
// set any of the six statuses at any time.
type EventService struct {
	events    EventStore
	catering  CateringStore
	rooms     RoomStore
	flyers    FlyerStore
	years     YearStore
	checklist ChecklistStore
	recorder  EventRecorder
	logger    *zap.Logger
}

func NewEventService(
	events EventStore,
	catering CateringStore,
	rooms RoomStore,
	flyers FlyerStore,
	years YearStore,
	checklist ChecklistStore,
	recorder EventRecorder,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events:    events,
		catering:  catering,
		rooms:     rooms,
		flyers:    flyers,
		years:     years,
		checklist: checklist,
		recorder:  recorder,
		logger:    logger,
	}
}

type CreateEventParams struct {
	Title       string
	Description *string
	Date        time.Time
	Time        *string
	Location    *string
	Semester    *string
	Tags        string
	Format      string // in_person, virtual, hybrid
	VirtualLink *string

	BudgetAmount *float64

	SpeakerName  *string
	SpeakerEmail *string
	SpeakerPhone *string
	SpeakerOrg   *string
	POCName      *string
	POCEmail     *string
	POCPhone     *string

	HasCatering    bool
	CateringVendor *string
	CateringCost   *float64
	CateringMenu   *string
	CateringDiet   *string
	CateringHeads  *int
	OrderLink      *string

	HasRoom  bool
	RoomName *string

	HasFlyer bool
}

// Create opens a new DRAFT event under the current academic year, with
// optional sub-workflow records and a seeded day-of checklist.
func (s *EventService) Create(ctx context.Context, actor Actor, params CreateEventParams) (*model.Event, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}

	event := &model.Event{
		Title:        params.Title,
		Description:  params.Description,
		Date:         params.Date,
		Time:         params.Time,
		Location:     params.Location,
		Semester:     params.Semester,
		Tags:         params.Tags,
		IsVirtual:    params.Format == "virtual",
		IsHybrid:     params.Format == "hybrid",
		IsOnCampus:   params.Format != "virtual",
		VirtualLink:  params.VirtualLink,
		BudgetAmount: params.BudgetAmount,
		SpeakerName:  params.SpeakerName,
		SpeakerEmail: params.SpeakerEmail,
		SpeakerPhone: params.SpeakerPhone,
		SpeakerOrg:   params.SpeakerOrg,
		POCName:      params.POCName,
		POCEmail:     params.POCEmail,
		POCPhone:     params.POCPhone,
		Status:       model.EventDraft,
		CreatedByID:  actor.ID,
	}

	if current, err := s.years.FindCurrent(ctx); err == nil {
		event.AcademicYearID = &current.ID
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	if params.HasCatering {
		c := &model.CateringApproval{
			EventID:       event.ID,
			Status:        model.CateringDraft,
			PaymentStatus: model.PaymentPending,
			Vendor:        params.CateringVendor,
			EstimatedCost: params.CateringCost,
			MenuDetails:   params.CateringMenu,
			DietaryNotes:  params.CateringDiet,
			Headcount:     params.CateringHeads,
			OrderLink:     params.OrderLink,
		}
		if err := s.catering.Create(ctx, c); err != nil {
			return nil, err
		}
	}
	if params.HasRoom {
		r := &model.RoomReservation{
			EventID:  event.ID,
			RoomName: params.RoomName,
			Status:   model.RoomPending,
		}
		if err := s.rooms.Create(ctx, r); err != nil {
			return nil, err
		}
	}
	if params.HasFlyer {
		f := &model.FlyerTask{
			EventID:      event.ID,
			DesignStatus: model.FlyerNotStarted,
		}
		if err := s.flyers.Create(ctx, f); err != nil {
			return nil, err
		}
	}

	if err := s.checklist.SeedDefaults(ctx, event.ID); err != nil {
		s.logger.Error("Failed to seed day-of checklist",
			zap.Int64("event_id", event.ID),
			zap.Error(err),
		)
	}

	s.record(ctx, event.ID, "event.created", map[string]any{
		"event_id": event.ID,
		"title":    event.Title,
	})

	s.logger.Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.String("title", event.Title),
	)
	return event, nil
}

type UpdateEventParams struct {
	Title        *string
	Description  *string
	Date         *time.Time
	Time         *string
	Location     *string
	Semester     *string
	Tags         *string
	Format       *string
	VirtualLink  *string
	Status       *string
	Headcount    *int
	BudgetAmount *float64
	SpeakerName  *string
	SpeakerEmail *string
	SpeakerPhone *string
	SpeakerOrg   *string
	POCName      *string
	POCEmail     *string
	POCPhone     *string
}

// Update patches event fields. Nil pointers leave stored values alone.
func (s *EventService) Update(ctx context.Context, actor Actor, eventID int64, params UpdateEventParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	if params.Title != nil {
		event.Title = *params.Title
	}
	if params.Description != nil {
		event.Description = params.Description
	}
	if params.Date != nil {
		event.Date = *params.Date
	}
	if params.Time != nil {
		event.Time = params.Time
	}
	if params.Location != nil {
		event.Location = params.Location
	}
	if params.Semester != nil {
		event.Semester = params.Semester
	}
	if params.Tags != nil {
		event.Tags = *params.Tags
	}
	if params.Format != nil {
		event.IsVirtual = *params.Format == "virtual"
		event.IsHybrid = *params.Format == "hybrid"
		event.IsOnCampus = *params.Format != "virtual"
	}
	if params.VirtualLink != nil {
		event.VirtualLink = params.VirtualLink
	}
	if params.Status != nil {
		if !model.ValidEventStatus(*params.Status) {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidState, *params.Status)
		}
		event.Status = *params.Status
	}
	if params.Headcount != nil {
		event.Headcount = params.Headcount
	}
	if params.BudgetAmount != nil {
		event.BudgetAmount = params.BudgetAmount
	}
	if params.SpeakerName != nil {
		event.SpeakerName = params.SpeakerName
	}
	if params.SpeakerEmail != nil {
		event.SpeakerEmail = params.SpeakerEmail
	}
	if params.SpeakerPhone != nil {
		event.SpeakerPhone = params.SpeakerPhone
	}
	if params.SpeakerOrg != nil {
		event.SpeakerOrg = params.SpeakerOrg
	}
	if params.POCName != nil {
		event.POCName = params.POCName
	}
	if params.POCEmail != nil {
		event.POCEmail = params.POCEmail
	}
	if params.POCPhone != nil {
		event.POCPhone = params.POCPhone
	}

	return s.events.Save(ctx, event)
}

// SetStatus moves the event to any of the six lifecycle statuses.
func (s *EventService) SetStatus(ctx context.Context, actor Actor, eventID int64, status string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if !model.ValidEventStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidState, status)
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	event.Status = status
	return s.events.Save(ctx, event)
}

type RetrospectiveParams struct {
	Headcount          *int
	DoAgain            *bool
	ReinviteSpeaker    *bool
	RetrospectiveNotes *string
}

// RecordRetrospective stores the post-event retrospective and forces the
// event to COMPLETED in the same write.
func (s *EventService) RecordRetrospective(ctx context.Context, actor Actor, eventID int64, params RetrospectiveParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	event.Headcount = params.Headcount
	event.DoAgain = params.DoAgain
	event.ReinviteSpeaker = params.ReinviteSpeaker
	event.RetrospectiveNotes = params.RetrospectiveNotes
	event.Status = model.EventCompleted

	return s.events.Save(ctx, event)
}

// Archive moves the event to its terminal status.
func (s *EventService) Archive(ctx context.Context, actor Actor, eventID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	event.Status = model.EventArchived
	if err := s.events.Save(ctx, event); err != nil {
		return err
	}

	s.record(ctx, eventID, "event.archived", map[string]any{"event_id": eventID})
	return nil
}

// Delete soft-deletes: the row stays for the audit trail, but every
// listing and lookup excludes it.
func (s *EventService) Delete(ctx context.Context, actor Actor, eventID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	return s.events.SoftDelete(ctx, eventID, time.Now())
}

func (s *EventService) Get(ctx context.Context, actor Actor, eventID int64) (*model.Event, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.events.FindByID(ctx, eventID)
}

func (s *EventService) List(ctx context.Context, actor Actor) ([]model.Event, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.events.List(ctx)
}

func (s *EventService) record(ctx context.Context, eventID int64, routingKey string, payload any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, "event", &eventID, routingKey, payload); err != nil {
		s.logger.Error("Failed to record domain event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
