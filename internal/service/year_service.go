package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/model"
)

// YearService manages academic year settings. The "current" selector is
// a single-row invariant: exactly one isCurrent row at a time, enforced
// by an atomic clear-then-set switch.
type YearService struct {
	years  YearStore
	logger *zap.Logger
}

func NewYearService(years YearStore, logger *zap.Logger) *YearService {
	return &YearService{years: years, logger: logger}
}

type CreateYearParams struct {
	Label       string
	StartMonth  int
	StartYear   int
	Budget      *float64
	MakeCurrent bool
}

// Create adds a new academic year. The end boundary is derived from the
// start month: a September start ends the following August.
func (s *YearService) Create(ctx context.Context, actor Actor, params CreateYearParams) (*model.AcademicYear, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if params.StartMonth < 1 || params.StartMonth > 12 {
		params.StartMonth = 9
	}

	endMonth := params.StartMonth - 1
	endYear := params.StartYear + 1
	if params.StartMonth == 1 {
		endMonth = 12
		endYear = params.StartYear
	}

	label := params.Label
	if label == "" {
		label = fmt.Sprintf("%d-%d", params.StartYear, endYear)
	}

	if params.MakeCurrent {
		if err := s.years.ClearCurrent(ctx); err != nil {
			return nil, err
		}
	}

	y := &model.AcademicYear{
		Label:      label,
		StartMonth: params.StartMonth,
		StartYear:  params.StartYear,
		EndMonth:   endMonth,
		EndYear:    endYear,
		Budget:     params.Budget,
		IsCurrent:  params.MakeCurrent,
		CreatedAt:  time.Now(),
	}
	if err := s.years.Create(ctx, y); err != nil {
		return nil, err
	}

	s.logger.Info("Academic year created",
		zap.String("label", y.Label),
		zap.Bool("is_current", y.IsCurrent),
	)
	return y, nil
}

// Switch atomically makes the given year the current one.
func (s *YearService) Switch(ctx context.Context, actor Actor, yearID int64) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if _, err := s.years.FindByID(ctx, yearID); err != nil {
		return err
	}
	return s.years.SwitchCurrent(ctx, yearID)
}

type UpdateYearParams struct {
	StartMonth *int
	Budget     *float64
}

// UpdateSettings patches the start month and budget of a year.
func (s *YearService) UpdateSettings(ctx context.Context, actor Actor, yearID int64, params UpdateYearParams) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	y, err := s.years.FindByID(ctx, yearID)
	if err != nil {
		return err
	}

	if params.StartMonth != nil && *params.StartMonth >= 1 && *params.StartMonth <= 12 {
		y.StartMonth = *params.StartMonth
	}
	if params.Budget != nil {
		y.Budget = params.Budget
	}

	return s.years.Save(ctx, y)
}

func (s *YearService) List(ctx context.Context, actor Actor) ([]model.AcademicYear, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	return s.years.List(ctx)
}
