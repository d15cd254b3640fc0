package businessday

import (
	"context"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/models"

	"github.com/pkg/errors"
)

type Store interface {
	FindBusinessDay(ctx context.Context, truckID uint, date string) (*models.BusinessDay, error)
	FindBusinessDayByID(ctx context.Context, truckID, id uint) (*models.BusinessDay, error)
	LatestBusinessDay(ctx context.Context, truckID uint) (*models.BusinessDay, error)
	ListOpenBusinessDays(ctx context.Context, truckID uint) ([]models.BusinessDay, error)
	CreateBusinessDay(ctx context.Context, day *models.BusinessDay) error
	ReopenBusinessDay(ctx context.Context, truckID, id uint, start time.Time) error
	CloseBusinessDay(ctx context.Context, truckID, id uint, end time.Time, totalSales int64) error
	SumCompleteSales(ctx context.Context, businessDayID uint) (int64, error)
}

// Status is what the order-taking screen needs to render its header.
type Status struct {
	Today  string              `json:"today"`
	Day    *models.BusinessDay `json:"today_business_day"`
	Latest *models.BusinessDay `json:"latest_business_day"`
	Active *models.BusinessDay `json:"active_business_day"`
}

type Service struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

func NewService(store Store, now func() time.Time, loc *time.Location) *Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, now: now, loc: loc}
}

// Today is the current calendar date in the truck's time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(models.DateLayout)
}

// Start opens the business day for date, reopening it if it was closed.
// Only one day may be open at a time.
func (s *Service) Start(ctx context.Context, truckID uint, date string) (*models.BusinessDay, error) {
	if _, err := time.ParseInLocation(models.DateLayout, date, s.loc); err != nil {
		return nil, apperr.Validation("business date must look like YYYY-MM-DD")
	}

	open, err := s.store.ListOpenBusinessDays(ctx, truckID)
	if err != nil {
		return nil, apperr.Backend(err, "failed to load business days")
	}
	if len(open) > 0 {
		if open[0].BusinessDate == date {
			return nil, apperr.InvalidState("business day %s is already open", date)
		}
		return nil, apperr.Conflict("business day %s is still open; close it first", open[0].BusinessDate)
	}

	now := s.now()
	existing, err := s.store.FindBusinessDay(ctx, truckID, date)
	switch {
	case err == nil:
		if err := s.store.ReopenBusinessDay(ctx, truckID, existing.ID, now); err != nil {
			return nil, s.transitionError(err, date)
		}
		return s.reload(ctx, truckID, existing.ID)

	case errors.Is(err, models.ErrNotFound):
		day := &models.BusinessDay{
			TruckID:      truckID,
			BusinessDate: date,
			Status:       models.BusinessOpen,
			StartTime:    &now,
			CreatedAt:    now,
		}
		if err := s.store.CreateBusinessDay(ctx, day); err != nil {
			return nil, apperr.Backend(err, "failed to open the business day")
		}
		return day, nil

	default:
		return nil, apperr.Backend(err, "failed to load the business day")
	}
}

// Close ends an open business day and snapshots the sales of its complete
// orders into TotalSales.
func (s *Service) Close(ctx context.Context, truckID, id uint) (*models.BusinessDay, error) {
	day, err := s.store.FindBusinessDayByID(ctx, truckID, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("business day %d not found", id)
	}
	if err != nil {
		return nil, apperr.Backend(err, "failed to load the business day")
	}
	if !day.IsOpen() {
		return nil, apperr.InvalidState("business day %s is not open", day.BusinessDate)
	}

	total, err := s.store.SumCompleteSales(ctx, day.ID)
	if err != nil {
		return nil, apperr.Backend(err, "failed to total the day's sales")
	}

	if err := s.store.CloseBusinessDay(ctx, truckID, day.ID, s.now(), total); err != nil {
		if errors.Is(err, models.ErrStale) {
			return nil, apperr.InvalidState("business day %s is not open", day.BusinessDate)
		}
		return nil, s.transitionError(err, day.BusinessDate)
	}
	return s.reload(ctx, truckID, day.ID)
}

// ActiveSession resolves the business day new orders belong to: the most
// recent day if it is open, otherwise today's day if it is open.
func (s *Service) ActiveSession(ctx context.Context, truckID uint) (*models.BusinessDay, error) {
	status, err := s.Status(ctx, truckID)
	if err != nil {
		return nil, err
	}
	return status.Active, nil
}

func (s *Service) Status(ctx context.Context, truckID uint) (*Status, error) {
	status := &Status{Today: s.Today()}

	latest, err := s.optional(s.store.LatestBusinessDay(ctx, truckID))
	if err != nil {
		return nil, err
	}
	today, err := s.optional(s.store.FindBusinessDay(ctx, truckID, status.Today))
	if err != nil {
		return nil, err
	}
	status.Latest, status.Day = latest, today

	switch {
	case latest.IsOpen():
		status.Active = latest
	case today.IsOpen():
		status.Active = today
	}
	return status, nil
}

func (s *Service) optional(day *models.BusinessDay, err error) (*models.BusinessDay, error) {
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Backend(err, "failed to load business days")
	}
	return day, nil
}

func (s *Service) reload(ctx context.Context, truckID, id uint) (*models.BusinessDay, error) {
	day, err := s.store.FindBusinessDayByID(ctx, truckID, id)
	if err != nil {
		return nil, apperr.Backend(err, "failed to reload the business day")
	}
	return day, nil
}

func (s *Service) transitionError(err error, date string) error {
	switch {
	case errors.Is(err, models.ErrStale):
		return apperr.InvalidState("business day %s is already open", date)
	case errors.Is(err, models.ErrNotFound):
		return apperr.NotFound("business day %s not found", date)
	default:
		return apperr.Backend(err, "failed to update the business day")
	}
}
