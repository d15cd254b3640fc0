package database

import (
	"context"
	"time"

	"foodtruck-pos/internal/models"
)

func (s *Store) FindBusinessDay(ctx context.Context, truckID uint, date string) (*models.BusinessDay, error) {
	var day models.BusinessDay
	err := s.db.WithContext(ctx).
		Where("truck_id = ? AND business_date = ?", truckID, date).
		First(&day).Error
	if err != nil {
		return nil, translate(err, "find business day")
	}
	return &day, nil
}

func (s *Store) FindBusinessDayByID(ctx context.Context, truckID, id uint) (*models.BusinessDay, error) {
	var day models.BusinessDay
	if err := s.db.WithContext(ctx).Where("id = ? AND truck_id = ?", id, truckID).First(&day).Error; err != nil {
		return nil, translate(err, "find business day")
	}
	return &day, nil
}

// LatestBusinessDay returns the day with the greatest business date.
func (s *Store) LatestBusinessDay(ctx context.Context, truckID uint) (*models.BusinessDay, error) {
	var day models.BusinessDay
	err := s.db.WithContext(ctx).
		Where("truck_id = ?", truckID).
		Order("business_date desc").Order("id desc").
		First(&day).Error
	if err != nil {
		return nil, translate(err, "find latest business day")
	}
	return &day, nil
}

func (s *Store) ListOpenBusinessDays(ctx context.Context, truckID uint) ([]models.BusinessDay, error) {
	var days []models.BusinessDay
	err := s.db.WithContext(ctx).
		Where("truck_id = ? AND status = ?", truckID, models.BusinessOpen).
		Order("business_date desc").
		Find(&days).Error
	return days, translate(err, "list open business days")
}

func (s *Store) CreateBusinessDay(ctx context.Context, day *models.BusinessDay) error {
	return translate(s.db.WithContext(ctx).Create(day).Error, "create business day")
}

// ReopenBusinessDay flips a closed day back to open with a fresh start time.
func (s *Store) ReopenBusinessDay(ctx context.Context, truckID, id uint, start time.Time) error {
	return s.transitionBusinessDay(ctx, truckID, id, models.BusinessClosed, map[string]interface{}{
		"status":     models.BusinessOpen,
		"start_time": start.UTC(),
		"end_time":   nil,
	})
}

// CloseBusinessDay closes an open day and stores its sales snapshot.
func (s *Store) CloseBusinessDay(ctx context.Context, truckID, id uint, end time.Time, totalSales int64) error {
	return s.transitionBusinessDay(ctx, truckID, id, models.BusinessOpen, map[string]interface{}{
		"status":      models.BusinessClosed,
		"end_time":    end.UTC(),
		"total_sales": totalSales,
	})
}

func (s *Store) transitionBusinessDay(ctx context.Context, truckID, id uint, from models.BusinessStatus, patch map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.BusinessDay{}).
		Where("id = ? AND truck_id = ? AND status = ?", id, truckID, from).
		Updates(patch)
	if res.Error != nil {
		return translate(res.Error, "update business day")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := s.FindBusinessDayByID(ctx, truckID, id); err != nil {
		return err
	}
	return models.ErrStale
}

// SumCompleteSales totals the complete orders taken during a business day.
func (s *Store) SumCompleteSales(ctx context.Context, businessDayID uint) (int64, error) {
	var total int64
	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("business_day_id = ? AND status = ?", businessDayID, models.OrderComplete).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return total, translate(err, "sum business day sales")
}
