package database

import (
	"context"

	"foodtruck-pos/internal/models"

	"gorm.io/gorm"
)

func (s *Store) CreateTruck(ctx context.Context, truck *models.FoodTruck) error {
	return translate(s.db.WithContext(ctx).Create(truck).Error, "create truck")
}

func (s *Store) FindTruckByOwner(ctx context.Context, userID uint) (*models.FoodTruck, error) {
	var truck models.FoodTruck
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&truck).Error; err != nil {
		return nil, translate(err, "find truck")
	}
	return &truck, nil
}

func (s *Store) UpdateTruck(ctx context.Context, truck *models.FoodTruck) error {
	err := s.db.WithContext(ctx).Model(&models.FoodTruck{}).
		Where("id = ?", truck.ID).
		Updates(map[string]interface{}{"name": truck.Name, "description": truck.Description}).Error
	return translate(err, "update truck")
}

// PurgeTruckData removes the truck's order history and menus.
func (s *Store) PurgeTruckData(ctx context.Context, truckID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderIDs := tx.Model(&models.Order{}).Select("id").Where("truck_id = ?", truckID)
		if err := tx.Where("order_id IN (?)", orderIDs).Delete(&models.OrderLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("truck_id = ?", truckID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Where("truck_id = ?", truckID).Delete(&models.Menu{}).Error
	})
	return translate(err, "purge truck data")
}

func (s *Store) ListMenus(ctx context.Context, truckID uint) ([]models.Menu, error) {
	var menus []models.Menu
	err := s.db.WithContext(ctx).Where("truck_id = ?", truckID).Order("id asc").Find(&menus).Error
	return menus, translate(err, "list menus")
}

func (s *Store) FindMenu(ctx context.Context, truckID, id uint) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.WithContext(ctx).Where("id = ? AND truck_id = ?", id, truckID).First(&menu).Error; err != nil {
		return nil, translate(err, "find menu")
	}
	return &menu, nil
}

func (s *Store) CreateMenu(ctx context.Context, menu *models.Menu) error {
	return translate(s.db.WithContext(ctx).Create(menu).Error, "create menu")
}

func (s *Store) UpdateMenu(ctx context.Context, menu *models.Menu) error {
	res := s.db.WithContext(ctx).Model(&models.Menu{}).
		Where("id = ? AND truck_id = ?", menu.ID, menu.TruckID).
		Updates(map[string]interface{}{
			"name":        menu.Name,
			"price":       menu.Price,
			"description": menu.Description,
		})
	if res.Error != nil {
		return translate(res.Error, "update menu")
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows for a no-op update, so check existence
		if _, err := s.FindMenu(ctx, menu.TruckID, menu.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteMenu(ctx context.Context, truckID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND truck_id = ?", id, truckID).Delete(&models.Menu{})
	if res.Error != nil {
		return translate(res.Error, "delete menu")
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}
