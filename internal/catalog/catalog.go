package catalog

import (
	"context"
	"strings"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/models"

	"github.com/pkg/errors"
)

type Store interface {
	CreateTruck(ctx context.Context, truck *models.FoodTruck) error
	FindTruckByOwner(ctx context.Context, userID uint) (*models.FoodTruck, error)
	UpdateTruck(ctx context.Context, truck *models.FoodTruck) error
	PurgeTruckData(ctx context.Context, truckID uint) error

	ListMenus(ctx context.Context, truckID uint) ([]models.Menu, error)
	FindMenu(ctx context.Context, truckID, id uint) (*models.Menu, error)
	CreateMenu(ctx context.Context, menu *models.Menu) error
	UpdateMenu(ctx context.Context, menu *models.Menu) error
	DeleteMenu(ctx context.Context, truckID, id uint) error
}

// MenuInput is what the menu form submits.
type MenuInput struct {
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

func (in MenuInput) validate() (MenuInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, apperr.Validation("menu name is required")
	}
	if in.Price <= 0 {
		return in, apperr.Validation("menu price must be positive")
	}
	return in, nil
}

// Catalog owns the truck profile and its menu.
type Catalog struct {
	store Store
}

func New(store Store) *Catalog {
	return &Catalog{store: store}
}

// RegisterTruck creates the user's truck. A user owns at most one truck.
func (c *Catalog) RegisterTruck(ctx context.Context, userID uint, name, description string) (*models.FoodTruck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("truck name is required")
	}

	_, err := c.store.FindTruckByOwner(ctx, userID)
	switch {
	case err == nil:
		return nil, apperr.Conflict("this account already has a food truck")
	case !errors.Is(err, models.ErrNotFound):
		return nil, apperr.Backend(err, "failed to load the food truck")
	}

	truck := &models.FoodTruck{UserID: userID, Name: name, Description: strings.TrimSpace(description)}
	if err := c.store.CreateTruck(ctx, truck); err != nil {
		return nil, apperr.Backend(err, "failed to register the food truck")
	}
	return truck, nil
}

func (c *Catalog) TruckForOwner(ctx context.Context, userID uint) (*models.FoodTruck, error) {
	truck, err := c.store.FindTruckByOwner(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, apperr.NotFound("no food truck is registered for this account")
	}
	if err != nil {
		return nil, apperr.Backend(err, "failed to load the food truck")
	}
	return truck, nil
}

func (c *Catalog) UpdateTruck(ctx context.Context, truck *models.FoodTruck, name, description string) (*models.FoodTruck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("truck name is required")
	}

	updated := *truck
	updated.Name, updated.Description = name, strings.TrimSpace(description)
	if err := c.store.UpdateTruck(ctx, &updated); err != nil {
		return nil, apperr.Backend(err, "failed to update the food truck")
	}
	return &updated, nil
}

// PurgeTruckData deletes every order and menu of the truck. Business days
// and the truck itself are kept.
func (c *Catalog) PurgeTruckData(ctx context.Context, truckID uint) error {
	if err := c.store.PurgeTruckData(ctx, truckID); err != nil {
		return apperr.Backend(err, "failed to delete the truck's data")
	}
	return nil
}

func (c *Catalog) ListMenus(ctx context.Context, truckID uint) ([]models.Menu, error) {
	menus, err := c.store.ListMenus(ctx, truckID)
	if err != nil {
		return nil, apperr.Backend(err, "failed to load the menu")
	}
	return menus, nil
}

func (c *Catalog) GetMenu(ctx context.Context, truckID, id uint) (*models.Menu, error) {
	menu, err := c.store.FindMenu(ctx, truckID, id)
	if err != nil {
		return nil, menuError(err, id, "failed to load the menu item")
	}
	return menu, nil
}

func (c *Catalog) CreateMenu(ctx context.Context, truckID uint, input MenuInput) (*models.Menu, error) {
	input, err := input.validate()
	if err != nil {
		return nil, err
	}

	menu := &models.Menu{TruckID: truckID, Name: input.Name, Price: input.Price, Description: input.Description}
	if err := c.store.CreateMenu(ctx, menu); err != nil {
		return nil, apperr.Backend(err, "failed to create the menu item")
	}
	return menu, nil
}

// UpdateMenu edits a menu item. Orders already placed keep the name and
// price they were sold at.
func (c *Catalog) UpdateMenu(ctx context.Context, truckID, id uint, input MenuInput) (*models.Menu, error) {
	input, err := input.validate()
	if err != nil {
		return nil, err
	}

	menu := &models.Menu{ID: id, TruckID: truckID, Name: input.Name, Price: input.Price, Description: input.Description}
	if err := c.store.UpdateMenu(ctx, menu); err != nil {
		return nil, menuError(err, id, "failed to update the menu item")
	}
	return menu, nil
}

func (c *Catalog) DeleteMenu(ctx context.Context, truckID, id uint) error {
	if err := c.store.DeleteMenu(ctx, truckID, id); err != nil {
		return menuError(err, id, "failed to delete the menu item")
	}
	return nil
}

func menuError(err error, id uint, message string) error {
	if errors.Is(err, models.ErrNotFound) {
		return apperr.NotFound("menu item %d not found", id)
	}
	return apperr.Backend(err, message)
}
