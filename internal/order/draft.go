package order

import "foodtruck-pos/internal/models"

// DraftItem is one line of the order being assembled.
type DraftItem struct {
	MenuID    uint   `json:"menu_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Draft is the in-memory current order. It is never persisted partially.
// The zero value is an empty draft.
type Draft struct {
	Items []DraftItem `json:"items"`
	Total int64       `json:"total"`
}

// AddItem adds one of menu, merging with an existing line for the same menu.
func (d *Draft) AddItem(menu models.Menu) {
	for i := range d.Items {
		if d.Items[i].MenuID == menu.ID {
			d.Items[i].Quantity++
			d.recalculate()
			return
		}
	}

	d.Items = append(d.Items, DraftItem{
		MenuID:    menu.ID,
		Name:      menu.Name,
		UnitPrice: menu.Price,
		Quantity:  1,
	})
	d.recalculate()
}

// ChangeQuantity applies delta to a line; a line that drops to zero or
// below is removed. Unknown menu ids are ignored.
func (d *Draft) ChangeQuantity(menuID uint, delta int) {
	items := d.Items[:0]
	for _, item := range d.Items {
		if item.MenuID == menuID {
			item.Quantity += delta
			if item.Quantity <= 0 {
				continue
			}
		}
		items = append(items, item)
	}
	d.Items = items
	d.recalculate()
}

func (d *Draft) Reset() {
	d.Items = nil
	d.Total = 0
}

func (d Draft) IsEmpty() bool {
	return len(d.Items) == 0
}

// Snapshot returns a copy that is safe to hand out while d keeps changing.
func (d *Draft) Snapshot() Draft {
	items := make([]DraftItem, len(d.Items))
	copy(items, d.Items)
	return Draft{Items: items, Total: d.Total}
}

// recalculate derives the total from the lines.
func (d *Draft) recalculate() {
	var total int64
	for _, item := range d.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	d.Total = total
}
