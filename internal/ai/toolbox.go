package ai

import (
	"context"
	"encoding/json"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/businessday"
	"foodtruck-pos/internal/models"
	"foodtruck-pos/internal/queue"
	"foodtruck-pos/internal/sales"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
)

type SalesReporter interface {
	Report(ctx context.Context, truckID uint, g sales.Granularity, anchor string) (*sales.Report, error)
}

type MenuLister interface {
	ListMenus(ctx context.Context, truckID uint) ([]models.Menu, error)
}

type PendingLister interface {
	List(ctx context.Context, truckID uint) ([]queue.PendingOrder, error)
}

type StatusReader interface {
	Status(ctx context.Context, truckID uint) (*businessday.Status, error)
}

// Toolbox exposes read-only views of one truck to the model.
type Toolbox struct {
	Sales    SalesReporter
	Menus    MenuLister
	Queue    PendingLister
	Business StatusReader
	// Today is used when the model omits a date. When it is nil the date
	// is taken from the clock in Location.
	Today    func() string
	Location *time.Location

	now func() time.Time
}

const (
	toolSalesReport    = "get_sales_report"
	toolListMenu       = "list_menu"
	toolPendingOrders  = "list_pending_orders"
	toolBusinessStatus = "get_business_status"
)

// Declarations describes the tools to the model.
func (t *Toolbox) Declarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        toolSalesReport,
			Description: "Get sales totals and the best selling menus. Amounts are in minor currency units.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"granularity": {Type: genai.TypeString, Description: "day (the 7 days up to date), month or year", Enum: []string{"day", "month", "year"}},
					"date":        {Type: genai.TypeString, Description: "Anchor date (YYYY-MM-DD); defaults to today"},
				},
				Required: []string{"granularity"},
			},
		},
		{
			Name:        toolListMenu,
			Description: "List the truck's menu items with their ID, name and price.",
		},
		{
			Name:        toolPendingOrders,
			Description: "List orders that are waiting to be served, oldest first.",
		},
		{
			Name:        toolBusinessStatus,
			Description: "Tell whether the truck is open today and which business day is active.",
		},
	}
}

// Call runs a tool for truckID and returns its result as JSON text.
func (t *Toolbox) Call(ctx context.Context, truckID uint, name string, args map[string]interface{}) (string, error) {
	var (
		result interface{}
		err    error
	)
	switch name {
	case toolSalesReport:
		result, err = t.salesReport(ctx, truckID, args)
	case toolListMenu:
		result, err = t.Menus.ListMenus(ctx, truckID)
	case toolPendingOrders:
		result, err = t.Queue.List(ctx, truckID)
	case toolBusinessStatus:
		result, err = t.Business.Status(ctx, truckID)
	default:
		return "", apperr.Validation("unknown tool %q", name)
	}
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(result)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s result", name)
	}
	return string(b), nil
}

func (t *Toolbox) salesReport(ctx context.Context, truckID uint, args map[string]interface{}) (*sales.Report, error) {
	raw, _ := args["granularity"].(string)
	g, err := sales.ParseGranularity(raw)
	if err != nil {
		return nil, err
	}

	date, _ := args["date"].(string)
	if date == "" {
		date = t.today()
	}
	return t.Sales.Report(ctx, truckID, g, date)
}

func (t *Toolbox) today() string {
	if t.Today != nil {
		return t.Today()
	}
	now, loc := time.Now, t.Location
	if t.now != nil {
		now = t.now
	}
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc).Format(models.DateLayout)
}
