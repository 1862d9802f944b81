package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/query"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

const (
	summaryLimit       = 5
	orderScanLimit     = 100
	inventoryScanLimit = 100
	salesDays          = 7
)

// Lister is the read side of an access module.
type Lister[T any] interface {
	List(ctx context.Context, q gateway.Query) (services.Page[T], error)
}

type Summary struct {
	MenuItemsCount      int                    `json:"menuItemsCount"`
	PendingOrders       []models.Order         `json:"pendingOrders"`
	LowStockItems       []models.InventoryItem `json:"lowStockItems"`
	RecentOrders        []models.Order         `json:"recentOrders"`
	OrdersByStatus      []StatusCount          `json:"ordersByStatus"`
	Sales               []DailySales           `json:"sales"`
	TodaySales          decimal.Decimal        `json:"todaySales"`
	TodaySalesFormatted string                 `json:"todaySalesFormatted"`
	GeneratedAt         time.Time              `json:"generatedAt"`
}

type Loader struct {
	MenuItems Lister[models.MenuItem]
	Orders    Lister[models.Order]
	Inventory Lister[models.InventoryItem]
	Sales     SalesAggregator
	Now       func() time.Time
}

func NewLoader(set *services.Set) *Loader {
	return &Loader{
		MenuItems: set.MenuItems,
		Orders:    set.Orders,
		Inventory: set.Inventory,
		Sales:     SalesByDay,
		Now:       time.Now,
	}
}

// Load runs the dashboard reads in parallel. They share no state; the first
// failure cancels the rest and is returned.
func (l *Loader) Load(ctx context.Context) (*Summary, error) {
	var (
		menuPage  services.Page[models.MenuItem]
		pending   services.Page[models.Order]
		inventory services.Page[models.InventoryItem]
		recent    services.Page[models.Order]
		all       services.Page[models.Order]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		menuPage, err = l.MenuItems.List(gctx, query.Build(query.Request{}))
		return err
	})
	g.Go(func() (err error) {
		pending, err = l.Orders.List(gctx, query.Build(query.Request{
			Filters: []query.Filter{query.Exact("status", string(models.OrderStatusPending))},
			Page:    query.Page{Number: 1, Size: summaryLimit},
			Sort:    query.SortByOrderDateDesc,
		}))
		return err
	})
	g.Go(func() (err error) {
		inventory, err = l.Inventory.List(gctx, query.Build(query.Request{
			Page: query.Page{Number: 1, Size: inventoryScanLimit},
		}))
		return err
	})
	g.Go(func() (err error) {
		recent, err = l.Orders.List(gctx, query.Build(query.Request{
			Page: query.Page{Number: 1, Size: summaryLimit},
			Sort: query.SortByOrderDateDesc,
		}))
		return err
	})
	g.Go(func() (err error) {
		all, err = l.Orders.List(gctx, query.Build(query.Request{
			Page: query.Page{Number: 1, Size: orderScanLimit},
			Sort: query.SortByOrderDateDesc,
		}))
		return err
	})

	if err := g.Wait(); err != nil {
		utils.ErrorLogger.Errorf("Error loading dashboard data: %v", err)
		return nil, err
	}

	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	aggregate := l.Sales
	if aggregate == nil {
		aggregate = SalesByDay
	}

	sales := aggregate(all.Data, salesDays, now)
	today := decimal.Zero
	if len(sales) > 0 {
		today = sales[len(sales)-1].Total
	}

	return &Summary{
		MenuItemsCount:      menuPage.TotalCount,
		PendingOrders:       MostRecent(pending.Data, summaryLimit),
		LowStockItems:       LowStock(inventory.Data, summaryLimit),
		RecentOrders:        MostRecent(recent.Data, summaryLimit),
		OrdersByStatus:      StatusHistogram(all.Data, models.OrderStatuses),
		Sales:               sales,
		TodaySales:          today,
		TodaySalesFormatted: utils.FormatCurrency(today),
		GeneratedAt:         now,
	}, nil
}
