// Package services holds the typed access modules for each back-office
// resource. Every module goes through the injected gateway and reports the
// outcome of each operation through the injected notifier.
package services

import (
	"github.com/yeremiapane/restaurant-backoffice/events"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/notify"
)

const (
	defaultListLimit      = 20
	defaultOrderItemLimit = 100
)

// Deps are the collaborators shared by every access module.
type Deps struct {
	Gateway   gateway.Gateway
	Notifier  notify.Notifier
	Publisher events.Publisher
}

func (d Deps) notifier() notify.Notifier {
	if d.Notifier == nil {
		return notify.Nop{}
	}
	return d.Notifier
}

// Set bundles the access modules built from one gateway.
type Set struct {
	MenuItems  *MenuItemService
	Orders     *OrderService
	OrderItems *OrderItemService
	Inventory  *InventoryService
}

func NewSet(deps Deps) *Set {
	return &Set{
		MenuItems:  NewMenuItemService(deps),
		Orders:     NewOrderService(deps),
		OrderItems: NewOrderItemService(deps),
		Inventory:  NewInventoryService(deps),
	}
}
