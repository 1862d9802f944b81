package services

import (
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/query"
)

type InventoryService struct {
	*resource[models.InventoryItem]
}

func NewInventoryService(deps Deps) *InventoryService {
	return &InventoryService{&resource[models.InventoryItem]{
		gw:           deps.Gateway,
		notifier:     deps.notifier(),
		publisher:    deps.Publisher,
		table:        gateway.TableInventoryItem,
		fields:       gateway.Fields(inventoryItemFields...),
		defaultLimit: defaultListLimit,
		defaultOrder: query.SortByName,
		msg: messages{
			singular: "Inventory item",
			plural:   "inventory items",
			created:  "created",
			deleted:  "deleted",
			createOp: "create",
			deleteOp: "delete",
		},
		decode: decodeInventoryItem,
		encode: encodeInventoryItem,
		id:     func(i models.InventoryItem) int64 { return i.ID },
	}}
}
