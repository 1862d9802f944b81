package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/query"
)

type MenuItemService struct {
	*resource[models.MenuItem]
}

func NewMenuItemService(deps Deps) *MenuItemService {
	return &MenuItemService{&resource[models.MenuItem]{
		gw:           deps.Gateway,
		notifier:     deps.notifier(),
		publisher:    deps.Publisher,
		table:        gateway.TableMenuItem,
		fields:       gateway.Fields(menuItemFields...),
		defaultLimit: defaultListLimit,
		defaultOrder: query.SortByName,
		msg: messages{
			singular: "Menu item",
			plural:   "menu items",
			created:  "created",
			deleted:  "deleted",
			createOp: "create",
			deleteOp: "delete",
		},
		decode: decodeMenuItem,
		encode: encodeMenuItem,
		id:     func(m models.MenuItem) int64 { return m.ID },
	}}
}

// SetImage points a menu item at a new image URL without touching its other fields.
func (s *MenuItemService) SetImage(ctx context.Context, id int64, imageURL string) (WriteResult[models.MenuItem], error) {
	if id == 0 {
		notify.Error(ctx, s.notifier, "Failed to update menu item")
		return WriteResult[models.MenuItem]{}, fmt.Errorf("menu item: %w", ErrMissingID)
	}
	return s.updateRecord(ctx, gateway.Record{"Id": id, "image_url": imageURL})
}
