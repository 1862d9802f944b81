package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/query"
)

type OrderService struct {
	*resource[models.Order]
}

func NewOrderService(deps Deps) *OrderService {
	return &OrderService{&resource[models.Order]{
		gw:           deps.Gateway,
		notifier:     deps.notifier(),
		publisher:    deps.Publisher,
		table:        gateway.TableOrder,
		fields:       gateway.Fields(orderFields...),
		defaultLimit: defaultListLimit,
		defaultOrder: query.SortByOrderDateDesc,
		msg: messages{
			singular: "Order",
			plural:   "orders",
			created:  "created",
			deleted:  "deleted",
			createOp: "create",
			deleteOp: "delete",
		},
		decode: decodeOrder,
		encode: encodeOrder,
		id:     func(o models.Order) int64 { return o.ID },
	}}
}

// UpdateStatus moves an order to any known status. Transitions are not
// restricted.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (WriteResult[models.Order], error) {
	if id == 0 {
		notify.Error(ctx, s.notifier, "Failed to update order")
		return WriteResult[models.Order]{}, fmt.Errorf("order: %w", ErrMissingID)
	}
	if !status.Known() {
		notify.Error(ctx, s.notifier, "Failed to update order")
		return WriteResult[models.Order]{}, models.ValidationErrors{"status": "Unknown order status"}
	}
	return s.updateRecord(ctx, gateway.Record{"Id": id, "status": string(status)})
}
