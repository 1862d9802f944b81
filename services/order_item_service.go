package services

import (
	"context"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/query"
)

type OrderItemService struct {
	*resource[models.OrderItem]
}

func NewOrderItemService(deps Deps) *OrderItemService {
	return &OrderItemService{&resource[models.OrderItem]{
		gw:           deps.Gateway,
		notifier:     deps.notifier(),
		publisher:    deps.Publisher,
		table:        gateway.TableOrderItem,
		fields:       gateway.Fields(orderItemFields...),
		defaultLimit: defaultOrderItemLimit,
		defaultOrder: query.SortByName,
		msg: messages{
			singular: "Order item",
			plural:   "order items",
			created:  "added",
			deleted:  "removed",
			createOp: "add",
			deleteOp: "remove",
		},
		decode: decodeOrderItem,
		encode: encodeOrderItem,
		id:     func(i models.OrderItem) int64 { return i.ID },
	}}
}

// ListByOrder returns the lines of one order.
func (s *OrderItemService) ListByOrder(ctx context.Context, orderID int64, page query.Page) (Page[models.OrderItem], error) {
	q := query.Build(query.Request{
		Page:        page,
		DefaultSize: defaultOrderItemLimit,
	})
	q.WhereGroups = []gateway.WhereGroup{{
		Operator: gateway.GroupOperatorAnd,
		SubGroups: []gateway.SubGroup{{
			Conditions: []gateway.Condition{{
				FieldName: "order",
				Operator:  gateway.OperatorExactMatch,
				Values:    []any{orderID},
			}},
		}},
	}}
	return s.List(ctx, q)
}
