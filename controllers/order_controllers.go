package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/query"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type OrderController struct {
	Orders     *services.OrderService
	OrderItems *services.OrderItemService
	Sessions   *panel.Sessions
}

func NewOrderController(orders *services.OrderService, items *services.OrderItemService, sessions *panel.Sessions) *OrderController {
	return &OrderController{Orders: orders, OrderItems: items, Sessions: sessions}
}

// ListOrders supports ?search, ?status and ?payment_status; newest first by default.
func (oc *OrderController) ListOrders(c *gin.Context) {
	req := listRequest(c, query.SortByOrderDateDesc)
	req.Filters = []query.Filter{
		query.Exact("status", c.Query("status")),
		query.Exact("payment_status", c.Query("payment_status")),
	}

	st := sessionFor(c, oc.Sessions).Orders
	err := st.Fetch(c.Request.Context(), query.Build(req))
	respondList(c, st, err, "List of orders")
}

// GetOrder returns the order together with its line items.
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ctx := c.Request.Context()
	order, err := sessionFor(c, oc.Sessions).Orders.FetchByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Order not found"))
		return
	}

	items, err := oc.OrderItems.ListByOrder(ctx, id, query.Page{})
	if err != nil {
		// order masih ditampilkan walaupun item gagal dimuat
		utils.RespondErrorData(c, statusFor(err), err, gin.H{"order": order})
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order details", gin.H{
		"order": order,
		"items": items.Data,
	})
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	var res services.WriteResult[models.Order]
	_, err := sessionFor(c, oc.Sessions).Orders.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = oc.Orders.Create(ctx, order)
		return res.Success, werr
	})
	respondWrite(c, http.StatusCreated, "Order created", res, err)
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order.ID = id

	var res services.WriteResult[models.Order]
	_, err = sessionFor(c, oc.Sessions).Orders.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = oc.Orders.Update(ctx, order)
		return res.Success, werr
	})
	respondWrite(c, http.StatusOK, "Order updated", res, err)
}

// UpdateOrderStatus accepts any known status; transitions are not restricted.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var body struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var res services.WriteResult[models.Order]
	_, err = sessionFor(c, oc.Sessions).Orders.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = oc.Orders.UpdateStatus(ctx, id, body.Status)
		return res.Success, werr
	})
	respondWrite(c, http.StatusOK, "Order status updated", res, err)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ok, err := sessionFor(c, oc.Sessions).Orders.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		return oc.Orders.Delete(ctx, id)
	})
	respondDelete(c, ok, err, "Order deleted", "Failed to delete order", []int64{id})
}

// ListOrderItems supports ?page and ?limit.
func (oc *OrderController) ListOrderItems(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var page query.Page
	page.Number, _ = strconv.Atoi(c.Query("page"))
	page.Size, _ = strconv.Atoi(c.Query("limit"))

	items, err := oc.OrderItems.ListByOrder(c.Request.Context(), id, page)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order items", items)
}

func (oc *OrderController) AddOrderItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var item models.OrderItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item.OrderID = id

	res, err := oc.OrderItems.Create(c.Request.Context(), item)
	respondWrite(c, http.StatusCreated, "Order item added", res, err)
}

type OrderItemController struct {
	Service *services.OrderItemService
}

func NewOrderItemController(svc *services.OrderItemService) *OrderItemController {
	return &OrderItemController{Service: svc}
}

func (ic *OrderItemController) UpdateOrderItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var item models.OrderItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item.ID = id

	res, err := ic.Service.Update(c.Request.Context(), item)
	respondWrite(c, http.StatusOK, "Order item updated", res, err)
}

func (ic *OrderItemController) DeleteOrderItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ok, err := ic.Service.Delete(c.Request.Context(), id)
	respondDelete(c, ok, err, "Order item removed", "Failed to remove order item", []int64{id})
}
