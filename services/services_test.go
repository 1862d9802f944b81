package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-backoffice/events"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/notify"
	"github.com/yeremiapane/restaurant-backoffice/query"
)

func soup() models.MenuItem {
	minutes := 10
	return models.MenuItem{
		Name:                "Tomato Soup",
		Price:               decimal.RequireFromString("6.50"),
		Category:            models.CategoryLunch,
		DietaryRestrictions: models.NewDietarySet(models.DietaryVegan, models.DietaryGlutenFree),
		Available:           true,
		PreparationTime:     &minutes,
	}
}

func TestList_EmptyIsNotAnError(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{Success: true}}
	deps, notes, _ := newDeps(gw)

	page, err := NewMenuItemService(deps).List(context.Background(), gateway.Query{})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, notes.byLevel(notify.LevelError))
}

func TestList_PastLastPageKeepsTotal(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{Success: true, Data: []gateway.Record{}, TotalCount: 45}}
	deps, notes, _ := newDeps(gw)

	q := query.Build(query.Request{Page: query.Page{Number: 4, Size: 20}})
	page, err := NewMenuItemService(deps).List(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Equal(t, 45, page.TotalCount)
	assert.Empty(t, notes.byLevel(notify.LevelError))
}

func TestList_AppliesDefaults(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{Success: true}}
	deps, _, _ := newDeps(gw)
	ctx := context.Background()

	_, err := NewMenuItemService(deps).List(ctx, gateway.Query{})
	require.NoError(t, err)
	assert.Equal(t, &gateway.PagingInfo{Limit: 20, Offset: 0}, gw.lastQuery.PagingInfo)
	assert.Equal(t, query.SortByName, gw.lastQuery.OrderBy)
	assert.Equal(t, menuItemFields, gateway.FieldNames(gw.lastQuery.Fields))
	assert.Nil(t, gw.lastQuery.WhereGroups)

	_, err = NewOrderService(deps).List(ctx, gateway.Query{})
	require.NoError(t, err)
	assert.Equal(t, gateway.TableOrder, gw.lastTable)
	assert.Equal(t, query.SortByOrderDateDesc, gw.lastQuery.OrderBy)

	_, err = NewOrderItemService(deps).List(ctx, gateway.Query{})
	require.NoError(t, err)
	assert.Equal(t, 100, gw.lastQuery.PagingInfo.Limit)
}

func TestList_DecodesAndFallsBackToLength(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{
		Success: true,
		Data: []gateway.Record{
			{"Id": float64(1), "Name": "Soup", "price": 6.5, "dietary_restrictions": "Vegan;Vegan", "available": true, "preparation_time": float64(12)},
			{"Id": float64(2), "Name": "Tea", "price": "2.25", "available": float64(0)},
		},
	}}
	deps, _, _ := newDeps(gw)

	page, err := NewMenuItemService(deps).List(context.Background(), gateway.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Data, 2)

	assert.Equal(t, int64(1), page.Data[0].ID)
	assert.Equal(t, "Vegan", page.Data[0].DietaryRestrictions.Join())
	assert.Equal(t, 12, *page.Data[0].PreparationTime)
	assert.True(t, decimal.RequireFromString("2.25").Equal(page.Data[1].Price))
	assert.False(t, page.Data[1].Available)
	assert.Nil(t, page.Data[1].PreparationTime)
}

func TestList_TransportFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	deps, notes, _ := newDeps(gw)

	_, err := NewMenuItemService(deps).List(context.Background(), gateway.Query{})
	require.Error(t, err)

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "list", gwErr.Op)
	assert.Equal(t, []string{"Failed to load menu items"}, notes.byLevel(notify.LevelError))
}

func TestList_FrameworkFailureEnvelope(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{Success: false, Message: "invalid project"}}
	deps, notes, _ := newDeps(gw)

	_, err := NewInventoryService(deps).List(context.Background(), gateway.Query{})
	assert.True(t, IsGatewayError(err))
	assert.Equal(t, []string{"Failed to load inventory items"}, notes.byLevel(notify.LevelError))
}

func TestList_MalformedRecord(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{
		Success: true,
		Data:    []gateway.Record{{"Id": "abc"}},
	}}
	deps, _, _ := newDeps(gw)

	_, err := NewOrderService(deps).List(context.Background(), gateway.Query{})
	assert.True(t, IsGatewayError(err))
}

func TestGetByID(t *testing.T) {
	gw := &fakeGateway{getResp: &gateway.RecordResponse{Success: true, Data: gateway.Record{
		"Id": float64(9), "Name": "ORD-9", "status": "Ready", "total_amount": 41.5,
		"order_date": "2024-05-01T18:30:00Z",
	}}}
	deps, _, _ := newDeps(gw)

	order, err := NewOrderService(deps).GetByID(context.Background(), 9)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, models.OrderStatusReady, order.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC), order.OrderDate)
	assert.Equal(t, []int64{9}, gw.lastIDs)
}

func TestGetByID_Absent(t *testing.T) {
	gw := &fakeGateway{getResp: &gateway.RecordResponse{Success: true}}
	deps, notes, _ := newDeps(gw)

	item, err := NewMenuItemService(deps).GetByID(context.Background(), 404)
	assert.NoError(t, err)
	assert.Nil(t, item)
	assert.Equal(t, []string{"Menu item not found"}, notes.byLevel(notify.LevelError))
}

func TestGetByID_TransportFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("timeout")}
	deps, notes, _ := newDeps(gw)

	_, err := NewMenuItemService(deps).GetByID(context.Background(), 1)
	assert.True(t, IsGatewayError(err))
	assert.Equal(t, []string{"Failed to load menu item details"}, notes.byLevel(notify.LevelError))
}

func TestCreate_SingleReturnsFirstRecord(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{
		Success: true,
		Results: []gateway.WriteResult{{Success: true, Data: gateway.Record{"Id": float64(5), "Name": "Tomato Soup", "price": 6.5}}},
	}}
	deps, notes, published := newDeps(gw)

	res, err := NewMenuItemService(deps).Create(context.Background(), soup())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.Record)
	assert.Equal(t, int64(5), res.Record.ID)

	require.Len(t, gw.lastRecords, 1)
	sent := gw.lastRecords[0]
	assert.NotContains(t, sent, "Id")
	assert.Equal(t, "Vegan;Gluten-Free", sent["dietary_restrictions"])
	assert.Equal(t, 6.5, sent["price"])
	assert.Equal(t, 10, sent["preparation_time"])

	assert.Equal(t, []string{"Menu item created successfully"}, notes.byLevel(notify.LevelSuccess))
	require.Len(t, published.changes, 1)
	assert.Equal(t, events.ActionCreate, published.changes[0].Action)
	assert.Equal(t, []int64{5}, published.changes[0].IDs)
}

func TestCreate_ManyInOneCall(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{Success: true}}
	deps, _, _ := newDeps(gw)

	a, b := soup(), soup()
	b.Name = "Pea Soup"
	_, err := NewMenuItemService(deps).Create(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, gw.calls)
	assert.Len(t, gw.lastRecords, 2)
}

func TestCreate_DualFailureChannel(t *testing.T) {
	t.Run("business rejection is returned", func(t *testing.T) {
		gw := &fakeGateway{writeResp: &gateway.WriteResponse{Success: false, Message: "Name already exists"}}
		deps, notes, published := newDeps(gw)

		res, err := NewMenuItemService(deps).Create(context.Background(), soup())
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Name already exists", res.Error)
		assert.Equal(t, []string{"Failed to create menu item"}, notes.byLevel(notify.LevelError))
		assert.Empty(t, published.changes)
	})

	t.Run("partial failure is a rejection", func(t *testing.T) {
		gw := &fakeGateway{writeResp: &gateway.WriteResponse{
			Success: true,
			Results: []gateway.WriteResult{{Success: true}, {Success: false, Message: "price is required"}},
		}}
		deps, _, _ := newDeps(gw)

		res, err := NewMenuItemService(deps).Create(context.Background(), soup(), soup())
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "price is required", res.Error)
	})

	t.Run("transport failure is raised", func(t *testing.T) {
		gw := &fakeGateway{err: &gateway.Error{Op: "create", Table: gateway.TableMenuItem, StatusCode: 503}}
		deps, notes, _ := newDeps(gw)

		_, err := NewMenuItemService(deps).Create(context.Background(), soup())
		require.Error(t, err)
		var upstream *gateway.Error
		assert.True(t, errors.As(err, &upstream))
		assert.True(t, IsGatewayError(err))
		assert.Equal(t, []string{"Failed to create menu item"}, notes.byLevel(notify.LevelError))
	})
}

func TestCreate_LocalValidation(t *testing.T) {
	gw := &fakeGateway{}
	deps, notes, _ := newDeps(gw)

	bad := soup()
	bad.Name = ""
	_, err := NewMenuItemService(deps).Create(context.Background(), bad)

	var verrs models.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, gw.calls)
	assert.Len(t, notes.byLevel(notify.LevelError), 1)

	_, err = NewMenuItemService(deps).Create(context.Background())
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Empty(t, gw.calls)
}

func TestUpdate_MissingIDFailsLocally(t *testing.T) {
	gw := &fakeGateway{}
	deps, notes, _ := newDeps(gw)

	_, err := NewMenuItemService(deps).Update(context.Background(), soup())
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Empty(t, gw.calls)
	assert.Equal(t, []string{"Failed to update menu item"}, notes.byLevel(notify.LevelError))
}

func TestUpdate_SendsId(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{
		Success: true,
		Results: []gateway.WriteResult{{Success: true, Data: gateway.Record{"Id": float64(3), "Name": "Tomato Soup"}}},
	}}
	deps, notes, published := newDeps(gw)

	item := soup()
	item.ID = 3
	res, err := NewMenuItemService(deps).Update(context.Background(), item)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int64(3), gw.lastRecords[0]["Id"])
	assert.Equal(t, []string{"Menu item updated successfully"}, notes.byLevel(notify.LevelSuccess))
	assert.Equal(t, events.ActionUpdate, published.changes[0].Action)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{Success: true}}
	deps, _, _ := newDeps(gw)
	svc := NewOrderService(deps)

	_, err := svc.UpdateStatus(context.Background(), 8, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, []gateway.Record{{"Id": int64(8), "status": "Delivered"}}, gw.lastRecords)

	// going backwards is allowed
	_, err = svc.UpdateStatus(context.Background(), 8, models.OrderStatusPending)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), 8, "Lost")
	assert.Error(t, err)
	assert.Len(t, gw.calls, 2)
}

func TestMenuItemService_SetImage(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{Success: true}}
	deps, _, _ := newDeps(gw)
	svc := NewMenuItemService(deps)

	res, err := svc.SetImage(context.Background(), 3, "https://cdn/x.png")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []gateway.Record{{"Id": int64(3), "image_url": "https://cdn/x.png"}}, gw.lastRecords)

	_, err = svc.SetImage(context.Background(), 0, "https://cdn/x.png")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Len(t, gw.calls, 1)
}

func TestDelete(t *testing.T) {
	gw := &fakeGateway{writeResp: &gateway.WriteResponse{Success: true}}
	deps, notes, published := newDeps(gw)
	svc := NewOrderItemService(deps)

	ok, err := svc.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{4}, gw.lastIDs)

	ok, err = svc.Delete(context.Background(), 4, 5, 6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int64{4, 5, 6}, gw.lastIDs)
	assert.Equal(t, []string{"Order item removed successfully", "Order item removed successfully"}, notes.byLevel(notify.LevelSuccess))
	assert.Len(t, published.changes, 2)

	gw.writeResp = &gateway.WriteResponse{Success: false}
	ok, err = svc.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"Failed to remove order item"}, notes.byLevel(notify.LevelError))

	gw.err = errors.New("boom")
	_, err = svc.Delete(context.Background(), 7)
	assert.True(t, IsGatewayError(err))
}

func TestOrderItemService_ListByOrder(t *testing.T) {
	gw := &fakeGateway{fetchResp: &gateway.FetchResponse{Success: true, Data: []gateway.Record{
		{"Id": float64(1), "Name": "Soup", "order": map[string]any{"Id": float64(12), "Name": "ORD-12"}, "menu_item": float64(3), "quantity": float64(2), "price": 5.5},
	}}}
	deps, _, _ := newDeps(gw)

	page, err := NewOrderItemService(deps).ListByOrder(context.Background(), 12, query.Page{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(12), page.Data[0].OrderID)
	assert.True(t, decimal.RequireFromString("11").Equal(page.Data[0].Subtotal()))

	conds := gw.lastQuery.Conditions()
	require.Len(t, conds, 1)
	assert.Equal(t, "order", conds[0].FieldName)
	assert.Equal(t, gateway.OperatorExactMatch, conds[0].Operator)
	assert.Equal(t, []any{int64(12)}, conds[0].Values)
	assert.Equal(t, 100, gw.lastQuery.PagingInfo.Limit)
}

func TestNilNotifierDefaultsToNop(t *testing.T) {
	gw := &fakeGateway{err: errors.New("down")}
	svc := NewSet(Deps{Gateway: gw}).Inventory

	assert.NotPanics(t, func() {
		_, _ = svc.List(context.Background(), gateway.Query{})
	})
}
