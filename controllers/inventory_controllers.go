package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/query"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type InventoryController struct {
	Service  *services.InventoryService
	Sessions *panel.Sessions
}

func NewInventoryController(svc *services.InventoryService, sessions *panel.Sessions) *InventoryController {
	return &InventoryController{Service: svc, Sessions: sessions}
}

// ListInventory supports ?search, ?category and ?supplier.
func (ic *InventoryController) ListInventory(c *gin.Context) {
	req := listRequest(c, query.SortByName)
	req.Filters = []query.Filter{
		query.Exact("category", c.Query("category")),
		query.Exact("supplier", c.Query("supplier")),
	}

	st := sessionFor(c, ic.Sessions).Inventory
	err := st.Fetch(c.Request.Context(), query.Build(req))
	respondList(c, st, err, "List of inventory items")
}

func (ic *InventoryController) GetInventoryItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := sessionFor(c, ic.Sessions).Inventory.FetchByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if item == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Inventory item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item details", gin.H{
		"item":      item,
		"low_stock": item.IsLowStock(),
	})
}

func (ic *InventoryController) CreateInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var res services.WriteResult[models.InventoryItem]
	_, err := sessionFor(c, ic.Sessions).Inventory.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = ic.Service.Create(ctx, item)
		return res.Success, werr
	})
	respondWrite(c, http.StatusCreated, "Inventory item created", res, err)
}

func (ic *InventoryController) UpdateInventoryItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item.ID = id

	var res services.WriteResult[models.InventoryItem]
	_, err = sessionFor(c, ic.Sessions).Inventory.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = ic.Service.Update(ctx, item)
		return res.Success, werr
	})
	respondWrite(c, http.StatusOK, "Inventory item updated", res, err)
}

func (ic *InventoryController) DeleteInventoryItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ok, err := sessionFor(c, ic.Sessions).Inventory.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		return ic.Service.Delete(ctx, id)
	})
	respondDelete(c, ok, err, "Inventory item deleted", "Failed to delete inventory item", []int64{id})
}
