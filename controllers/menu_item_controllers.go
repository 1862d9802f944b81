package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/media"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/query"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

type MenuItemController struct {
	Service  *services.MenuItemService
	Sessions *panel.Sessions
	// Uploader is nil when no image bucket is configured.
	Uploader media.Uploader
}

func NewMenuItemController(svc *services.MenuItemService, sessions *panel.Sessions, uploader media.Uploader) *MenuItemController {
	return &MenuItemController{Service: svc, Sessions: sessions, Uploader: uploader}
}

// ListMenuItems supports ?search, ?category, ?dietary=vegan,gluten-free and ?available=true|false.
func (mc *MenuItemController) ListMenuItems(c *gin.Context) {
	req := listRequest(c, query.SortByName)
	req.Filters = []query.Filter{
		query.Exact("category", c.Query("category")),
		query.Facet("dietary_restrictions", splitList(c, "dietary")...),
		query.Bool("available", c.Query("available")),
	}

	st := sessionFor(c, mc.Sessions).MenuItems
	err := st.Fetch(c.Request.Context(), query.Build(req))
	respondList(c, st, err, "List of menu items")
}

func (mc *MenuItemController) GetMenuItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := sessionFor(c, mc.Sessions).MenuItems.FetchByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if item == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("Menu item not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item details", gin.H{
		"item": item,
		"form": models.FormFromMenuItem(*item),
	})
}

func (mc *MenuItemController) CreateMenuItem(c *gin.Context) {
	var form models.MenuItemForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := form.Parse()
	if err != nil {
		respondError(c, err)
		return
	}

	var res services.WriteResult[models.MenuItem]
	_, err = sessionFor(c, mc.Sessions).MenuItems.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = mc.Service.Create(ctx, item)
		return res.Success, werr
	})
	respondWrite(c, http.StatusCreated, "Menu item created", res, err)
}

// UpdateMenuItem takes the full edit form; fields left out are cleared.
func (mc *MenuItemController) UpdateMenuItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	var form models.MenuItemForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := form.Parse()
	if err != nil {
		respondError(c, err)
		return
	}
	item.ID = id

	var res services.WriteResult[models.MenuItem]
	_, err = sessionFor(c, mc.Sessions).MenuItems.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = mc.Service.Update(ctx, item)
		return res.Success, werr
	})
	respondWrite(c, http.StatusOK, "Menu item updated", res, err)
}

func (mc *MenuItemController) DeleteMenuItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	mc.deleteItems(c, []int64{id})
}

// BulkDeleteMenuItems removes {"ids": [...]} in one gateway call.
func (mc *MenuItemController) BulkDeleteMenuItems(c *gin.Context) {
	var body struct {
		IDs []int64 `json:"ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	mc.deleteItems(c, body.IDs)
}

func (mc *MenuItemController) deleteItems(c *gin.Context, ids []int64) {
	st := sessionFor(c, mc.Sessions).MenuItems
	ok, err := st.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		return mc.Service.Delete(ctx, ids...)
	})
	respondDelete(c, ok, err, "Menu item deleted", "Failed to delete menu item", ids)
}

// UploadImage accepts a multipart "image" file and stores its URL on the item.
func (mc *MenuItemController) UploadImage(c *gin.Context) {
	if mc.Uploader == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errors.New("image storage is not configured"))
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image file is required"))
		return
	}
	if file.Size > media.MaxImageSize {
		utils.RespondError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds %d bytes", media.MaxImageSize))
		return
	}
	src, err := file.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, media.MaxImageSize+1))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	url, err := mc.Uploader.Upload(c.Request.Context(), strconv.FormatInt(id, 10), data)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, media.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		utils.ErrorLogger.Errorf("Error uploading image for menu item %d: %v", id, err)
		utils.RespondError(c, status, err)
		return
	}

	var res services.WriteResult[models.MenuItem]
	_, err = sessionFor(c, mc.Sessions).MenuItems.Mutate(c.Request.Context(), func(ctx context.Context) (bool, error) {
		var werr error
		res, werr = mc.Service.SetImage(ctx, id, url)
		return res.Success, werr
	})
	respondWrite(c, http.StatusOK, "Menu item image updated", res, err)
}
