package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/store"
)

type staticSource struct {
	page services.Page[models.InventoryItem]
}

func (s staticSource) List(context.Context, gateway.Query) (services.Page[models.InventoryItem], error) {
	return s.page, nil
}

func (s staticSource) GetByID(context.Context, int64) (*models.InventoryItem, error) {
	return nil, nil
}

func TestRespondList_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	st := store.New[models.InventoryItem](staticSource{page: services.Page[models.InventoryItem]{
		Data:       []models.InventoryItem{{ID: 1, Name: "Flour"}},
		TotalCount: 1,
	}})
	require.NoError(t, st.Fetch(context.Background(), gateway.Query{}))

	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus bool
	}{
		{"ok", nil, http.StatusOK, true},
		{"superseded by newer fetch", store.ErrStaleResponse, http.StatusOK, true},
		{"gateway failure", &services.GatewayError{Op: "list", Message: "Failed to load inventory items", Err: errors.New("boom")}, http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondList(c, st, tt.err, "List of inventory items")

			assert.Equal(t, tt.wantCode, w.Code)
			var body struct {
				Status bool `json:"status"`
				Data   struct {
					Items      []models.InventoryItem `json:"items"`
					TotalCount int                    `json:"totalCount"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			// snapshot is always sent
			assert.Len(t, body.Data.Items, 1)
			assert.Equal(t, 1, body.Data.TotalCount)
		})
	}
}
