package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/dashboard"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// SummaryLoader builds the dashboard summary.
type SummaryLoader interface {
	Load(ctx context.Context) (*dashboard.Summary, error)
}

type DashboardController struct {
	Loader SummaryLoader
}

func NewDashboardController(loader SummaryLoader) *DashboardController {
	return &DashboardController{Loader: loader}
}

// GetDashboard mengambil ringkasan untuk halaman dashboard
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	summary, err := dc.Loader.Load(c.Request.Context())
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard summary", summary)
}
