package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/middlewares"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/panel"
	"github.com/yeremiapane/restaurant-backoffice/query"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/store"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

var ErrInvalidID = errors.New("invalid id")

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// listRequest reads the shared list parameters: search, page, limit, sort
// and direction. Callers append their own filters.
func listRequest(c *gin.Context, defaultSort []gateway.OrderBy) query.Request {
	req := query.Request{
		Search: c.Query("search"),
		Sort:   defaultSort,
	}
	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page.Number = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		req.Page.Size = n
	}
	if field := c.Query("sort"); field != "" {
		dir := gateway.DirectionAsc
		if strings.EqualFold(c.Query("direction"), string(gateway.DirectionDesc)) {
			dir = gateway.DirectionDesc
		}
		req.Sort = []gateway.OrderBy{{Field: field, Direction: dir}}
	}
	return req
}

// splitList reads "a,b" or repeated ?key=a&key=b parameters.
func splitList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func sessionFor(c *gin.Context, sessions *panel.Sessions) *panel.Session {
	return sessions.For(middlewares.CurrentUserID(c))
}

// respondList sends the store snapshot. A failed fetch still carries the
// items from the previous successful load. A fetch superseded by a newer one
// from the same user answers 200 with the newer snapshot.
func respondList[T any](c *gin.Context, st *store.Store[T], err error, message string) {
	snapshot := st.Snapshot()
	if errors.Is(err, store.ErrStaleResponse) {
		err = nil
	}
	if err != nil {
		utils.RespondErrorData(c, statusFor(err), err, snapshot)
		return
	}
	utils.RespondJSON(c, http.StatusOK, message, snapshot)
}

// respondWrite maps a write outcome onto the HTTP envelope.
// A failed refresh after a successful write is logged, not reported.
func respondWrite[T any](c *gin.Context, okStatus int, message string, res services.WriteResult[T], err error) {
	if res.Success {
		if err != nil {
			utils.ErrorLogger.Warnf("List refresh after write failed: %v", err)
		}
		utils.RespondJSON(c, okStatus, message, res)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondErrorData(c, http.StatusUnprocessableEntity, errors.New(res.Error), res)
}

func respondError(c *gin.Context, err error) {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		utils.RespondValidation(c, "Validation failed", verrs)
		return
	}
	utils.RespondError(c, statusFor(err), err)
}

func statusFor(err error) int {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, services.ErrMissingID),
		errors.Is(err, services.ErrNoRecords):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, store.ErrClosed):
		return http.StatusGone
	case services.IsGatewayError(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondDelete(c *gin.Context, ok bool, err error, okMsg, failMsg string, ids []int64) {
	if ok {
		if err != nil {
			utils.ErrorLogger.Warnf("List refresh after delete failed: %v", err)
		}
		utils.RespondJSON(c, http.StatusOK, okMsg, gin.H{"ids": ids})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	utils.RespondError(c, http.StatusUnprocessableEntity, errors.New(failMsg))
}
