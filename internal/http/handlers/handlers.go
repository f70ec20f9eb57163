package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/warehouse_pulse/backend/internal/db"
	"github.com/warehouse_pulse/backend/internal/export"
	"github.com/warehouse_pulse/backend/internal/service"
)

type Handler struct {
	Store      *db.Store
	Out        *export.Writer
	Extractor  *service.ExtractionService
	Validator  *validator.Validate
	Logger     zerolog.Logger
	AdminKey   string
	RunTimeout time.Duration
}

// statsQuery selects one produced stats artifact pair.
type statsQuery struct {
	Type     string `form:"type" binding:"required,oneof=ms cvns"`
	Activity string `form:"activity" binding:"omitempty,oneof=picking packing"`
}

// snapshotQuery selects one produced dashboard artifact.
type snapshotQuery struct {
	Type     string `form:"type" binding:"required,oneof=ms cvns"`
	Scenario string `form:"scenario" binding:"omitempty,oneof=today backlog future"`
}

type userStatsQuery struct {
	Worker    string `form:"qname" binding:"required"`
	Warehouse string `form:"lgnum" binding:"required,oneof=245 266"`
	Activity  string `form:"activity" binding:"omitempty,oneof=picking packing"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Hourly and daily stats
// @Description Returns the hourly and daily stats produced by the last run
// @Tags dashboard
// @Produce json
// @Param type query string true "Warehouse" Enums(ms, cvns)
// @Param activity query string false "Activity" Enums(picking, packing)
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/dashboard-data [get]
func (h *Handler) DashboardData(c *gin.Context) {
	var q statsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "type must be ms or cvns, activity picking or packing", err.Error())
		return
	}
	hourlyName := q.Type + "_hourly_stats.csv"
	dailyName := q.Type + "_daily_stats.csv"
	if q.Activity == "packing" {
		hourlyName = q.Type + "_packing_hourly_stats.csv"
		dailyName = q.Type + "_packing_daily_stats.csv"
	}

	hourly, err := h.Out.ReadCSV(hourlyName)
	if err != nil {
		h.artifactError(c, hourlyName, err)
		return
	}
	daily, err := h.Out.ReadCSV(dailyName)
	if err != nil {
		h.artifactError(c, dailyName, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "hourly": hourly, "daily": daily})
}

// @Summary Dashboard snapshot
// @Tags dashboard
// @Produce json
// @Param type query string true "Warehouse" Enums(ms, cvns)
// @Param scenario query string false "Scenario" Enums(today, backlog, future)
// @Success 200 {object} map[string]any
// @Router /api/dashboard-bflow [get]
func (h *Handler) DashboardBFlow(c *gin.Context) {
	h.serveSnapshot(c, "dashboard_data_")
}

// @Summary Dashboard line export
// @Tags dashboard
// @Produce json
// @Param type query string true "Warehouse" Enums(ms, cvns)
// @Param scenario query string false "Scenario" Enums(today, backlog, future)
// @Success 200 {array} models.LineExport
// @Router /api/dashboard-lines [get]
func (h *Handler) DashboardLines(c *gin.Context) {
	h.serveSnapshot(c, "dashboard_lines_")
}

// @Summary Dashboard HU export
// @Tags dashboard
// @Produce json
// @Param type query string true "Warehouse" Enums(ms, cvns)
// @Param scenario query string false "Scenario" Enums(today, backlog, future)
// @Success 200 {array} models.HUExport
// @Router /api/dashboard-hu [get]
func (h *Handler) DashboardHU(c *gin.Context) {
	h.serveSnapshot(c, "dashboard_hu_")
}

func (h *Handler) serveSnapshot(c *gin.Context, prefix string) {
	var q snapshotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "type must be ms or cvns, scenario today, backlog or future", err.Error())
		return
	}
	suffix := ""
	switch q.Scenario {
	case "backlog":
		suffix = "_backlog"
	case "future":
		suffix = "_future"
	}
	name := prefix + q.Type + suffix + ".json"
	raw, err := h.Out.ReadJSONRaw(name)
	if err != nil {
		h.artifactError(c, name, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// @Summary Per-worker history
// @Tags stats
// @Produce json
// @Param qname query string true "Worker"
// @Param lgnum query string true "Warehouse number" Enums(245, 266)
// @Param activity query string false "Activity" Enums(picking, packing)
// @Success 200 {object} map[string]any
// @Router /api/user-stats [get]
func (h *Handler) UserStats(c *gin.Context) {
	var q userStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "qname and lgnum (245 or 266) are required"})
		return
	}
	rows, err := h.Extractor.UserHistory(c.Request.Context(), q.Worker, q.Warehouse, q.Activity)
	if err != nil {
		h.Logger.Error().Err(err).Str("worker", q.Worker).Msg("user history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": rows})
}

// @Summary Latest run
// @Tags runs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	result, err := h.Store.GetLatestRun(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Trigger an extraction run
// @Tags runs
// @Produce json
// @Param date query string false "Target date (YYYY-MM-DD, default today)"
// @Success 200 {object} map[string]any
// @Router /api/runs [post]
func (h *Handler) RunTrigger(c *gin.Context) {
	targetDate := c.Query("date")
	if targetDate == "" {
		targetDate = time.Now().Format("2006-01-02")
	}
	if err := h.Validator.Var(targetDate, "datetime=2006-01-02"); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD", err.Error())
		return
	}

	runID, err := h.Store.CreateRun(c.Request.Context(), "RUNNING")
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to create run")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create run", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.RunTimeout)
	defer cancel()
	summary, status, err := h.Extractor.Run(ctx, targetDate)

	b, _ := json.Marshal(summary)
	if finishErr := h.Store.FinishRun(c.Request.Context(), runID, status, b); finishErr != nil {
		h.Logger.Error().Err(finishErr).Msg("failed to finish run")
	}

	if err != nil {
		h.Logger.Error().Err(err).Str("date", targetDate).Msg("run failed")
		writeError(c, http.StatusInternalServerError, "RUN_ERROR", "Extraction failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"run_id": runID, "status": status, "summary": summary})
}

func (h *Handler) artifactError(c *gin.Context, name string, err error) {
	if errors.Is(err, os.ErrNotExist) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Artifact not produced yet: "+name, nil)
		return
	}
	h.Logger.Error().Err(err).Str("artifact", name).Msg("artifact read failed")
	writeError(c, http.StatusInternalServerError, "ARTIFACT_ERROR", "Failed to read artifact", err.Error())
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
