package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetboard/internal/model"
	"fleetboard/internal/query"
	"fleetboard/internal/records"
)

// vehicleRow 记录行视图：在存储字段之上补上实时推导的状态
type vehicleRow struct {
	model.Vehicle
	Status string `json:"status"`
}

type listRecordsResponse struct {
	Rows    []vehicleRow  `json:"rows"`
	Summary query.Summary `json:"summary"`
}

func toRows(vehicles []model.Vehicle) []vehicleRow {
	rows := make([]vehicleRow, len(vehicles))
	for i, v := range vehicles {
		rows[i] = vehicleRow{Vehicle: v, Status: v.Status()}
	}
	return rows
}

// ListRecords 过滤后的记录视图 + 汇总计数
// GET /api/records
func (h *Handler) ListRecords(c *gin.Context) {
	var opts query.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	filtered := query.Filter(h.records.All(), opts)
	c.JSON(http.StatusOK, listRecordsResponse{
		Rows:    toRows(filtered),
		Summary: query.Summarize(filtered, h.cfg.Business.OverdueDays),
	})
}

// UpdateRecord 编辑单条记录（修理厂为手工覆盖，不重跑映射）
// PATCH /api/records/:id
func (h *Handler) UpdateRecord(c *gin.Context) {
	id := c.Param("id")

	var patch records.Patch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, err := h.records.ApplyEdit(id, patch)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record":  vehicleRow{Vehicle: updated, Status: updated.Status()},
		"summary": query.Summarize(h.records.All(), h.cfg.Business.OverdueDays),
	})
}

// GetRecordHistory 某记录的变更历史
// 被后续导入丢弃的 ID 只要留有历史仍可查询
// GET /api/records/:id/history
func (h *Handler) GetRecordHistory(c *gin.Context) {
	id := c.Param("id")

	events := h.records.History(id)
	if len(events) == 0 {
		if _, ok := h.records.Get(id); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found: " + id})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "events": events})
}

// GetCharts 图表用的分组计数（与记录视图同一套过滤条件）
// GET /api/charts
func (h *Handler) GetCharts(c *gin.Context) {
	var opts query.Options
	if err := c.ShouldBindQuery(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}

	filtered := query.Filter(h.records.All(), opts)
	c.JSON(http.StatusOK, gin.H{
		"byGarage":      query.CountByGarage(filtered),
		"readyByGarage": query.ReadyByGarage(filtered),
		"byReason":      query.CountByReason(filtered),
	})
}

// ResetAll 清空记录集合与变更历史
// POST /api/reset
func (h *Handler) ResetAll(c *gin.Context) {
	if err := h.records.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
