package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetboard/internal/query"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool     `json:"initialized"`    // 是否已有记录
	TotalVehicles  int      `json:"totalVehicles"`  // 记录总数
	Ready          int      `json:"ready"`          // 可取车辆数
	InProgress     int      `json:"inProgress"`     // 在修车辆数
	JoinKey        string   `json:"joinKey"`        // 当前连接键
	OOSHeaders     []string `json:"oosHeaders"`     // 停驶表表头（未上传为空）
	LastImportTime string   `json:"lastImportTime"` // 最后导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	vehicles := h.records.All()
	summary := query.Summarize(vehicles, h.cfg.Business.OverdueDays)

	lastImport, err := h.db.LastImportTime()
	if err != nil {
		lastImport = ""
	}

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    summary.Total > 0,
		TotalVehicles:  summary.Total,
		Ready:          summary.Ready,
		InProgress:     summary.InProgress,
		JoinKey:        h.coordinator.JoinKey(),
		OOSHeaders:     h.coordinator.OOSHeaders(),
		LastImportTime: lastImport,
	})
}
