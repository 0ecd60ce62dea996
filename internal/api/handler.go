package api

import (
	"github.com/gin-gonic/gin"

	"fleetboard/internal/config"
	"fleetboard/internal/importer"
	"fleetboard/internal/records"
	"fleetboard/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg         *config.AppConfig
	db          *store.Store
	records     *records.Store
	coordinator *importer.Coordinator
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, db *store.Store, rec *records.Store, coord *importer.Coordinator) *Handler {
	return &Handler{
		cfg:         cfg,
		db:          db,
		records:     rec,
		coordinator: coord,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据导入
	router.POST("/upload/oos", h.UploadOOS)
	router.POST("/upload/locations", h.UploadLocations)
	router.POST("/upload/legacy", h.UploadLegacy)
	router.POST("/join-key", h.SelectJoinKey)

	// 记录查询与编辑
	router.GET("/records", h.ListRecords)
	router.PATCH("/records/:id", h.UpdateRecord)
	router.GET("/records/:id/history", h.GetRecordHistory)

	// 图表分组计数
	router.GET("/charts", h.GetCharts)

	// 全量重置
	router.POST("/reset", h.ResetAll)
}
