package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"fleetboard/internal/api"
	"fleetboard/internal/config"
	"fleetboard/internal/history"
	"fleetboard/internal/importer"
	"fleetboard/internal/records"
	"fleetboard/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	records *records.Store
	api     *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "fleetboard.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 恢复历史与记录快照
	ledger := history.NewLedger(sqliteStore)
	if err := ledger.Load(); err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}

	recordStore := records.New(sqliteStore, ledger, cfg.Business.DefaultActor)
	if err := recordStore.Load(); err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}

	coordinator := importer.NewCoordinator(sqliteStore, recordStore)
	apiHandler := api.NewHandler(cfg, sqliteStore, recordStore, coordinator)

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		records: recordStore,
		api:     apiHandler,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// SaveNow 立即持久化（记录与历史在每次变更时已写入 SQLite）
func (s *Server) SaveNow() error {
	return nil
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
