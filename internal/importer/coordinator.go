package importer

import (
	"errors"
	"sync"
	"time"

	"fleetboard/internal/merge"
	"fleetboard/internal/normalize"
	"fleetboard/internal/records"
	"fleetboard/internal/sheet"
	"fleetboard/internal/store"
)

// joinKeyConfig 连接键在 app_config 中的键，重启后恢复用户选择
const joinKeyConfig = "join_key"

// Coordinator 导入协调器：持有两份原始表和当前连接键，
// 条件齐备时触发合并并整体替换记录集合
type Coordinator struct {
	mu        sync.Mutex
	db        *store.Store
	records   *records.Store
	oos       *sheet.Table
	locations *sheet.Table
	joinKey   string
}

// Report 单次上传的导入报告
type Report struct {
	Filename   string        `json:"filename"`
	Kind       string        `json:"kind"`
	TotalRows  int           `json:"totalRows"`
	MergedRows int           `json:"mergedRows"` // 本次合并产出的记录数，0 表示尚不满足合并条件
	JoinKey    string        `json:"joinKey,omitempty"`
	Headers    []string      `json:"headers,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// NewCoordinator 创建导入协调器
func NewCoordinator(db *store.Store, rec *records.Store) *Coordinator {
	c := &Coordinator{db: db, records: rec}
	if key, err := db.GetConfig(joinKeyConfig); err == nil {
		c.joinKey = key
	}
	return c
}

// ImportOOS 导入停驶表：记录原始行、自动猜测连接键、尝试合并
func (c *Coordinator) ImportOOS(filename string, table *sheet.Table) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	logID, err := c.db.CreateImportLog(filename, "oos", len(table.Rows))
	if err != nil {
		return nil, err
	}

	c.oos = table
	c.joinKey = merge.GuessJoinKey(table.Headers)
	if err := c.db.SetConfig(joinKeyConfig, c.joinKey); err != nil {
		return nil, err
	}

	mergedRows, err := c.tryMergeLocked()
	if err != nil {
		_ = c.db.CompleteImportLog(logID, 0, "error", err.Error())
		return nil, err
	}
	if err := c.db.CompleteImportLog(logID, mergedRows, "done", ""); err != nil {
		return nil, err
	}

	return &Report{
		Filename:   filename,
		Kind:       "oos",
		TotalRows:  len(table.Rows),
		MergedRows: mergedRows,
		JoinKey:    c.joinKey,
		Headers:    table.Headers,
		Duration:   time.Since(start),
	}, nil
}

// ImportLocations 导入位置表并尝试合并
func (c *Coordinator) ImportLocations(filename string, table *sheet.Table) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	logID, err := c.db.CreateImportLog(filename, "locations", len(table.Rows))
	if err != nil {
		return nil, err
	}

	c.locations = table

	mergedRows, err := c.tryMergeLocked()
	if err != nil {
		_ = c.db.CompleteImportLog(logID, 0, "error", err.Error())
		return nil, err
	}
	if err := c.db.CompleteImportLog(logID, mergedRows, "done", ""); err != nil {
		return nil, err
	}

	return &Report{
		Filename:   filename,
		Kind:       "locations",
		TotalRows:  len(table.Rows),
		MergedRows: mergedRows,
		Duration:   time.Since(start),
	}, nil
}

// ImportLegacy 旧版定位 CSV 模式：两个文件一次到位，不走连接键
func (c *Coordinator) ImportLegacy(filename string, oosRows, locRows [][]string) (*Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	logID, err := c.db.CreateImportLog(filename, "legacy", len(oosRows))
	if err != nil {
		return nil, err
	}

	vehicles := merge.MergeLegacy(oosRows, locRows)
	if len(vehicles) > 0 {
		if err := c.records.ReplaceAll(vehicles); err != nil {
			_ = c.db.CompleteImportLog(logID, 0, "error", err.Error())
			return nil, err
		}
	}
	if err := c.db.CompleteImportLog(logID, len(vehicles), "done", ""); err != nil {
		return nil, err
	}

	return &Report{
		Filename:   filename,
		Kind:       "legacy",
		TotalRows:  len(oosRows),
		MergedRows: len(vehicles),
		Duration:   time.Since(start),
	}, nil
}

// SelectJoinKey 用户改选连接键后重新合并
func (c *Coordinator) SelectJoinKey(name string) (int, error) {
	key := normalize.Clean(name)
	if key == "" {
		return 0, errors.New("join key must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.joinKey = key
	if err := c.db.SetConfig(joinKeyConfig, key); err != nil {
		return 0, err
	}
	return c.tryMergeLocked()
}

// JoinKey 当前连接键
func (c *Coordinator) JoinKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joinKey
}

// OOSHeaders 当前停驶表表头，未上传时为 nil
func (c *Coordinator) OOSHeaders() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.oos == nil {
		return nil
	}
	out := make([]string, len(c.oos.Headers))
	copy(out, c.oos.Headers)
	return out
}

// tryMergeLocked 条件齐备则合并并整体替换，否则静默跳过
func (c *Coordinator) tryMergeLocked() (int, error) {
	vehicles := merge.Merge(c.oos, c.locations, c.joinKey, time.Now())
	if vehicles == nil {
		return 0, nil
	}
	if err := c.records.ReplaceAll(vehicles); err != nil {
		return 0, err
	}
	return len(vehicles), nil
}
