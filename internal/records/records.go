// Package records 持有权威的合并记录集合。
// 所有「读状态 → 变更 → 落盘」都在同一把锁内完成，
// 避免并发请求下的丢失更新；跨进程写入不在保护范围内。
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fleetboard/internal/history"
	"fleetboard/internal/model"
	"fleetboard/internal/store"
)

// documentKey 记录集合在文档表中的键，沿用旧版数据的存储键便于迁移
const documentKey = "oos_records_v1"

// ErrNotFound 按 ID 查找不到记录
var ErrNotFound = errors.New("record not found")

// Patch 单条记录的编辑载荷，nil 表示该字段不动
type Patch struct {
	Garage   *string `json:"garage"`
	Location *string `json:"location"`
	Remarks  *string `json:"remarks"`
}

// Store 记录仓库
type Store struct {
	mu       sync.Mutex
	db       *store.Store
	ledger   *history.Ledger
	actor    string
	vehicles []model.Vehicle
}

// New 创建记录仓库
func New(db *store.Store, ledger *history.Ledger, actor string) *Store {
	return &Store{db: db, ledger: ledger, actor: actor}
}

// Load 从文档表恢复记录集合，文档不存在时保持为空
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.db.GetDocument(documentKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var vehicles []model.Vehicle
	if err := json.Unmarshal([]byte(raw), &vehicles); err != nil {
		return fmt.Errorf("failed to decode records document: %w", err)
	}
	s.vehicles = vehicles
	return nil
}

// All 当前集合的副本
func (s *Store) All() []model.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// Get 按 ID 查找
func (s *Store) Get(id string) (model.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return model.Vehicle{}, false
}

// ReplaceAll 整体替换集合（全量重导入，不是增量合并）并落盘
// 对还没有导入事件的 ID 各追加一条带字段快照的导入事件，
// 已有导入事件的 ID 不重复记录，保证重复导入幂等
func (s *Store) ReplaceAll(vehicles []model.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles = vehicles

	now := time.Now()
	for _, v := range s.vehicles {
		if s.ledger.HasImport(v.ID) {
			continue
		}
		s.ledger.Append(v.ID, model.HistoryEvent{
			Timestamp: now,
			Kind:      model.EventImport,
			Actor:     "import",
			Field:     "import",
			NewValue:  importSnapshot(v),
		})
	}

	return s.persistLocked()
}

// ApplyEdit 按 ID 编辑记录，字段值做去空白后的精确比较，
// 只有真正变化的字段才更新并记事件；无论是否有变化都重新落盘。
// 对 garage 的编辑是手工覆盖，不会重跑映射规则。
func (s *Store) ApplyEdit(id string, p Patch) (model.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, v := range s.vehicles {
		if v.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Vehicle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	v := &s.vehicles[idx]
	now := time.Now()

	apply := func(field string, target *string, newValue *string) {
		if newValue == nil {
			return
		}
		next := strings.TrimSpace(*newValue)
		if next == *target {
			return
		}
		s.ledger.Append(id, model.HistoryEvent{
			Timestamp: now,
			Kind:      model.EventEdit,
			Actor:     s.actor,
			Field:     field,
			OldValue:  *target,
			NewValue:  next,
		})
		*target = next
	}

	apply("garage", &v.Garage, p.Garage)
	apply("location", &v.Location, p.Location)
	apply("remarks", &v.Remarks, p.Remarks)

	if err := s.persistLocked(); err != nil {
		return model.Vehicle{}, err
	}
	return *v, nil
}

// Reset 清空集合与账本（显式破坏性操作，区别于 ReplaceAll）
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles = nil
	s.ledger.Clear()
	return s.persistLocked()
}

// History 某记录的事件序列
func (s *Store) History(id string) []model.HistoryEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Events(id)
}

// persistLocked 在持锁状态下把两份文档写入同一事务
func (s *Store) persistLocked() error {
	recordsRaw, err := json.Marshal(s.vehicles)
	if err != nil {
		return fmt.Errorf("failed to encode records document: %w", err)
	}
	historyRaw, err := s.ledger.Snapshot()
	if err != nil {
		return err
	}

	return s.db.PutDocuments(map[string]string{
		documentKey:         string(recordsRaw),
		history.DocumentKey: historyRaw,
	})
}

// importSnapshot 导入事件携带的派生字段快照
func importSnapshot(v model.Vehicle) map[string]any {
	return map[string]any{
		"license":      v.License,
		"make":         v.Make,
		"model":        v.Model,
		"oosReason":    v.OOSReason,
		"garage":       v.Garage,
		"daysInGarage": v.DaysInGarage,
		"location":     v.Location,
		"remarks":      v.Remarks,
	}
}
