// Package history 维护按记录 ID 分组的只追加变更账本。
// 账本独立于记录集合持久化：再次导入丢弃了某个 ID，
// 它的历史仍然保留，作为永久审计轨迹。
package history

import (
	"encoding/json"
	"fmt"

	"fleetboard/internal/model"
	"fleetboard/internal/store"
)

// DocumentKey 账本在文档表中的键，沿用旧版数据的存储键便于迁移
const DocumentKey = "oos_history_v1"

// Ledger 只追加的事件账本，内存态 + 文档持久化
// 并发控制由持有方（记录仓库）统一负责
type Ledger struct {
	store  *store.Store
	events map[string][]model.HistoryEvent
}

// NewLedger 创建账本
func NewLedger(st *store.Store) *Ledger {
	return &Ledger{
		store:  st,
		events: make(map[string][]model.HistoryEvent),
	}
}

// Load 从文档表恢复账本，文档不存在时保持为空
func (l *Ledger) Load() error {
	raw, ok, err := l.store.GetDocument(DocumentKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	events := make(map[string][]model.HistoryEvent)
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		return fmt.Errorf("failed to decode history document: %w", err)
	}
	l.events = events
	return nil
}

// Save 持久化账本快照
func (l *Ledger) Save() error {
	raw, err := l.Snapshot()
	if err != nil {
		return err
	}
	return l.store.PutDocument(DocumentKey, raw)
}

// Snapshot 账本的 JSON 快照，供合并落盘使用
func (l *Ledger) Snapshot() (string, error) {
	raw, err := json.Marshal(l.events)
	if err != nil {
		return "", fmt.Errorf("failed to encode history document: %w", err)
	}
	return string(raw), nil
}

// Append 追加一条事件，只改内存，落盘由调用方在变更单元末尾触发
func (l *Ledger) Append(id string, ev model.HistoryEvent) {
	l.events[id] = append(l.events[id], ev)
}

// Events 按插入顺序返回某记录的全部事件（即时间顺序，不重排）
func (l *Ledger) Events(id string) []model.HistoryEvent {
	evs := l.events[id]
	out := make([]model.HistoryEvent, len(evs))
	copy(out, evs)
	return out
}

// HasImport 该 ID 是否已有导入事件（用于避免重复记导入）
func (l *Ledger) HasImport(id string) bool {
	for _, ev := range l.events[id] {
		if ev.Kind == model.EventImport {
			return true
		}
	}
	return false
}

// All 全量快照，供持久化和调试
func (l *Ledger) All() map[string][]model.HistoryEvent {
	out := make(map[string][]model.HistoryEvent, len(l.events))
	for id, evs := range l.events {
		copied := make([]model.HistoryEvent, len(evs))
		copy(copied, evs)
		out[id] = copied
	}
	return out
}

// Clear 清空账本（仅显式重置时使用）
func (l *Ledger) Clear() {
	l.events = make(map[string][]model.HistoryEvent)
}
