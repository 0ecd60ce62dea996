package model

import "time"

// EventKind 历史事件类型
type EventKind string

const (
	EventImport EventKind = "import"
	EventEdit   EventKind = "edit"
)

// HistoryEvent 单条变更事件，按记录 ID 分组、只追加
// 导入事件的 NewValue 为字段快照，编辑事件的 Old/NewValue 为字段字符串
type HistoryEvent struct {
	Timestamp time.Time `json:"ts"`
	Kind      EventKind `json:"type"`
	Actor     string    `json:"by"`
	Field     string    `json:"field"` // 编辑的字段名，导入事件固定为 "import"
	OldValue  any       `json:"oldValue"`
	NewValue  any       `json:"newValue"`
}
