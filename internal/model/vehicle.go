package model

import "regexp"

// 状态枚举值（由 Remarks 实时推导，不单独存储）
const (
	StatusReady      = "Ready"
	StatusInProgress = "In Progress"
)

// readyPattern 备注中出现 READY / READY FOR COLLECTION / FOR COLLECTION
// 整词（含词边界）即视为 Ready
var readyPattern = regexp.MustCompile(`(?i)(^|\b)(READY|READY FOR COLLECTION|FOR COLLECTION)\b`)

// Vehicle 合并后的停驶车辆记录
type Vehicle struct {
	ID             string `json:"id"`             // 稳定标识：license > unit > agreement > 生成
	Agreement      string `json:"agreement"`      // 合同号
	Unit           string `json:"unit"`           // 车队编号
	License        string `json:"license"`        // 车牌号
	Make           string `json:"make"`           // 品牌
	Model          string `json:"model"`          // 型号
	OOSReason      string `json:"oosReason"`      // 停驶原因（原始值）
	GarageOriginal string `json:"garageOriginal"` // 上报的修理厂名称
	Garage         string `json:"garage"`         // 规则映射后的修理厂（可被手工覆盖）
	DaysInGarage   int    `json:"daysInGarage"`   // 在厂天数，永不为负
	Remarks        string `json:"remarks"`        // 备注，驱动状态推导
	Location       string `json:"location"`       // 关联出的停放位置，未匹配为空
}

// IsReady 备注是否表明车辆可取
func IsReady(remarks string) bool {
	return readyPattern.MatchString(remarks)
}

// Status 从备注实时推导状态，避免编辑后的陈旧值
func (v Vehicle) Status() string {
	if IsReady(v.Remarks) {
		return StatusReady
	}
	return StatusInProgress
}
