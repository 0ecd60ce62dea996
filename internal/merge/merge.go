package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetboard/internal/garage"
	"fleetboard/internal/model"
	"fleetboard/internal/normalize"
	"fleetboard/internal/sheet"
)

// joinKeyGuesses 连接键自动猜测的优先顺序（按规范形式比较）
var joinKeyGuesses = []string{"GROUPING", "LICENSE_NO", "UNIT_NO", "AGREEMENT_NO"}

// GuessJoinKey 从上传表头中挑一个最可能的连接键，猜不到取第一列
func GuessJoinKey(headers []string) string {
	for _, guess := range joinKeyGuesses {
		for _, h := range headers {
			if normalize.Match(h) == guess {
				return h
			}
		}
	}
	if len(headers) > 0 {
		return headers[0]
	}
	return ""
}

// locateLocationColumns 定位位置表的分组列与位置列
// 完全匹配 > 规范化匹配 > 位置兜底（第 1、2 列）
func locateLocationColumns(headers []string) (groupCol, locCol string) {
	find := func(exact, normalized string, fallbackIdx int) string {
		for _, h := range headers {
			if h == exact {
				return h
			}
		}
		for _, h := range headers {
			if normalize.Match(h) == normalized {
				return h
			}
		}
		if fallbackIdx < len(headers) {
			return headers[fallbackIdx]
		}
		return ""
	}
	groupCol = find("Grouping", "GROUPING", 0)
	locCol = find("Location", "LOCATION", 1)
	return groupCol, locCol
}

// BuildLocationIndex 分组值（去首尾空白）→ 位置名，重复键后写覆盖先写
func BuildLocationIndex(loc *sheet.Table) map[string]string {
	groupCol, locCol := locateLocationColumns(loc.Headers)

	index := make(map[string]string)
	for _, row := range loc.Rows {
		key := strings.TrimSpace(row[groupCol])
		if key == "" {
			continue
		}
		index[key] = strings.TrimSpace(row[locCol])
	}
	return index
}

// Merge 把停驶表逐行与位置表连接并做全部派生计算
// 任一输入为空或未选连接键属于前置条件未满足，直接返回 nil，不算错误
func Merge(oos, loc *sheet.Table, joinKey string, now time.Time) []model.Vehicle {
	if oos == nil || loc == nil || len(oos.Rows) == 0 || len(loc.Rows) == 0 || joinKey == "" {
		return nil
	}

	fields := resolveAliases(oos.Headers)
	index := BuildLocationIndex(loc)

	vehicles := make([]model.Vehicle, 0, len(oos.Rows))
	for idx, row := range oos.Rows {
		license := fields.get(row, FieldLicense)
		unit := fields.get(row, FieldUnit)
		agreement := fields.get(row, FieldAgreement)
		vehicleMake := fields.get(row, FieldMake)
		vehicleModel := fields.get(row, FieldModel)
		reason := fields.get(row, FieldReason)
		garageOrig := fields.get(row, FieldGarage)
		remarks := fields.get(row, FieldRemarks)

		days := deriveDays(fields, row, now)

		joinVal := strings.TrimSpace(row[joinKey])
		location := ""
		if joinVal != "" {
			location = index[joinVal]
		}

		vehicles = append(vehicles, model.Vehicle{
			ID:             assignID(license, unit, agreement, idx),
			Agreement:      agreement,
			Unit:           unit,
			License:        license,
			Make:           vehicleMake,
			Model:          vehicleModel,
			OOSReason:      reason,
			GarageOriginal: garageOrig,
			Garage:         garage.Map(garageOrig, reason, vehicleMake),
			DaysInGarage:   days,
			Remarks:        remarks,
			Location:       location,
		})
	}
	return vehicles
}

// deriveDays 在厂天数：显式天数优先，否则按出厂日期与当前日期差计算，再否则 0
func deriveDays(fields resolver, row sheet.Row, now time.Time) int {
	if days, ok := normalize.ParseActualDays(fields.get(row, FieldActualDays)); ok {
		if days < 0 {
			return 0
		}
		return days
	}

	checkOut, ok := normalize.ParseDate(fields.get(row, FieldCheckOut))
	if !ok {
		return 0
	}
	current, ok := normalize.ParseDate(fields.get(row, FieldCurrentDate))
	if !ok {
		current = now
	}
	return normalize.DaysBetween(checkOut, current)
}

// assignID 稳定标识优先级：车牌 > 车队编号 > 合同号 > 生成
// 生成的兜底 ID 每次导入都会变化，无自然键的车辆历史会因此分散
func assignID(license, unit, agreement string, idx int) string {
	switch {
	case license != "":
		return license
	case unit != "":
		return unit
	case agreement != "":
		return agreement
	}
	return fmt.Sprintf("ROW_%d_%s", idx, uuid.NewString()[:8])
}

// MergeLegacy 旧版定位 CSV 兼容模式：停驶文件固定 6 列
// [编号, 车牌, 型号, 原因, 修理厂, 天数]，位置文件第 2 列按行号严格配对
func MergeLegacy(oosRows, locRows [][]string) []model.Vehicle {
	col := func(row []string, i int) string {
		if i < len(row) {
			return normalize.Clean(row[i])
		}
		return ""
	}

	var vehicles []model.Vehicle
	for i, row := range oosRows {
		rowID := col(row, 0)
		license := col(row, 1)
		vehicleModel := col(row, 2)
		reason := col(row, 3)
		garageOrig := col(row, 4)
		if rowID == "" && license == "" && reason == "" && garageOrig == "" {
			continue
		}

		days, _ := normalize.ParseActualDays(col(row, 5))
		if days < 0 {
			days = 0
		}

		location := ""
		if i < len(locRows) && len(locRows[i]) > 1 {
			location = strings.TrimSpace(locRows[i][1])
		}

		vehicles = append(vehicles, model.Vehicle{
			ID:             assignID(license, "", rowID, i),
			License:        license,
			Model:          vehicleModel,
			OOSReason:      reason,
			GarageOriginal: garageOrig,
			Garage:         garage.Map(garageOrig, reason, ""),
			DaysInGarage:   days,
			Location:       location,
		})
	}
	return vehicles
}
