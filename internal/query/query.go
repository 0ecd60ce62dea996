// Package query 在记录集合上提供纯函数式的过滤、汇总与分组计数，
// 不修改输入，保持输入顺序。
package query

import (
	"strings"

	"fleetboard/internal/model"
)

// Options 过滤条件，零值字段不过滤
type Options struct {
	Garage string `form:"garage"`
	Reason string `form:"oosReason"`
	Status string `form:"status"`
	Search string `form:"search"`
}

// Summary 汇总计数
type Summary struct {
	Total      int `json:"total"`
	Ready      int `json:"ready"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

// Filter 按修理厂、停驶原因、状态、全文检索过滤
// 检索对固定字段集的拼接做大小写无关的子串匹配，不分词
func Filter(vehicles []model.Vehicle, opts Options) []model.Vehicle {
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if opts.Garage != "" && v.Garage != opts.Garage {
			continue
		}
		if opts.Reason != "" && v.OOSReason != opts.Reason {
			continue
		}
		if opts.Status != "" && v.Status() != opts.Status {
			continue
		}
		if search != "" && !strings.Contains(haystack(v), search) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func haystack(v model.Vehicle) string {
	return strings.ToLower(strings.Join([]string{
		v.Agreement, v.Unit, v.License, v.Make, v.Model,
		v.OOSReason, v.Garage, v.Remarks, v.Location,
	}, " "))
}

// Summarize 汇总：总数、可取、在修、超期（在厂天数超过阈值）
func Summarize(vehicles []model.Vehicle, overdueDays int) Summary {
	s := Summary{Total: len(vehicles)}
	for _, v := range vehicles {
		if model.IsReady(v.Remarks) {
			s.Ready++
		} else {
			s.InProgress++
		}
		if v.DaysInGarage > overdueDays {
			s.Overdue++
		}
	}
	return s
}

// CountByGarage 按映射后修理厂计数，空值归入 Unknown
func CountByGarage(vehicles []model.Vehicle) map[string]int {
	return countBy(vehicles, func(v model.Vehicle) string { return v.Garage })
}

// CountByReason 按停驶原因计数
func CountByReason(vehicles []model.Vehicle) map[string]int {
	return countBy(vehicles, func(v model.Vehicle) string { return v.OOSReason })
}

// ReadyByGarage 可取车辆按修理厂计数
func ReadyByGarage(vehicles []model.Vehicle) map[string]int {
	ready := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if model.IsReady(v.Remarks) {
			ready = append(ready, v)
		}
	}
	return countBy(ready, func(v model.Vehicle) string { return v.Garage })
}

func countBy(vehicles []model.Vehicle, key func(model.Vehicle) string) map[string]int {
	counts := make(map[string]int)
	for _, v := range vehicles {
		k := key(v)
		if k == "" {
			k = "Unknown"
		}
		counts[k]++
	}
	return counts
}
