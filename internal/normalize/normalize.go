package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelEpoch Excel 序列日期的零点（1899-12-30 UTC）
// 注意不是 1899-12-31 或 1900-01-01，必须与电子表格惯例完全一致
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var whitespaceRun = regexp.MustCompile(`\s+`)

// dateLayouts 自由文本日期的候选格式，按常见程度排列
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
}

// Clean 去除首尾空白并把内部连续空白压成单个空格
func Clean(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Match 规则与索引比较用的规范形式：Clean 后转大写
// 所有匹配都走这里，保证大小写和空白不影响结果
func Match(s string) string {
	return strings.ToUpper(Clean(s))
}

// ParseDate 尽力解析异构日期表示，识别不了返回 false，永不报错
// 纯数字按 Excel 序列天数处理（保留小数天），其余按候选格式解析
func ParseDate(v string) (time.Time, bool) {
	s := Clean(v)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		d := time.Duration(serial * float64(24*time.Hour))
		return excelEpoch.Add(d), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DaysBetween 四舍五入的天数差，下限为 0
// 录入错误导致 later 早于 earlier 时退化为 0 而不是负数
func DaysBetween(earlier, later time.Time) int {
	days := int(math.Round(later.Sub(earlier).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// ParseActualDays 解析显式的在厂天数，非数字视为缺失
func ParseActualDays(s string) (int, bool) {
	v := Clean(s)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(f)), true
}
