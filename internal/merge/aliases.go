package merge

import (
	"fleetboard/internal/normalize"
	"fleetboard/internal/sheet"
)

// Field 逻辑字段名
type Field string

const (
	FieldAgreement   Field = "agreement"
	FieldUnit        Field = "unit"
	FieldLicense     Field = "license"
	FieldMake        Field = "make"
	FieldModel       Field = "model"
	FieldReason      Field = "reason"
	FieldGarage      Field = "garage"
	FieldRemarks     Field = "remarks"
	FieldActualDays  Field = "actualDays"
	FieldCheckOut    Field = "checkOut"
	FieldCurrentDate Field = "currentDate"
)

// fieldAliases 逻辑字段 → 可接受的表头拼写，按优先级排列
// 每次导入只解析一次，而不是逐字段散落查找
var fieldAliases = map[Field][]string{
	FieldAgreement:   {"AGREEMENT_NO", "Agreement"},
	FieldUnit:        {"UNIT_NO", "Unit"},
	FieldLicense:     {"LICENSE_NO", "License"},
	FieldMake:        {"MAKE", "Make"},
	FieldModel:       {"MODEL", "Model"},
	FieldReason:      {"OOS_REASON", "OUT_OF_SERVICE_REASON", "STATUS_DESC"},
	FieldGarage:      {"GARAGE_NAME", "Garage"},
	FieldRemarks:     {"REMARKS"},
	FieldActualDays:  {"ACTUAL_DAYS_IN_GARAGE"},
	FieldCheckOut:    {"CHECK_OUT_DATE"},
	FieldCurrentDate: {"CURRENT_DATE"},
}

// resolver 逻辑字段 → 本次上传中实际存在的表头
type resolver map[Field]string

// resolveAliases 对当前表头集解析别名表，第一个存在的别名生效
func resolveAliases(headers []string) resolver {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	r := make(resolver, len(fieldAliases))
	for field, aliases := range fieldAliases {
		for _, alias := range aliases {
			if present[alias] {
				r[field] = alias
				break
			}
		}
	}
	return r
}

// get 取清洗后的字段值，字段未解析到或单元格为空都返回空串
func (r resolver) get(row sheet.Row, f Field) string {
	header, ok := r[f]
	if !ok {
		return ""
	}
	return normalize.Clean(row[header])
}
