package merge

import (
	"strings"
	"testing"
	"time"

	"fleetboard/internal/sheet"
)

var now = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

func oosTable(headers []string, rows ...[]string) *sheet.Table {
	t := &sheet.Table{Headers: headers}
	for _, raw := range rows {
		row := make(sheet.Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func locTable(rows ...[]string) *sheet.Table {
	return oosTable([]string{"Grouping", "Location"}, rows...)
}

func TestGuessJoinKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		headers []string
		want    string
	}{
		{[]string{"AGREEMENT_NO", "Grouping", "LICENSE_NO"}, "Grouping"},
		{[]string{"AGREEMENT_NO", "license_no"}, "license_no"},
		{[]string{"UNIT_NO", "AGREEMENT_NO"}, "UNIT_NO"},
		{[]string{"FOO", "BAR"}, "FOO"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := GuessJoinKey(c.headers); got != c.want {
			t.Fatalf("GuessJoinKey(%v) = %q, want %q", c.headers, got, c.want)
		}
	}
}

func TestBuildLocationIndex(t *testing.T) {
	t.Parallel()

	index := BuildLocationIndex(locTable(
		[]string{" ABC123 ", " Doha Depot "},
		[]string{"DEF456", "Wakra Yard"},
		[]string{"ABC123", "Updated Depot"},
		[]string{"", "ignored"},
	))

	if len(index) != 2 {
		t.Fatalf("unexpected index size: %d", len(index))
	}
	// 重复键后写覆盖先写
	if index["ABC123"] != "Updated Depot" {
		t.Fatalf("duplicate key should keep last value, got %q", index["ABC123"])
	}
	if index["DEF456"] != "Wakra Yard" {
		t.Fatalf("unexpected value: %q", index["DEF456"])
	}
}

func TestBuildLocationIndex_PositionalFallback(t *testing.T) {
	t.Parallel()

	// 表头不含 Grouping/Location 时退回第 1、2 列
	loc := oosTable([]string{"KEY", "PLACE"}, []string{"X1", "North Lot"})
	index := BuildLocationIndex(loc)
	if index["X1"] != "North Lot" {
		t.Fatalf("positional fallback failed: %v", index)
	}
}

func TestMerge_FullRow(t *testing.T) {
	t.Parallel()

	oos := oosTable(
		[]string{"AGREEMENT_NO", "UNIT_NO", "LICENSE_NO", "MAKE", "MODEL", "OOS_REASON", "GARAGE_NAME", "REMARKS", "ACTUAL_DAYS_IN_GARAGE"},
		[]string{"AG-1", "U-1", "ABC123", "GAC", "GS8", "VEHICLE SERVICING", "DOMASCO Service", "Ready for collection", "12"},
	)
	loc := locTable([]string{"ABC123", "Doha Depot"})

	vehicles := Merge(oos, loc, "LICENSE_NO", now)
	if len(vehicles) != 1 {
		t.Fatalf("unexpected merge count: %d", len(vehicles))
	}

	v := vehicles[0]
	if v.ID != "ABC123" {
		t.Fatalf("id should come from license, got %q", v.ID)
	}
	if v.Garage != "GAC Service Center" {
		t.Fatalf("garage mapping: got %q", v.Garage)
	}
	if v.GarageOriginal != "DOMASCO Service" {
		t.Fatalf("original garage should be preserved: %q", v.GarageOriginal)
	}
	if v.DaysInGarage != 12 {
		t.Fatalf("days: got %d", v.DaysInGarage)
	}
	if v.Location != "Doha Depot" {
		t.Fatalf("location join: got %q", v.Location)
	}
	if v.Status() != "Ready" {
		t.Fatalf("status: got %q", v.Status())
	}
}

func TestMerge_HeaderAliases(t *testing.T) {
	t.Parallel()

	// 备选表头同样被识别
	oos := oosTable(
		[]string{"License", "Make", "OUT_OF_SERVICE_REASON", "Garage"},
		[]string{"XYZ789", "HONDA", "ACCIDENT", "Anything"},
	)
	loc := locTable([]string{"XYZ789", "West Bay"})

	vehicles := Merge(oos, loc, "License", now)
	if len(vehicles) != 1 {
		t.Fatalf("unexpected merge count: %d", len(vehicles))
	}
	if vehicles[0].Garage != "Honda Body Shop" {
		t.Fatalf("accident mapping via alias headers: %q", vehicles[0].Garage)
	}
	if vehicles[0].Location != "West Bay" {
		t.Fatalf("location: %q", vehicles[0].Location)
	}
}

func TestMerge_DaysDerivation(t *testing.T) {
	t.Parallel()

	headers := []string{"LICENSE_NO", "ACTUAL_DAYS_IN_GARAGE", "CHECK_OUT_DATE", "CURRENT_DATE"}
	loc := locTable([]string{"L1", "Depot"})

	// 显式天数优先于日期差
	v := Merge(oosTable(headers, []string{"L1", "7", "2026-08-01", "2026-08-20"}), loc, "LICENSE_NO", now)
	if v[0].DaysInGarage != 7 {
		t.Fatalf("explicit days should win: %d", v[0].DaysInGarage)
	}

	// 负的显式天数钳制为 0
	v = Merge(oosTable(headers, []string{"L1", "-4", "", ""}), loc, "LICENSE_NO", now)
	if v[0].DaysInGarage != 0 {
		t.Fatalf("negative days should clamp to 0: %d", v[0].DaysInGarage)
	}

	// 缺显式天数按 出厂日期 → 文件内当前日期 计算
	v = Merge(oosTable(headers, []string{"L1", "", "2026-08-01", "2026-08-15"}), loc, "LICENSE_NO", now)
	if v[0].DaysInGarage != 14 {
		t.Fatalf("date difference: %d", v[0].DaysInGarage)
	}

	// 文件内无当前日期时使用导入时刻
	v = Merge(oosTable(headers, []string{"L1", "", "2026-08-10", ""}), loc, "LICENSE_NO", now)
	if v[0].DaysInGarage != 10 {
		t.Fatalf("fallback to import time: %d", v[0].DaysInGarage)
	}

	// 都没有则为 0
	v = Merge(oosTable(headers, []string{"L1", "", "", ""}), loc, "LICENSE_NO", now)
	if v[0].DaysInGarage != 0 {
		t.Fatalf("no inputs should yield 0: %d", v[0].DaysInGarage)
	}
}

func TestMerge_IDPriority(t *testing.T) {
	t.Parallel()

	headers := []string{"AGREEMENT_NO", "UNIT_NO", "LICENSE_NO"}
	loc := locTable([]string{"whatever", "x"})

	v := Merge(oosTable(headers, []string{"AG", "UN", "LC"}), loc, "LICENSE_NO", now)
	if v[0].ID != "LC" {
		t.Fatalf("license should win: %q", v[0].ID)
	}
	v = Merge(oosTable(headers, []string{"AG", "UN", ""}), loc, "LICENSE_NO", now)
	if v[0].ID != "UN" {
		t.Fatalf("unit should win: %q", v[0].ID)
	}
	v = Merge(oosTable(headers, []string{"AG", "", ""}), loc, "LICENSE_NO", now)
	if v[0].ID != "AG" {
		t.Fatalf("agreement should win: %q", v[0].ID)
	}
	v = Merge(oosTable(headers, []string{"", "", ""}), loc, "LICENSE_NO", now)
	if !strings.HasPrefix(v[0].ID, "ROW_0_") {
		t.Fatalf("generated id: %q", v[0].ID)
	}
}

func TestMerge_Preconditions(t *testing.T) {
	t.Parallel()

	oos := oosTable([]string{"LICENSE_NO"}, []string{"L1"})
	loc := locTable([]string{"L1", "Depot"})

	if Merge(nil, loc, "LICENSE_NO", now) != nil {
		t.Fatalf("nil oos should not merge")
	}
	if Merge(oos, nil, "LICENSE_NO", now) != nil {
		t.Fatalf("nil locations should not merge")
	}
	if Merge(oos, loc, "", now) != nil {
		t.Fatalf("empty join key should not merge")
	}
	if Merge(oosTable([]string{"LICENSE_NO"}), loc, "LICENSE_NO", now) != nil {
		t.Fatalf("empty oos rows should not merge")
	}
}

func TestMerge_UnmatchedJoinLeavesLocationEmpty(t *testing.T) {
	t.Parallel()

	oos := oosTable([]string{"LICENSE_NO"}, []string{"NOPE"})
	loc := locTable([]string{"OTHER", "Depot"})

	v := Merge(oos, loc, "LICENSE_NO", now)
	if len(v) != 1 || v[0].Location != "" {
		t.Fatalf("unmatched join should keep empty location: %+v", v)
	}
}

func TestMergeLegacy(t *testing.T) {
	t.Parallel()

	oosRows := [][]string{
		{"1", "ABC123", "Civic", "ACCIDENT", "Some Garage", "15"},
		{"2", "", "City", "TYRE", "", "-3"},
		{"", "", "", "", "", ""},
	}
	locRows := [][]string{
		{"1", "Doha Depot"},
		{"2", "Wakra Yard"},
	}

	vehicles := MergeLegacy(oosRows, locRows)
	if len(vehicles) != 2 {
		t.Fatalf("blank row should be skipped, got %d", len(vehicles))
	}

	if vehicles[0].ID != "ABC123" || vehicles[0].Garage != "Honda Body Shop" {
		t.Fatalf("unexpected first vehicle: %+v", vehicles[0])
	}
	if vehicles[0].DaysInGarage != 15 || vehicles[0].Location != "Doha Depot" {
		t.Fatalf("unexpected first vehicle: %+v", vehicles[0])
	}

	// 无车牌时退回行编号，负天数钳制为 0，位置按行号配对
	if vehicles[1].ID != "2" {
		t.Fatalf("row id fallback: %q", vehicles[1].ID)
	}
	if vehicles[1].DaysInGarage != 0 {
		t.Fatalf("negative days should clamp: %d", vehicles[1].DaysInGarage)
	}
	if vehicles[1].Location != "Wakra Yard" {
		t.Fatalf("legacy location pairing: %q", vehicles[1].Location)
	}
}
