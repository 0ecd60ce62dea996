package normalize

import (
	"testing"
	"time"
)

func TestClean(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  Honda  Body   Shop ", "Honda Body Shop"},
		{"\tAL  AHLI\n", "AL AHLI"},
		{"", ""},
		{"   ", ""},
		{"single", "single"},
	}
	for _, c := range cases {
		if got := Clean(c.in); got != c.want {
			t.Fatalf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatch(t *testing.T) {
	t.Parallel()

	if got := Match("  domasco   service "); got != "DOMASCO SERVICE" {
		t.Fatalf("unexpected Match: %q", got)
	}
	if Match(" a ") != Match("A") {
		t.Fatalf("Match should be case and whitespace insensitive")
	}
}

func TestParseDate_ExcelSerial(t *testing.T) {
	t.Parallel()

	// 25569 天对应 1970-01-01（序列零点为 1899-12-30）
	got, ok := ParseDate("25569")
	if !ok {
		t.Fatalf("serial not recognized")
	}
	want := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("serial 25569 = %v, want %v", got, want)
	}

	// 小数天保留时分
	got, ok = ParseDate("25569.5")
	if !ok {
		t.Fatalf("fractional serial not recognized")
	}
	if got.Hour() != 12 {
		t.Fatalf("fractional serial hour = %d, want 12", got.Hour())
	}
}

func TestParseDate_TextLayouts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-15", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/08/15", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"08/15/2026", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"15-Aug-2026", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{" 2026-08-15 ", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if !ok {
			t.Fatalf("ParseDate(%q) not recognized", c.in)
		}
		if !got.Equal(c.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDate_Unrecognized(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "not a date", "N/A"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%q) should not be recognized", in)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if got := DaysBetween(base, base.AddDate(0, 0, 14)); got != 14 {
		t.Fatalf("14 days = %d", got)
	}
	// 不足半天舍去，超过半天进位
	if got := DaysBetween(base, base.Add(10*time.Hour)); got != 0 {
		t.Fatalf("10h = %d, want 0", got)
	}
	if got := DaysBetween(base, base.Add(14*time.Hour)); got != 1 {
		t.Fatalf("14h = %d, want 1", got)
	}
	// 顺序颠倒退化为 0，不返回负数
	if got := DaysBetween(base, base.AddDate(0, 0, -5)); got != 0 {
		t.Fatalf("inverted range = %d, want 0", got)
	}
}

func TestParseActualDays(t *testing.T) {
	t.Parallel()

	if got, ok := ParseActualDays(" 12 "); !ok || got != 12 {
		t.Fatalf("ParseActualDays(12) = %d, %v", got, ok)
	}
	if got, ok := ParseActualDays("11.6"); !ok || got != 12 {
		t.Fatalf("ParseActualDays(11.6) = %d, %v", got, ok)
	}
	if got, ok := ParseActualDays("-3"); !ok || got != -3 {
		t.Fatalf("ParseActualDays(-3) = %d, %v (clamping is the caller's job)", got, ok)
	}
	if _, ok := ParseActualDays(""); ok {
		t.Fatalf("empty should be missing")
	}
	if _, ok := ParseActualDays("unknown"); ok {
		t.Fatalf("non numeric should be missing")
	}
}
