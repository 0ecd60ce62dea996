package garage

import (
	"regexp"

	"fleetboard/internal/normalize"
)

// 规则匹配用的正则，全部作用于 normalize.Match 之后的大写形式
// GAC/CMC 带词边界：GAC 不能命中 GACOME
var (
	reAccident  = regexp.MustCompile(`ACCIDENT`)
	reServicing = regexp.MustCompile(`VEHICLE SERVICING`)
	reTechnical = regexp.MustCompile(`TECHNICAL REPAIRS`)
	reDomasco   = regexp.MustCompile(`DOMASCO`)
	reGAC       = regexp.MustCompile(`GAC\b`)
	reCMC       = regexp.MustCompile(`CMC\b`)
	reKingLong  = regexp.MustCompile(`KING\s*LONG|KINGLONG`)
	reVolvo     = regexp.MustCompile(`VOLVO`)
)

// Map 把（原始修理厂, 停驶原因, 品牌）归类为规范修理厂名称
// 规则按严格优先级求值，命中即返回：
//  1. 原因含 ACCIDENT → Honda Body Shop（不看修理厂和品牌）
//  2. 原因为保养/技术维修且修理厂含 DOMASCO → 按品牌分流
//  3. 其余保留原始名称，为空则 Unknown
func Map(original, reason, vehicleMake string) string {
	g := normalize.Match(original)
	r := normalize.Match(reason)
	m := normalize.Match(vehicleMake)

	if reAccident.MatchString(r) {
		return "Honda Body Shop"
	}

	if (reServicing.MatchString(r) || reTechnical.MatchString(r)) && reDomasco.MatchString(g) {
		switch {
		case reGAC.MatchString(m):
			return "GAC Service Center"
		case reCMC.MatchString(m):
			return "CMC Service Center"
		case reKingLong.MatchString(m):
			return "FAMCO"
		case reVolvo.MatchString(m):
			return "Volvo Service Center"
		}
		return "Honda Service Center"
	}

	if cleaned := normalize.Clean(original); cleaned != "" {
		return cleaned
	}
	return "Unknown"
}
