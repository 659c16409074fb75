package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Province is a Canadian tax jurisdiction code as submitted by the order form.
type Province string

const (
	ProvinceON Province = "ON"
	ProvinceQC Province = "QC"
	ProvinceNS Province = "NS"
	ProvinceNB Province = "NB"
	ProvinceMB Province = "MB"
	ProvinceBC Province = "BC"
	ProvincePE Province = "PE"
	ProvinceSK Province = "SK"
	ProvinceAB Province = "AB"
	ProvinceNL Province = "NL"
	ProvinceNT Province = "NT"
	ProvinceNV Province = "NV"
	ProvinceYK Province = "YK"
)

var provinceOrder = []Province{
	ProvinceON, ProvinceQC, ProvinceNS, ProvinceNB, ProvinceMB, ProvinceBC, ProvincePE,
	ProvinceSK, ProvinceAB, ProvinceNL, ProvinceNT, ProvinceNV, ProvinceYK,
}

var taxRates = map[Province]decimal.Decimal{
	ProvinceON: decimal.RequireFromString("0.13"),
	ProvinceQC: decimal.RequireFromString("0.14975"),
	ProvinceNS: decimal.RequireFromString("0.15"),
	ProvinceNB: decimal.RequireFromString("0.15"),
	ProvinceMB: decimal.RequireFromString("0.12"),
	ProvinceBC: decimal.RequireFromString("0.05"),
	ProvincePE: decimal.RequireFromString("0.15"),
	ProvinceSK: decimal.RequireFromString("0.11"),
	ProvinceAB: decimal.RequireFromString("0.05"),
	ProvinceNL: decimal.RequireFromString("0.15"),
	ProvinceNT: decimal.RequireFromString("0.05"),
	ProvinceNV: decimal.RequireFromString("0.05"),
	ProvinceYK: decimal.RequireFromString("0.05"),
}

// The form has always posted NV and YK; accept the official codes as well.
var provinceAliases = map[string]Province{
	"NU": ProvinceNV,
	"YT": ProvinceYK,
}

// Provinces returns the recognized codes in the order the form lists them.
func Provinces() []Province {
	out := make([]Province, len(provinceOrder))
	copy(out, provinceOrder)
	return out
}

// NormalizeProvince maps a submitted code onto a recognized Province.
// The second result is false when the code is not recognized.
func NormalizeProvince(code string) (Province, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if p, ok := provinceAliases[code]; ok {
		return p, true
	}
	p := Province(code)
	if _, ok := taxRates[p]; !ok {
		return p, false
	}
	return p, true
}

// IsKnownProvince reports whether code resolves to one of the recognized provinces.
func IsKnownProvince(code string) bool {
	_, ok := NormalizeProvince(code)
	return ok
}

// RateFor returns the sales tax rate for code, or zero if the code is not recognized.
func RateFor(code string) decimal.Decimal {
	p, ok := NormalizeProvince(code)
	if !ok {
		return decimal.Zero
	}
	return taxRates[p]
}
