package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Brand is the organisational identity printed on a page.
type Brand string

const (
	BrandMUNSH Brand = "MUN-SH"
	BrandMUNBW Brand = "MUNBW"
	BrandDMUN  Brand = "DMUN"
	BrandUN    Brand = "UN"
)

// Built-in asset paths, relative to the static asset root.
const (
	LogoDMUN      = "logo/color/dmun.png"
	LogoDMUNSmall = "logo/color/small_dmun.png"
)

// BrandInfo is the resolved presentation of a brand for one run.
type BrandInfo struct {
	Brand          Brand
	LogoPath       string
	ConferenceName string
	PrimaryColor   string // hex, e.g. "#3d7dd2"
}

type brandEntry struct {
	logo       string
	conference string // {year} is replaced at lookup time
	color      string
}

var brandTable = map[Brand]brandEntry{
	BrandMUNSH: {logo: "logo/color/mun-sh.png", conference: "Schleswig-Holstein {year}", color: "#3d7dd2"},
	BrandMUNBW: {logo: "logo/color/munbw.png", conference: "Baden-Württemberg {year}", color: "#d23d3d"},
	BrandDMUN:  {logo: LogoDMUN, conference: "Deutschland e. V.", color: "#3d7dd2"},
	BrandUN:    {logo: "logo/color/un.png", conference: "United Nations", color: "#009edb"},
}

// Brands returns the known brands in a stable order.
func Brands() []Brand {
	return []Brand{BrandMUNSH, BrandMUNBW, BrandDMUN, BrandUN}
}

// ParseBrand accepts a brand name case-insensitively.
func ParseBrand(s string) (Brand, error) {
	for _, b := range Brands() {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("model: unknown brand %q", s)
}

// Valid reports whether b is one of the known brands.
func (b Brand) Valid() bool {
	_, ok := brandTable[b]
	return ok
}

// LookupBrand resolves the logo, display name and colour of b. The display
// name may contain the year of now.
func LookupBrand(b Brand, now time.Time) (BrandInfo, bool) {
	e, ok := brandTable[b]
	if !ok {
		return BrandInfo{}, false
	}
	return BrandInfo{
		Brand:          b,
		LogoPath:       e.logo,
		ConferenceName: strings.ReplaceAll(e.conference, "{year}", strconv.Itoa(now.Year())),
		PrimaryColor:   e.color,
	}, true
}
