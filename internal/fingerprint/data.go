package fingerprint

import "sort"

// browserTemplate is one historically-plausible browser/OS combination from
// the 2011-2015 Randstorm window. The comprehensive table is built by
// combining each template with a language and a screen-resolution variant,
// rather than hand-authoring several hundred near-duplicate rows — the
// combinatorics mirror how the scanner this module continues curated its
// own comprehensive table (a market-share-ranked product of platform ×
// locale), without needing an external CSV asset.
type browserTemplate struct {
	name         string
	userAgent    string
	platform     string
	colorDepth   uint8
	tzOffsetMin  int16
	yearMin      uint16
	yearMax      uint16
	shareWeight  float64
}

var browserTemplates = []browserTemplate{
	{"Chrome/Win7", "Mozilla/5.0 (Windows NT 6.1; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/35.0.1916.153 Safari/537.36", "Win32", 24, -300, 2011, 2015, 18.2},
	{"Chrome/Win8", "Mozilla/5.0 (Windows NT 6.2; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/40.0.2214.115 Safari/537.36", "Win32", 24, -300, 2012, 2015, 11.4},
	{"Firefox/Win7", "Mozilla/5.0 (Windows NT 6.1; WOW64; rv:31.0) Gecko/20100101 Firefox/31.0", "Win32", 24, -300, 2011, 2015, 9.7},
	{"IE9/Win7", "Mozilla/5.0 (compatible; MSIE 9.0; Windows NT 6.1; Trident/5.0)", "Win32", 32, -300, 2011, 2013, 8.9},
	{"IE10/Win8", "Mozilla/5.0 (compatible; MSIE 10.0; Windows NT 6.2; Trident/6.0)", "Win32", 32, -300, 2012, 2014, 6.3},
	{"IE11/Win8.1", "Mozilla/5.0 (Windows NT 6.3; Trident/7.0; rv:11.0) like Gecko", "Win32", 32, -300, 2013, 2015, 5.8},
	{"Safari/OSX", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_4) AppleWebKit/537.78.2 (KHTML, like Gecko) Version/7.0.6 Safari/537.78.2", "MacIntel", 24, -480, 2011, 2015, 7.4},
	{"Chrome/OSX", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/41.0.2272.118 Safari/537.36", "MacIntel", 24, -480, 2012, 2015, 6.1},
	{"Firefox/OSX", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.9; rv:33.0) Gecko/20100101 Firefox/33.0", "MacIntel", 24, -480, 2011, 2015, 3.2},
	{"Safari/iOS", "Mozilla/5.0 (iPhone; CPU iPhone OS 8_1 like Mac OS X) AppleWebKit/600.1.4 (KHTML, like Gecko) Version/8.0 Mobile/12B410 Safari/600.1.4", "iPhone", 24, 0, 2011, 2015, 5.5},
	{"Chrome/Android", "Mozilla/5.0 (Linux; Android 4.4.4; Nexus 5 Build/KTU84P) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/39.0.0.0 Mobile Safari/537.36", "Linux armv7l", 24, 0, 2012, 2015, 4.8},
	{"Chrome/Linux", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/39.0.2171.95 Safari/537.36", "Linux x86_64", 24, 0, 2012, 2015, 3.3},
	{"Firefox/Linux", "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:33.0) Gecko/20100101 Firefox/33.0", "Linux x86_64", 24, 0, 2011, 2015, 1.9},
	{"Opera/Win7", "Opera/9.80 (Windows NT 6.1; WOW64) Presto/2.12.388 Version/12.16", "Win32", 24, -300, 2011, 2013, 1.6},
	{"IE8/WinXP", "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 5.1; Trident/4.0)", "Win32", 32, -300, 2011, 2012, 2.1},
	{"Android Browser", "Mozilla/5.0 (Linux; U; Android 2.3.5; en-us; Nexus S Build/GRJ90) AppleWebKit/533.1 (KHTML, like Gecko) Version/4.0 Mobile Safari/533.1", "Linux armv7l", 16, 0, 2011, 2013, 3.8},
}

type localeVariant struct {
	language string
	tzAdjust int16
}

var localeVariants = []localeVariant{
	{"en-US", 0},
	{"en-GB", 0},
	{"de-DE", 60},
	{"fr-FR", 60},
	{"es-ES", 60},
	{"zh-CN", 480},
	{"ja-JP", 540},
	{"pt-BR", -180},
	{"ru-RU", 180},
	{"ko-KR", 540},
}

type resolutionVariant struct {
	w, h      uint32
	shareMult float64
}

var resolutionVariants = []resolutionVariant{
	{1366, 768, 1.0},
	{1920, 1080, 0.6},
	{1024, 768, 0.3},
}

// comprehensiveConfigs builds the full ~250-row fingerprint table by
// combining every browser template with every locale and resolution
// variant, then sorting by descending estimated market share — the same
// ordering invariant the rest of this package assumes (phase slicing takes
// a prefix).
func comprehensiveConfigs() []BrowserConfig {
	var out []BrowserConfig
	priority := uint32(0)
	for _, tmpl := range browserTemplates {
		for _, loc := range localeVariants {
			for _, res := range resolutionVariants {
				priority++
				out = append(out, BrowserConfig{
					Priority:            priority,
					UserAgent:           tmpl.userAgent,
					ScreenWidth:         res.w,
					ScreenHeight:        res.h,
					ColorDepth:          tmpl.colorDepth,
					TimezoneOffsetMin:   tmpl.tzOffsetMin + loc.tzAdjust,
					Language:            loc.language,
					Platform:            tmpl.platform,
					MarketShareEstimate: tmpl.shareWeight * res.shareMult / float64(len(localeVariants)),
					YearMin:             tmpl.yearMin,
					YearMax:             tmpl.yearMax,
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MarketShareEstimate > out[j].MarketShareEstimate
	})
	for i := range out {
		out[i].Priority = uint32(i + 1)
	}
	if len(out) > 246 {
		out = out[:246]
	}
	return out
}
