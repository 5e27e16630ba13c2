package order

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	localConfidence    = 0.85
	fallbackConfidence = 0.5
)

var numeralWords = map[string]float64{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5,
	"六": 6, "七": 7, "八": 8, "九": 9, "十": 10,
	"兩": 2, "半": 0.5,
}

const (
	numeralClass = `[一二三四五六七八九十兩半]`
	// digitClass accepts full-width digits as IMEs emit them.
	digitClass = `[0-9０-９]`
	unitClass    = `[杯份個碗碟客]`
)

// quantityPatterns are tried in order for each keyword: numeral word before,
// digits before, numeral word after, digits after. A leading hot/cold
// marker may sit between the unit and the keyword.
var quantityPatterns = []string{
	`(` + numeralClass + `)` + unitClass + `*(?:熱|凍)?%s`,
	`(` + digitClass + `+)` + unitClass + `*(?:熱|凍)?%s`,
	`%s.*?(` + numeralClass + `)` + unitClass,
	`%s.*?(` + digitClass + `+)` + unitClass,
}

var quantityMatchers = buildQuantityMatchers()

func buildQuantityMatchers() map[string][]*regexp.Regexp {
	m := make(map[string][]*regexp.Regexp)
	for _, menu := range [][]menuEntry{drinkMenu, foodMenu} {
		for _, e := range menu {
			for _, kw := range e.Keywords {
				m[kw] = compileQuantity(kw)
			}
		}
	}
	return m
}

func compileQuantity(keyword string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(keyword)
	out := make([]*regexp.Regexp, len(quantityPatterns))
	for i, p := range quantityPatterns {
		out[i] = regexp.MustCompile(strings.ReplaceAll(p, "%s", quoted))
	}
	return out
}

// ParseLocally extracts an order from text using the static catalog. It
// never fails: text naming nothing on the menu yields one FallbackItem at
// reduced confidence.
func ParseLocally(text string) ParsedOrder {
	lower := strings.ToLower(text)
	custom := extractCustomizations(lower)

	o := ParsedOrder{
		TranscriptionSource: text,
		ConfidenceScore:     localConfidence,
		SpecialRequests:     []string{},
		UnclearItems:        []string{},
		Source:              SourceLocal,
	}

	for _, menu := range [][]menuEntry{drinkMenu, foodMenu} {
		for _, e := range menu {
			kw, ok := firstKeyword(lower, e.Keywords)
			if !ok {
				continue
			}
			qty := extractQuantity(lower, kw)
			o.Items = append(o.Items, newItem(servedName(e.Name, lower), qty, PriceFor(e.Name), cloneCustom(custom)))
		}
	}

	if len(o.Items) == 0 {
		o.Items = append(o.Items, newItem(FallbackItem, 1, FallbackItemPrice, cloneCustom(custom)))
		o.ConfidenceScore = fallbackConfidence
	}

	for _, r := range specialRequestRules {
		if containsAny(lower, r.Keywords...) {
			o.addRequest(r.Value)
		}
	}

	o.Recompute()
	return o
}

func firstKeyword(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return kw, true
		}
	}
	return "", false
}

func servedName(name, text string) string {
	v, ok := temperatureVariants[name]
	if !ok {
		return name
	}
	switch {
	case strings.Contains(text, "熱"):
		return v[0]
	case strings.Contains(text, "凍"):
		return v[1]
	default:
		return name
	}
}

// extractQuantity finds the quantity attached to keyword, defaulting to 1.
// Fractions such as 半 are clamped up to 1.
func extractQuantity(text, keyword string) int {
	matchers, ok := quantityMatchers[keyword]
	if !ok {
		matchers = compileQuantity(keyword)
	}
	for _, re := range matchers {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, ok := numeralWords[m[1]]; ok {
			return clampQuantity(n)
		}
		if n, err := strconv.Atoi(halfWidthDigits(m[1])); err == nil {
			return clampQuantity(float64(n))
		}
	}
	return 1
}

// maxQuantity caps a single line so absurd counts cannot overflow totals.
const maxQuantity = 999

func halfWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - '０' + '0'
		}
		return r
	}, s)
}

func clampQuantity(n float64) int {
	switch {
	case math.IsNaN(n), n < 1:
		return 1
	case n > maxQuantity:
		return maxQuantity
	}
	return int(n)
}

func extractCustomizations(text string) map[Axis]string {
	out := make(map[Axis]string)
	for _, ax := range axisRules {
		for _, r := range ax.Rules {
			if containsAny(text, r.Keywords...) {
				out[ax.Axis] = r.Value
				break
			}
		}
	}
	var addOns []string
	for _, r := range addOnRules {
		if containsAny(text, r.Keywords...) {
			addOns = append(addOns, r.Value)
		}
	}
	if len(addOns) > 0 {
		out[AxisAddOns] = strings.Join(addOns, ",")
	}
	return out
}

func cloneCustom(c map[Axis]string) map[Axis]string {
	out := make(map[Axis]string, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
