package order

import "strings"

// CatalogVersion identifies the static menu, price and keyword tables below.
// Bump it whenever a table changes so cached orders can be told apart.
const CatalogVersion = "hk-cafe-2025.1"

// DefaultPrice applies when no table knows an item.
const DefaultPrice = 20.0

// FallbackItem is ordered when a transcript names nothing on the menu.
const (
	FallbackItem      = "凍檸茶"
	FallbackItemPrice = 18.0
	// UnrecognizedItem names remote items that arrive without a name.
	UnrecognizedItem = "未識別項目"
)

type menuEntry struct {
	Name     string
	Keywords []string
}

// drinkMenu and foodMenu are scanned in order; the first keyword of an entry
// found in the text yields one item.
var drinkMenu = []menuEntry{
	{"檸檬茶", []string{"檸檬茶", "檸茶", "凍檸茶", "熱檸茶"}},
	{"奶茶", []string{"奶茶", "絲襪奶茶", "港式奶茶"}},
	{"咖啡", []string{"咖啡", "黑咖啡", "白咖啡"}},
	{"鴛鴦", []string{"鴛鴦"}},
	{"橙汁", []string{"橙汁", "鮮橙汁"}},
	{"可樂", []string{"可樂", "cola"}},
	{"雪碧", []string{"雪碧", "sprite"}},
	{"檸檬蜜", []string{"檸檬蜜", "蜂蜜檸檬"}},
	{"阿華田", []string{"阿華田"}},
	{"好立克", []string{"好立克"}},
}

var foodMenu = []menuEntry{
	{"乾炒牛河", []string{"乾炒牛河", "炒牛河"}},
	{"炒河", []string{"炒河"}},
	{"炒麵", []string{"炒麵"}},
	{"雲吞麵", []string{"雲吞麵"}},
	{"牛腩麵", []string{"牛腩麵"}},
	{"叉燒麵", []string{"叉燒麵"}},
	{"揚州炒飯", []string{"揚州炒飯"}},
	{"叉燒炒飯", []string{"叉燒炒飯"}},
	{"炒飯", []string{"炒飯"}},
	{"牛油多士", []string{"牛油多士"}},
	{"法式多士", []string{"法式多士"}},
	{"多士", []string{"多士"}},
	{"三明治", []string{"三明治", "sandwich"}},
}

// temperatureVariants renames an item when the text says hot or cold.
// Hot is checked first.
var temperatureVariants = map[string][2]string{
	"檸檬茶": {"熱檸茶", "凍檸茶"},
	"奶茶":  {"熱奶茶", "凍奶茶"},
}

type priced struct {
	Name  string
	Price float64
}

// priceList is ordered: substring lookups return the first entry contained
// in the item name.
var priceList = []priced{
	// tea
	{"檸檬茶", 18}, {"凍檸茶", 18}, {"熱檸茶", 18}, {"檸茶", 18},
	{"奶茶", 22}, {"凍奶茶", 22}, {"熱奶茶", 22},
	{"絲襪奶茶", 25}, {"港式奶茶", 25}, {"茶餐廳奶茶", 25},
	{"紅茶", 15}, {"綠茶", 15}, {"烏龍茶", 18}, {"茉莉花茶", 16}, {"普洱茶", 20},
	// coffee
	{"咖啡", 25}, {"黑咖啡", 22}, {"白咖啡", 28}, {"即溶咖啡", 20}, {"港式咖啡", 25},
	{"鴛鴦", 28}, {"凍鴛鴦", 28}, {"熱鴛鴦", 28},
	// juice
	{"橙汁", 20}, {"蘋果汁", 18}, {"葡萄汁", 20}, {"檸檬汁", 18}, {"西瓜汁", 22},
	{"芒果汁", 25}, {"鮮橙汁", 25}, {"鮮榨果汁", 28},
	// soda
	{"可樂", 15}, {"雪碧", 15}, {"芬達", 15}, {"汽水", 15}, {"梳打水", 12}, {"檸檬梳打", 18},
	// specialty
	{"檸檬蜜", 22}, {"檸檬蜂蜜", 22}, {"蜂蜜檸檬", 22}, {"薄荷茶", 20}, {"薑茶", 18},
	{"檸檬薑茶", 22}, {"凍檸賓", 25}, {"熱檸賓", 25},
	// milk
	{"朱古力", 25}, {"熱朱古力", 25}, {"凍朱古力", 25}, {"阿華田", 22}, {"好立克", 22},
	{"牛奶", 18}, {"鮮奶", 20}, {"豆漿", 15},
	// soup
	{"例湯", 12}, {"餐湯", 12}, {"湯", 12}, {"羅宋湯", 18}, {"粟米湯", 15},
	{"蛋花湯", 15}, {"紫菜蛋花湯", 18},
	// noodles
	{"炒河", 35}, {"乾炒牛河", 38}, {"濕炒牛河", 38}, {"炒麵", 32}, {"撈麵", 30},
	{"湯麵", 28}, {"雲吞麵", 35}, {"牛腩麵", 42}, {"叉燒麵", 38}, {"餐蛋麵", 25}, {"公仔麵", 22},
	// rice
	{"白飯", 8}, {"炒飯", 32}, {"揚州炒飯", 35}, {"叉燒炒飯", 38}, {"蝦仁炒飯", 42},
	{"牛肉炒飯", 40}, {"雞絲炒飯", 35}, {"鹹牛肉炒飯", 38},
	// toast
	{"多士", 15}, {"牛油多士", 18}, {"花生醬多士", 20}, {"煉奶多士", 22},
	{"法式多士", 25}, {"西多士", 28}, {"厚多士", 32},
	// sandwiches
	{"三明治", 25}, {"火腿三明治", 28}, {"雞蛋三明治", 25}, {"吞拿魚三明治", 30},
	{"牛肉三明治", 35}, {"芝士三明治", 28}, {"總匯三明治", 38},
	// eggs
	{"煎蛋", 12}, {"炒蛋", 15}, {"蒸蛋", 18}, {"水波蛋", 15}, {"溏心蛋", 15}, {"茶葉蛋", 8},
	// snacks
	{"薯條", 18}, {"雞翼", 25}, {"雞塊", 22}, {"春卷", 20}, {"燒賣", 15},
	{"魚蛋", 12}, {"牛丸", 15}, {"腸粉", 18},
	// dessert
	{"布丁", 18}, {"雪糕", 15}, {"紅豆冰", 22}, {"芒果布丁", 25},
	{"椰汁西米露", 20}, {"楊枝甘露", 28},
}

var exactPrices = func() map[string]float64 {
	m := make(map[string]float64, len(priceList))
	for _, p := range priceList {
		m[p.Name] = p.Price
	}
	return m
}()

type keywordPrice struct {
	Keywords []string
	Price    float64
}

// categoryPrices is the coarse last resort before DefaultPrice.
var categoryPrices = []keywordPrice{
	{[]string{"茶", "奶茶"}, 22},
	{[]string{"咖啡", "鴛鴦"}, 25},
	{[]string{"汁", "果汁"}, 20},
	{[]string{"可樂", "汽水", "雪碧"}, 15},
	{[]string{"炒河", "炒麵", "麵"}, 35},
	{[]string{"炒飯", "飯"}, 32},
	{[]string{"多士", "三明治"}, 25},
	{[]string{"湯"}, 15},
}

// PriceFor returns the unit price for an item name: exact match, then the
// first listed name contained in it, then a category keyword, then
// DefaultPrice.
func PriceFor(name string) float64 {
	name = strings.ToLower(name)
	if p, ok := exactPrices[name]; ok {
		return p
	}
	for _, p := range priceList {
		if strings.Contains(name, p.Name) {
			return p.Price
		}
	}
	for _, c := range categoryPrices {
		if containsAny(name, c.Keywords...) {
			return c.Price
		}
	}
	return DefaultPrice
}

var (
	drinkKeywords = []string{"茶", "汁", "可樂", "咖啡", "奶茶"}
	foodKeywords  = []string{"河", "麵", "飯", "多士", "三明治"}
)

// IsDrink reports whether name reads as a beverage.
func IsDrink(name string) bool { return containsAny(strings.ToLower(name), drinkKeywords...) }

// IsFood reports whether name reads as a main dish.
func IsFood(name string) bool { return containsAny(strings.ToLower(name), foodKeywords...) }

// Categorize returns CategoryDrink, CategoryFood or "".
func Categorize(name string) string {
	switch {
	case IsDrink(name):
		return CategoryDrink
	case IsFood(name):
		return CategoryFood
	default:
		return ""
	}
}

type axisRule struct {
	Keywords []string
	Value    string
}

// axisRules are evaluated per axis in order; the first rule with a keyword
// present in the text sets the axis.
var axisRules = []struct {
	Axis  Axis
	Rules []axisRule
}{
	{AxisSweetness, []axisRule{
		{[]string{"少甜"}, "少甜"},
		{[]string{"無糖", "走糖"}, "無糖"},
		{[]string{"甜"}, "甜"},
		{[]string{"半糖"}, "半糖"},
	}},
	{AxisIce, []axisRule{
		{[]string{"走冰", "無冰"}, "走冰"},
		{[]string{"少冰"}, "少冰"},
		{[]string{"多冰"}, "多冰"},
	}},
	{AxisTemperature, []axisRule{
		{[]string{"熱"}, "熱"},
		{[]string{"凍"}, "凍"},
		{[]string{"室溫"}, "室溫"},
	}},
	{AxisSize, []axisRule{
		{[]string{"大杯"}, "大杯"},
		{[]string{"小杯"}, "小杯"},
		{[]string{"中杯"}, "中杯"},
	}},
}

// addOnRules are all collected and comma-joined.
var addOnRules = []axisRule{
	{[]string{"加檸檬"}, "檸檬"},
	{[]string{"加蜂蜜"}, "蜂蜜"},
	{[]string{"加薄荷"}, "薄荷"},
	{[]string{"加奶"}, "奶"},
}

// specialRequestRules map observed phrases to special requests, in order.
var specialRequestRules = []axisRule{
	{[]string{"少甜"}, "少甜"},
	{[]string{"走冰", "無冰"}, "走冰"},
	{[]string{"加檸檬"}, "加檸檬"},
	{[]string{"加蜂蜜"}, "加蜂蜜"},
	{[]string{"熱"}, "要熱的"},
	{[]string{"大杯"}, "大杯"},
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
