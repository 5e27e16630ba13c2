package order

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// MaxSuggestions caps the ranked suggestion list.
const MaxSuggestions = 4

// Clock returns the current local time.
type Clock func() time.Time

var (
	teaSuggestions = []UpsellSuggestion{
		{"檸檬蜂蜜", "加檸檬蜂蜜，天然健康更好味！", 5, "加料"},
		{"薄荷葉", "加薄荷葉，清香怡人！", 3, "加料"},
	}
	coffeeSuggestions = []UpsellSuggestion{
		{"額外濃縮", "加一份濃縮，更香濃提神！", 8, "加料"},
		{"鮮奶", "轉用鮮奶，口感更順滑！", 5, "升級"},
	}
	coldDrinkSuggestion = UpsellSuggestion{"加冰", "夏日特飲，加冰更爽！", 2, "加料"}
	drinkPairings       = []UpsellSuggestion{
		{"牛油多士", "經典茶餐廳配搭，香脆可口！", 18, "配餐"},
		{"雞蛋三明治", "營養豐富，飽肚之選！", 25, "配餐"},
		{"薯條", "金黃香脆，老少咸宜！", 18, "小食"},
	}
	foodPairings = []UpsellSuggestion{
		{"凍檸茶", "茶餐廳經典，解膩必備！", 18, "飲品"},
		{"例湯", "今日例湯，暖胃開胃！", 12, "湯品"},
	}
	dessertSuggestion = UpsellSuggestion{"甜品", "滿$50送甜品優惠，布丁或雪糕任選！", 0, "優惠"}
	bundleSuggestion  = UpsellSuggestion{"升級套餐", "加$8升級套餐，包飲品+例湯！", 8, "套餐"}
	breakfastPicks    = []UpsellSuggestion{
		{"煎蛋", "早餐必備，營養豐富！", 12, "早餐"},
		{"熱咖啡", "早晨提神，香濃醒腦！", 25, "飲品"},
	}
	lunchPicks     = []UpsellSuggestion{{"今日特餐", "午餐特價，經濟實惠！", 35, "特餐"}}
	afternoonPicks = []UpsellSuggestion{{"下午茶套餐", "下午茶時光，多士+飲品！", 28, "套餐"}}
	healthyPicks   = []UpsellSuggestion{
		{"少糖選擇", "關注健康？可選擇少糖或無糖！", 0, "健康"},
		{"鮮榨果汁", "新鮮現榨，維他命豐富！", 28, "健康"},
	}
	fallbackSuggestion = UpsellSuggestion{"檸檬蜂蜜", "加檸檬蜂蜜更健康！", 5, "加料"}
)

const (
	dessertThreshold = 50.0
	bundleThreshold  = 30.0
)

// Upseller ranks add-on suggestions for an order.
type Upseller struct {
	now Clock
}

// NewUpseller creates an Upseller reading the time of day from clock.
// A nil clock uses time.Now.
func NewUpseller(clock Clock) *Upseller {
	if clock == nil {
		clock = time.Now
	}
	return &Upseller{now: clock}
}

// Recommend returns at most MaxSuggestions suggestions, unique by item,
// ordered by category then price.
func (u *Upseller) Recommend(o ParsedOrder) []UpsellSuggestion {
	s, _ := u.rank(o)
	return s
}

// Envelope wraps Recommend with the candidate count and the categories
// present in the result.
func (u *Upseller) Envelope(o ParsedOrder) Upselling {
	s, unique := u.rank(o)
	cats := make([]string, 0, len(s))
	for _, sg := range s {
		if !slices.Contains(cats, sg.Category) {
			cats = append(cats, sg.Category)
		}
	}
	return Upselling{Suggestions: s, TotalSuggestions: unique, Categories: cats}
}

type orderProfile struct {
	drinks, food, tea, coffee, cold bool
}

func profile(o ParsedOrder) orderProfile {
	var p orderProfile
	for _, it := range o.Items {
		name := strings.ToLower(it.Name)
		if IsDrink(name) {
			p.drinks = true
			p.tea = p.tea || strings.Contains(name, "茶")
			p.coffee = p.coffee || containsAny(name, "咖啡", "鴛鴦")
			if it.Customizations[AxisTemperature] == "凍" || strings.Contains(name, "凍") {
				p.cold = true
			}
		}
		if IsFood(name) {
			p.food = true
		}
	}
	return p
}

func (u *Upseller) rank(o ParsedOrder) (out []UpsellSuggestion, unique int) {
	defer func() {
		if r := recover(); r != nil {
			out, unique = []UpsellSuggestion{fallbackSuggestion}, 1
		}
	}()

	p := profile(o)
	var candidates []UpsellSuggestion
	if p.tea {
		candidates = append(candidates, teaSuggestions...)
	}
	if p.coffee {
		candidates = append(candidates, coffeeSuggestions...)
	}
	if p.cold {
		candidates = append(candidates, coldDrinkSuggestion)
	}
	if p.drinks && !p.food {
		candidates = append(candidates, drinkPairings...)
	}
	if p.food && !p.drinks {
		candidates = append(candidates, foodPairings...)
	}

	switch total := o.ItemsTotal(); {
	case total >= dessertThreshold:
		candidates = append(candidates, dessertSuggestion)
	case total >= bundleThreshold:
		candidates = append(candidates, bundleSuggestion)
	}

	candidates = append(candidates, timeOfDayPicks(u.now().Hour())...)
	candidates = append(candidates, healthyPicks...)

	seen := make(map[string]bool, len(candidates))
	deduped := make([]UpsellSuggestion, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.Item] {
			continue
		}
		seen[c.Item] = true
		deduped = append(deduped, c)
	}

	slices.SortStableFunc(deduped, func(a, b UpsellSuggestion) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Price, b.Price)
	})

	unique = len(deduped)
	if len(deduped) > MaxSuggestions {
		deduped = deduped[:MaxSuggestions]
	}
	return deduped, unique
}

// timeOfDayPicks buckets by local hour: 6-11 breakfast, 11-14 lunch,
// 14-17 afternoon tea. Boundary hours go to the earlier bucket.
func timeOfDayPicks(hour int) []UpsellSuggestion {
	switch {
	case hour >= 6 && hour <= 11:
		return breakfastPicks
	case hour >= 11 && hour <= 14:
		return lunchPicks
	case hour >= 14 && hour <= 17:
		return afternoonPicks
	default:
		return nil
	}
}
