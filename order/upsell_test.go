package order

import (
	"slices"
	"testing"
	"time"
)

func orderOf(items ...Item) ParsedOrder {
	o := ParsedOrder{Items: items}
	o.Recompute()
	return o
}

func item(name string, qty int, price float64) Item {
	return newItem(name, qty, price, nil)
}

func itemNames(s []UpsellSuggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = sg.Item
	}
	return out
}

func countItem(s []UpsellSuggestion, name string) int {
	n := 0
	for _, sg := range s {
		if sg.Item == name {
			n++
		}
	}
	return n
}

func TestRecommend_TotalOf55(t *testing.T) {
	u := NewUpseller(fixedClock(20))
	o := orderOf(item("雲吞麵", 1, 35), item("凍檸茶", 1, 20))
	if o.Total != 55 {
		t.Fatalf("setup total = %v", o.Total)
	}

	got := u.Recommend(o)
	if countItem(got, "甜品") != 1 {
		t.Errorf("expected one dessert suggestion, got %v", itemNames(got))
	}
	if countItem(got, "升級套餐") != 0 {
		t.Errorf("unexpected bundle suggestion in %v", itemNames(got))
	}
}

func TestRecommend_BundleBetween30And50(t *testing.T) {
	u := NewUpseller(fixedClock(20))
	got := u.Envelope(orderOf(item("炒麵", 1, 32)))
	all := itemNames(got.Suggestions)
	if countItem(got.Suggestions, "甜品") != 0 {
		t.Errorf("unexpected dessert in %v", all)
	}
	// 套餐 sorts ahead of the 湯品 and 飲品 pairings.
	if !slices.Contains(all, "升級套餐") {
		t.Errorf("expected bundle in %v", all)
	}
}

func TestRecommend_DrinksOnlyMorning(t *testing.T) {
	u := NewUpseller(fixedClock(8))
	env := u.Envelope(orderOf(item("凍檸茶", 1, 18)))

	// Candidates: tea x2, cold, three pairings, breakfast x2, healthy x2.
	if env.TotalSuggestions != 10 {
		t.Errorf("expected 10 unique candidates, got %d", env.TotalSuggestions)
	}
	want := []string{"少糖選擇", "鮮榨果汁", "加冰", "薄荷葉"}
	if got := itemNames(env.Suggestions); !slices.Equal(got, want) {
		t.Errorf("suggestions = %v, want %v", got, want)
	}
	if !slices.Equal(env.Categories, []string{"健康", "加料"}) {
		t.Errorf("categories = %v", env.Categories)
	}
}

func TestRecommend_InvariantsAcrossHours(t *testing.T) {
	orders := []ParsedOrder{
		orderOf(),
		orderOf(item("熱奶茶", 2, 22)),
		orderOf(item("鴛鴦", 1, 28), item("咖啡", 1, 25)),
		orderOf(item("乾炒牛河", 1, 38), item("凍檸茶", 3, 18)),
		orderOf(item("多士", 1, 15)),
		ParseLocally("一杯熱咖啡同埋兩份牛油多士"),
	}
	for hour := 0; hour < 24; hour++ {
		u := NewUpseller(fixedClock(hour))
		for _, o := range orders {
			got := u.Recommend(o)
			if len(got) == 0 || len(got) > MaxSuggestions {
				t.Fatalf("hour %d: %d suggestions", hour, len(got))
			}
			seen := map[string]bool{}
			for i, sg := range got {
				if seen[sg.Item] {
					t.Errorf("hour %d: duplicate %s", hour, sg.Item)
				}
				seen[sg.Item] = true
				if sg.Price < 0 {
					t.Errorf("hour %d: negative price %+v", hour, sg)
				}
				if i > 0 {
					prev := got[i-1]
					if prev.Category > sg.Category || (prev.Category == sg.Category && prev.Price > sg.Price) {
						t.Errorf("hour %d: not sorted %v", hour, got)
					}
				}
			}
		}
	}
}

func TestRecommend_CoffeeOnly(t *testing.T) {
	u := NewUpseller(fixedClock(20))
	env := u.Envelope(orderOf(item("咖啡", 1, 25)))
	// coffee x2, pairings x3, healthy x2
	if env.TotalSuggestions != 7 {
		t.Errorf("expected 7 candidates, got %d (%v)", env.TotalSuggestions, itemNames(env.Suggestions))
	}
}

func TestTimeOfDayPicks(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, ""},
		{6, "煎蛋"},
		{11, "煎蛋"},
		{12, "今日特餐"},
		{14, "今日特餐"},
		{15, "下午茶套餐"},
		{17, "下午茶套餐"},
		{18, ""},
	}
	for _, tt := range tests {
		picks := timeOfDayPicks(tt.hour)
		got := ""
		if len(picks) > 0 {
			got = picks[0].Item
		}
		if got != tt.want {
			t.Errorf("hour %d: got %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestRecommend_PanicFallsBack(t *testing.T) {
	u := NewUpseller(func() time.Time { panic("clock broken") })
	got := u.Envelope(orderOf(item("奶茶", 1, 22)))
	if len(got.Suggestions) != 1 || got.Suggestions[0].Item != "檸檬蜂蜜" || got.TotalSuggestions != 1 {
		t.Fatalf("expected single fallback suggestion, got %+v", got)
	}
}
