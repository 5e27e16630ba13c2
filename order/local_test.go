package order

import (
	"math"
	"slices"
	"testing"
)

func TestParseLocally_ColdLemonTeaScenario(t *testing.T) {
	o := ParseLocally("我要一杯凍檸茶少甜走冰")

	if len(o.Items) != 1 {
		t.Fatalf("expected 1 item, got %+v", o.Items)
	}
	it := o.Items[0]
	if it.Name != "凍檸茶" || it.Quantity != 1 || it.UnitPrice != 18 {
		t.Errorf("unexpected item %+v", it)
	}
	if it.Customizations[AxisSweetness] != "少甜" {
		t.Errorf("sweetness = %q", it.Customizations[AxisSweetness])
	}
	if it.Customizations[AxisIce] != "走冰" {
		t.Errorf("ice = %q", it.Customizations[AxisIce])
	}
	for _, want := range []string{"少甜", "走冰"} {
		if !slices.Contains(o.SpecialRequests, want) {
			t.Errorf("special requests %v missing %q", o.SpecialRequests, want)
		}
	}
	if o.ConfidenceScore != 0.85 || o.Source != SourceLocal {
		t.Errorf("confidence %v source %q", o.ConfidenceScore, o.Source)
	}
	if o.Total != 18 {
		t.Errorf("total = %v", o.Total)
	}
}

func TestParseLocally_HotMilkTeaQuantity(t *testing.T) {
	o := ParseLocally("兩杯熱奶茶")
	if len(o.Items) != 1 {
		t.Fatalf("expected 1 item, got %+v", o.Items)
	}
	it := o.Items[0]
	if it.Name != "熱奶茶" || it.Quantity != 2 {
		t.Fatalf("expected 熱奶茶 x2, got %s x%d", it.Name, it.Quantity)
	}
	if it.TotalPrice != 44 || o.Total != 44 {
		t.Errorf("line %v total %v", it.TotalPrice, o.Total)
	}
	if !slices.Contains(o.SpecialRequests, "要熱的") {
		t.Errorf("expected hot request, got %v", o.SpecialRequests)
	}
}

func TestParseLocally_Fallback(t *testing.T) {
	o := ParseLocally("唔該埋單")
	if len(o.Items) != 1 || o.Items[0].Name != FallbackItem || o.Items[0].UnitPrice != FallbackItemPrice {
		t.Fatalf("expected fallback item, got %+v", o.Items)
	}
	if o.ConfidenceScore != 0.5 {
		t.Errorf("expected reduced confidence, got %v", o.ConfidenceScore)
	}
}

func TestParseLocally_EntriesNotMerged(t *testing.T) {
	o := ParseLocally("一碟揚州炒飯")
	var names []string
	for _, it := range o.Items {
		names = append(names, it.Name)
	}
	if !slices.Equal(names, []string{"揚州炒飯", "炒飯"}) {
		t.Fatalf("expected both catalog entries, got %v", names)
	}
	if o.Items[0].UnitPrice != 35 || o.Items[1].UnitPrice != 32 {
		t.Errorf("unexpected prices %+v", o.Items)
	}
}

func TestParseLocally_MixedOrder(t *testing.T) {
	o := ParseLocally("一杯熱咖啡同埋兩份牛油多士，大杯加奶")
	if len(o.Items) != 3 {
		t.Fatalf("expected coffee and two toast entries, got %+v", o.Items)
	}
	coffee := o.Items[0]
	if coffee.Name != "咖啡" || coffee.Quantity != 1 || coffee.Category != CategoryDrink {
		t.Errorf("unexpected coffee %+v", coffee)
	}
	if coffee.Customizations[AxisSize] != "大杯" || coffee.Customizations[AxisAddOns] != "奶" {
		t.Errorf("unexpected customizations %v", coffee.Customizations)
	}
	toast := o.Items[1]
	if toast.Name != "牛油多士" || toast.Quantity != 2 || toast.Category != CategoryFood {
		t.Errorf("unexpected toast %+v", toast)
	}
	// Customizations are per item copies.
	coffee.Customizations[AxisSize] = "細"
	if o.Items[1].Customizations[AxisSize] != "大杯" {
		t.Error("items share a customization map")
	}
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		text, keyword string
		want          int
	}{
		{"兩杯熱奶茶", "奶茶", 2},
		{"3杯凍檸茶", "檸茶", 3},
		{"奶茶兩杯", "奶茶", 2},
		{"可樂12杯", "可樂", 12},
		{"十杯可樂", "可樂", 10},
		{"半杯奶茶", "奶茶", 1},
		{"0杯奶茶", "奶茶", 1},
		{"奶茶", "奶茶", 1},
		{"三個sandwich", "sandwich", 3},
		{"２杯奶茶", "奶茶", 2},
		{"可樂１２杯", "可樂", 12},
		{"1０杯檸茶", "檸茶", 10},
		{"5000杯奶茶", "奶茶", 999},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := extractQuantity(tt.text, tt.keyword); got != tt.want {
				t.Errorf("extractQuantity(%q, %q) = %d, want %d", tt.text, tt.keyword, got, tt.want)
			}
		})
	}
}

func TestExtractCustomizations(t *testing.T) {
	tests := []struct {
		text string
		want map[Axis]string
	}{
		{"少甜走冰", map[Axis]string{AxisSweetness: "少甜", AxisIce: "走冰"}},
		{"走糖少冰", map[Axis]string{AxisSweetness: "無糖", AxisIce: "少冰"}},
		{"甜啲", map[Axis]string{AxisSweetness: "甜"}},
		{"半糖", map[Axis]string{AxisSweetness: "半糖"}},
		{"熱又凍", map[Axis]string{AxisTemperature: "熱"}},
		{"室溫中杯", map[Axis]string{AxisTemperature: "室溫", AxisSize: "中杯"}},
		{"加蜂蜜加檸檬", map[Axis]string{AxisAddOns: "檸檬,蜂蜜"}},
		{"", map[Axis]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := extractCustomizations(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestPriceFor(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"凍檸茶", 18},
		{"牛腩麵", 42},
		{"COLA", 20},
		{"特濃凍檸茶", 18},
		{"凍檸檬茶", 18},
		{"菊花茶", 22},
		{"星洲炒米", 20},
		{"擔擔麵", 35},
		{"南瓜湯", 12},
		{"蛋撻", 20},
		{"", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceFor(tt.name); got != tt.want {
				t.Errorf("PriceFor(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseLocally_Invariants(t *testing.T) {
	texts := []string{
		"", "   ", "hello", "我要一杯凍檸茶少甜走冰", "兩杯熱奶茶", "半個三明治",
		"999999999999999999999杯奶茶", "一杯咖啡一杯鴛鴦一碟炒麵", "COLA同SPRITE",
		"走冰走冰走冰", "十杯阿華田加十份法式多士",
	}
	for _, text := range texts {
		o := ParseLocally(text)
		if len(o.Items) == 0 {
			t.Errorf("%q: no items", text)
			continue
		}
		var sum float64
		for _, it := range o.Items {
			if it.Quantity < 1 || it.UnitPrice < 0 {
				t.Errorf("%q: bad item %+v", text, it)
			}
			if it.ID == "" {
				t.Errorf("%q: item without ID", text)
			}
			sum += it.UnitPrice * float64(it.Quantity)
		}
		if math.Abs(o.Total-sum) > 1e-9 {
			t.Errorf("%q: total %v != sum %v", text, o.Total, sum)
		}
		if o.ConfidenceScore < 0.5 || o.ConfidenceScore > 0.85 {
			t.Errorf("%q: confidence %v", text, o.ConfidenceScore)
		}
		if o.TranscriptionSource != text {
			t.Errorf("%q: transcription not preserved", text)
		}
	}
}
