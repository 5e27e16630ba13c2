package order

import (
	"math"

	"github.com/google/uuid"
)

// Axis is a customization dimension.
type Axis string

const (
	AxisSweetness   Axis = "甜度"
	AxisIce         Axis = "冰塊"
	AxisTemperature Axis = "溫度"
	AxisAddOns      Axis = "加料"
	AxisSize        Axis = "份量"
)

// Source names the parser that produced an order.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

const (
	CategoryDrink = "飲品"
	CategoryFood  = "主食"
)

// Item is one order line.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name" validate:"required"`
	Quantity       int             `json:"quantity" validate:"gte=1"`
	UnitPrice      float64         `json:"unit_price" validate:"gte=0"`
	Customizations map[Axis]string `json:"customizations"`
	Category       string          `json:"category,omitempty"`
	TotalPrice     float64         `json:"total_price"`
}

func newItem(name string, quantity int, unitPrice float64, custom map[Axis]string) Item {
	if quantity < 1 {
		quantity = 1
	}
	if unitPrice < 0 {
		unitPrice = 0
	}
	if custom == nil {
		custom = map[Axis]string{}
	}
	return Item{
		ID:             uuid.NewString(),
		Name:           name,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Customizations: custom,
		Category:       Categorize(name),
	}
}

// LineTotal returns UnitPrice × Quantity.
func (it Item) LineTotal() float64 {
	return roundCents(it.UnitPrice * float64(it.Quantity))
}

// ParsedOrder is the structured result of parsing one transcript.
type ParsedOrder struct {
	Items               []Item   `json:"items" validate:"dive"`
	SpecialRequests     []string `json:"special_requests"`
	TranscriptionSource string   `json:"transcription"`
	ConfidenceScore     float64  `json:"confidence_score"`
	Total               float64  `json:"total"`
	ClarificationNeeded bool     `json:"clarification_needed"`
	UnclearItems        []string `json:"unclear_items"`
	Source              Source   `json:"source,omitempty"`
}

// ItemsTotal sums the line totals without modifying the order.
func (o ParsedOrder) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.LineTotal()
	}
	return roundCents(total)
}

// Recompute derives every line total and the order total from the items,
// and fills in missing IDs and nil collections.
func (o *ParsedOrder) Recompute() {
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.Customizations == nil {
			it.Customizations = map[Axis]string{}
		}
		it.TotalPrice = it.LineTotal()
	}
	if o.SpecialRequests == nil {
		o.SpecialRequests = []string{}
	}
	if o.UnclearItems == nil {
		o.UnclearItems = []string{}
	}
	o.Total = o.ItemsTotal()
}

// Clone returns a deep copy.
func (o ParsedOrder) Clone() ParsedOrder {
	out := o
	if o.Items != nil {
		out.Items = make([]Item, len(o.Items))
		for i, it := range o.Items {
			if it.Customizations != nil {
				c := make(map[Axis]string, len(it.Customizations))
				for k, v := range it.Customizations {
					c[k] = v
				}
				it.Customizations = c
			}
			out.Items[i] = it
		}
	}
	if o.SpecialRequests != nil {
		out.SpecialRequests = append([]string{}, o.SpecialRequests...)
	}
	if o.UnclearItems != nil {
		out.UnclearItems = append([]string{}, o.UnclearItems...)
	}
	return out
}

func (o *ParsedOrder) addRequest(r string) {
	for _, existing := range o.SpecialRequests {
		if existing == r {
			return
		}
	}
	o.SpecialRequests = append(o.SpecialRequests, r)
}

// UpsellSuggestion is one recommended add-on.
type UpsellSuggestion struct {
	Item     string  `json:"item"`
	Message  string  `json:"message"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// Upselling is the suggestion list with summary fields.
type Upselling struct {
	Suggestions []UpsellSuggestion `json:"suggestions"`
	// TotalSuggestions counts unique candidates before truncation.
	TotalSuggestions int      `json:"total_suggestions"`
	Categories       []string `json:"categories"`
}

// Extraction is the result of Engine.Extract.
type Extraction struct {
	Order     ParsedOrder `json:"order"`
	Upselling Upselling   `json:"upselling"`
	Cached    bool        `json:"cached"`
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
