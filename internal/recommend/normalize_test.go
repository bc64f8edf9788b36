package recommend

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want []string
	}{
		{"nil", nil, []string{}},
		{"comma_string", "Red, Blue ,  green", []string{"red", "blue", "green"}},
		{"empty_string", "", []string{}},
		{"trailing_commas", "red,,", []string{"red"}},
		{"string_slice", []string{" Red", "BLUE"}, []string{"red", "blue"}},
		{"any_slice", []any{"Red", 42, "blue"}, []string{"red", "blue"}},
		{"unsupported", 7, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseTags(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTags(%v) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeProductLowercasesFields(t *testing.T) {
	item := NormalizeProduct(SourceProduct{
		ID:          "7",
		Title:       "Trail Boot",
		ProductType: "Boots",
		Vendor:      "TrailCo",
		Tags:        "Leather,Brown",
		Price:       "89.99",
	})
	if item.Category != "boots" || item.Brand != "trailco" {
		t.Fatalf("expected lower-cased category/brand, got %q/%q", item.Category, item.Brand)
	}
	if !reflect.DeepEqual(item.Tags, []string{"leather", "brown"}) {
		t.Fatalf("unexpected tags %v", item.Tags)
	}
	if item.Price != 89.99 {
		t.Fatalf("unexpected price %f", item.Price)
	}
}

func TestNormalizeProductPrice(t *testing.T) {
	cases := []struct {
		name    string
		product SourceProduct
		want    float64
	}{
		{"variant_preferred", SourceProduct{Price: "10", Variants: []SourceVariant{{Price: "12.50"}}}, 12.50},
		{"top_level_fallback", SourceProduct{Price: "10"}, 10},
		{"empty_variant_falls_through", SourceProduct{Price: "10", Variants: []SourceVariant{{Price: ""}}}, 10},
		{"missing", SourceProduct{}, 0},
		{"malformed", SourceProduct{Price: "not-a-number"}, 0},
		{"negative_clamped", SourceProduct{Price: "-5"}, 0},
		{"malformed_variant", SourceProduct{Price: "10", Variants: []SourceVariant{{Price: "oops"}}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeProduct(tc.product).Price; got != tc.want {
				t.Fatalf("price = %f, want %f", got, tc.want)
			}
		})
	}
}
