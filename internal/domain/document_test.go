package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestItemMarshalExternalizesID(t *testing.T) {
	id := NewID()
	item := Item{ID: id, Fields: Document{"item_title": "Book", "item_type": "physical"}}

	b, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out["_id"] != FormatID(id) {
		t.Fatalf("expected _id %s got %v", FormatID(id), out["_id"])
	}
	if out["item_title"] != "Book" {
		t.Fatalf("expected item_title to be kept, got %v", out["item_title"])
	}
}

func TestDocumentCloneDropsID(t *testing.T) {
	doc := Document{"_id": "client-chosen", "name": "fiction"}

	clone := doc.Clone()
	if _, ok := clone["_id"]; ok {
		t.Fatalf("expected _id to be dropped")
	}
	if clone["name"] != "fiction" {
		t.Fatalf("expected name to be kept")
	}
	if _, ok := doc["_id"]; !ok {
		t.Fatalf("source document must not be modified")
	}
}

func TestDecodeDocumentKeepsLargeIntegers(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{"isbn":9007199254740993,"nested":{"n":9007199254740995},"list":[9007199254740997]}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if doc["isbn"] != json.Number("9007199254740993") {
		t.Fatalf("expected exact number, got %v", doc["isbn"])
	}

	b, err := json.Marshal(Item{ID: NewID(), Fields: doc})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	for _, want := range []string{"9007199254740993", "9007199254740995", "9007199254740997"} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("expected %s in %s", want, b)
		}
	}
}

func TestDecodeDocumentEmptyBody(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(""))
	if err != nil || doc != nil {
		t.Fatalf("expected nil document without error, got %v %v", doc, err)
	}

	if _, err := DecodeDocument(strings.NewReader(`["a"]`)); err == nil {
		t.Fatalf("expected error for a non-object body")
	}
}

func TestNormalizeNumbers(t *testing.T) {
	in := Document{
		"big":    json.Number("9007199254740993"),
		"ratio":  json.Number("1.5"),
		"nested": map[string]any{"n": json.Number("7")},
		"list":   []any{json.Number("8"), "x"},
	}

	out, ok := NormalizeNumbers(in).(map[string]any)
	if !ok {
		t.Fatalf("expected a map, got %T", NormalizeNumbers(in))
	}
	if out["big"] != int64(9007199254740993) {
		t.Fatalf("expected int64, got %T %v", out["big"], out["big"])
	}
	if out["ratio"] != 1.5 {
		t.Fatalf("expected float64 1.5, got %T %v", out["ratio"], out["ratio"])
	}
	if out["nested"].(map[string]any)["n"] != int64(7) {
		t.Fatalf("nested number not converted: %v", out["nested"])
	}
	list := out["list"].([]any)
	if list[0] != int64(8) || list[1] != "x" {
		t.Fatalf("list not converted: %v", list)
	}
}
