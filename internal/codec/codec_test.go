package codec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Manoj120605/Lostfoundbot25/internal/item"
)

func TestEncodeItemsEmpty(t *testing.T) {
	if got := EncodeItems(nil); got != "[]" {
		t.Errorf("EncodeItems(nil) = %q, want %q", got, "[]")
	}
	if got := EncodeItems([]item.Item{}); got != "[]" {
		t.Errorf("EncodeItems(empty) = %q, want %q", got, "[]")
	}
}

func TestDecodeItemsEmpty(t *testing.T) {
	for _, input := range []string{"", "[]"} {
		if got := DecodeItems(input); len(got) != 0 {
			t.Errorf("DecodeItems(%q) = %v, want empty", input, got)
		}
	}
}

func TestItemsRoundTrip(t *testing.T) {
	items := []item.Item{
		{
			ID:          "aB3xY9Qw12",
			PersonName:  "Rahul Sharma",
			ContactInfo: "rahul@example.com",
			Category:    "Smartphone",
			EventTime:   "2025-03-14 09:30",
			Location:    "Library (Room 12)",
			ReportTime:  "2025-03-14 10:02:45",
			Details: map[string]string{
				"brand": "Apple",
				"color": "black",
				"model": "iPhone 13",
			},
			AdditionalInfo: "cracked screen, blue case",
			Status:         item.StatusOpen,
		},
		{
			ID:             "Zz00000001",
			PersonName:     "Security Desk",
			ContactInfo:    "",
			Category:       "Wallet",
			EventTime:      "",
			Location:       "Cafeteria",
			ReportTime:     "2025-03-15 18:00:00",
			Details:        map[string]string{"color": "brown"},
			AdditionalInfo: "",
			Status:         item.StatusResolved,
		},
	}

	decoded := DecodeItems(EncodeItems(items))
	if !reflect.DeepEqual(decoded, items) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", decoded, items)
	}
}

func TestEncodeItemsFieldOrder(t *testing.T) {
	encoded := EncodeItems([]item.Item{{
		ID:      "X123456789",
		Details: map[string]string{"color": "red", "brand": "Acme"},
	}})

	// Scalars in fixed order, detail keys sorted.
	wantOrder := []string{
		`"id":`, `"personName":`, `"contactInfo":`, `"category":`,
		`"eventTime":`, `"location":`, `"reportTime":`,
		`"details":{`, `"brand":"Acme"`, `"color":"red"`,
		`"additionalInfo":`, `"status":`,
	}
	pos := 0
	for _, marker := range wantOrder {
		idx := strings.Index(encoded[pos:], marker)
		if idx < 0 {
			t.Fatalf("marker %q missing or out of order in %q", marker, encoded)
		}
		pos += idx
	}
}

func TestDecodeItemMissingFields(t *testing.T) {
	items := DecodeItems(`[{"id":"X1"}]`)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	it := items[0]
	if it.ID != "X1" {
		t.Errorf("ID = %q, want %q", it.ID, "X1")
	}
	if it.PersonName != "" || it.Status != "" {
		t.Errorf("missing fields should decode empty, got %#v", it)
	}
	if it.Details == nil || len(it.Details) != 0 {
		t.Errorf("Details = %v, want empty non-nil map", it.Details)
	}
}

func TestDecodeDetailsLastWriteWins(t *testing.T) {
	items := DecodeItems(`[{"id":"X1","details":{"color":"red","color":"blue"}}]`)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if got := items[0].Details["color"]; got != "blue" {
		t.Errorf("duplicate key resolved to %q, want %q", got, "blue")
	}
}

func TestDecodeItemsIgnoresWhitespace(t *testing.T) {
	input := "[\n  {\"id\":\"A1\"} ,\n  {\"id\":\"B2\"}\n]"
	items := DecodeItems(input)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != "A1" || items[1].ID != "B2" {
		t.Errorf("ids = %q, %q", items[0].ID, items[1].ID)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"line\nbreak", `line\nbreak`},
		{"tab\there", `tab\there`},
		{"bell\x07", `bell\u0007`},
		{"\b\f\r", `\b\f\r`},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnescapeInvertsEscape(t *testing.T) {
	inputs := []string{
		"plain",
		"line\nbreak\ttab",
		"control\x01char",
		"\b\f\r",
	}
	for _, in := range inputs {
		if got := Unescape(Escape(in)); got != in {
			t.Errorf("Unescape(Escape(%q)) = %q", in, got)
		}
	}
}

func TestUnescapeUnknownSequence(t *testing.T) {
	if got := Unescape(`a\qb`); got != "aqb" {
		t.Errorf("Unescape = %q, want %q", got, "aqb")
	}
	if got := Unescape(`trailing\`); got != `trailing\` {
		t.Errorf("Unescape = %q, want %q", got, `trailing\`)
	}
}

func TestLocationsRoundTrip(t *testing.T) {
	locs := []item.Location{
		{Name: "Main Building", RoomNumber: "101", Description: "First floor lobby"},
		{Name: "Library", Description: "Main reading area"},
	}
	decoded := DecodeLocations(EncodeLocations(locs))
	if !reflect.DeepEqual(decoded, locs) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", decoded, locs)
	}
}

func TestEncodeLocationsEmpty(t *testing.T) {
	if got := EncodeLocations(nil); got != "[]" {
		t.Errorf("EncodeLocations(nil) = %q, want %q", got, "[]")
	}
}
