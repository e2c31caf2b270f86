package item

import (
	"reflect"
	"testing"
)

func TestKindValid(t *testing.T) {
	if !KindLost.Valid() || !KindFound.Valid() {
		t.Error("lost and found should be valid kinds")
	}
	if Kind("misplaced").Valid() || Kind("").Valid() {
		t.Error("unknown kinds should be invalid")
	}
}

func TestLocationDisplay(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{Name: "Library"}, "Library"},
		{Location{Name: "Main Building", RoomNumber: "101"}, "Main Building (Room 101)"},
	}
	for _, tt := range tests {
		if got := tt.loc.Display(); got != tt.want {
			t.Errorf("Display() = %q, want %q", got, tt.want)
		}
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("listed category %q should validate", c)
		}
	}
	if ValidCategory("Spaceship") || ValidCategory("") {
		t.Error("unknown categories should not validate")
	}
}

func TestAttributesFor(t *testing.T) {
	attrs := AttributesFor("Smartphone")
	want := []string{"brand", "model", "color", "case_description", "has_lock_screen"}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("AttributesFor(Smartphone) = %v, want %v", attrs, want)
	}

	attrs[0] = "tampered"
	if AttributesFor("Smartphone")[0] != "brand" {
		t.Error("AttributesFor should return a copy")
	}

	if got := AttributesFor("Spaceship"); got != nil {
		t.Errorf("AttributesFor(unknown) = %v, want nil", got)
	}
}
