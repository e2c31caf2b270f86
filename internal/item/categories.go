package item

// Categories is the fixed item taxonomy, in menu order. Only reports within
// the same category can ever match each other.
var Categories = []string{
	"Smartphone",
	"Laptop",
	"Tablet",
	"Headphone",
	"Smartwatch",
	"Wallet",
	"Keys",
	"Bag",
	"Other",
}

// categoryAttributes maps each category to the ordered list of detail keys
// that are meaningful for it. The details map itself accepts arbitrary keys;
// this table only drives prompts and tool schemas.
var categoryAttributes = map[string][]string{
	"Smartphone": {"brand", "model", "color", "case_description", "has_lock_screen"},
	"Laptop":     {"brand", "model", "color", "has_stickers", "laptop_bag"},
	"Tablet":     {"brand", "model", "color", "has_case", "screen_size"},
	"Headphone":  {"brand", "model", "color", "wired_wireless", "has_case"},
	"Smartwatch": {"brand", "model", "color", "band_type"},
	"Wallet":     {"color", "size", "distinguishing_features"},
	"Keys":       {"color", "size", "distinguishing_features"},
	"Bag":        {"color", "size", "distinguishing_features"},
	"Other":      {"color", "size", "distinguishing_features"},
}

// ValidCategory reports whether name is part of the taxonomy.
func ValidCategory(name string) bool {
	_, ok := categoryAttributes[name]
	return ok
}

// AttributesFor returns the detail keys relevant to a category, or nil for an
// unknown category. The returned slice is a copy.
func AttributesFor(category string) []string {
	attrs, ok := categoryAttributes[category]
	if !ok {
		return nil
	}
	out := make([]string, len(attrs))
	copy(out, attrs)
	return out
}

// DefaultLocations is the seed list for a fresh locations store.
var DefaultLocations = []Location{
	{Name: "Main Building", RoomNumber: "101", Description: "First floor lobby"},
	{Name: "Main Building", RoomNumber: "204", Description: "Second floor classroom"},
	{Name: "Library", Description: "Main reading area"},
	{Name: "Cafeteria", Description: "Dining area"},
	{Name: "Gym", Description: "Sports facility"},
	{Name: "Parking Lot", Description: "North side parking"},
}
