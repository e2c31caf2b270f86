package item

// Item statuses. Nothing in the current workflow transitions a report to
// RESOLVED, but the field is persisted so the value survives round-trips.
const (
	StatusOpen     = "OPEN"
	StatusResolved = "RESOLVED"
)

// Kind selects one of the two report collections.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// Valid reports whether k names a known collection.
func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Item is a single lost-or-found report. All fields except Status are
// immutable once the report has been stored.
type Item struct {
	ID             string            `json:"id"`
	PersonName     string            `json:"personName"`
	ContactInfo    string            `json:"contactInfo"`
	Category       string            `json:"category"`
	EventTime      string            `json:"eventTime"` // when lost/found, "YYYY-MM-DD HH:MM"
	Location       string            `json:"location"`
	ReportTime     string            `json:"reportTime"` // assigned at creation
	Details        map[string]string `json:"details"`
	AdditionalInfo string            `json:"additionalInfo"`
	Status         string            `json:"status"`
}

// Location is a predefined place reports can reference.
type Location struct {
	Name        string `json:"name"`
	RoomNumber  string `json:"roomNumber"`
	Description string `json:"description"`
}

// Display renders the canonical "Name (Room X)" form used in report
// locations. Locations without a room number render as just the name.
func (l Location) Display() string {
	if l.RoomNumber == "" {
		return l.Name
	}
	return l.Name + " (Room " + l.RoomNumber + ")"
}
