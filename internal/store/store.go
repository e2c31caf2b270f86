// Package store owns the flat-file backed report collections.
package store

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Manoj120605/Lostfoundbot25/internal/codec"
	"github.com/Manoj120605/Lostfoundbot25/internal/item"
)

const (
	lostFile      = "lost_items.json"
	foundFile     = "found_items.json"
	locationsFile = "locations.json"

	reportTimeLayout = "2006-01-02 15:04:05"

	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	idLength   = 10
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Draft carries the caller-supplied fields of a new report. Identity, report
// time, and status are assigned by Add.
type Draft struct {
	PersonName     string
	ContactInfo    string
	Category       string
	EventTime      string
	Location       string
	Details        map[string]string
	AdditionalInfo string
}

// Filter narrows List results. Zero-value fields are ignored. Event-time
// bounds are inclusive and compared lexically, which is exact for the fixed
// "YYYY-MM-DD HH:MM" layout.
type Filter struct {
	Category  string
	Location  string // case-insensitive substring
	EventFrom string
	EventTo   string
}

// Store keeps the lost and found collections plus the predefined-location
// list in memory, persisting each to its own file under dataDir. A mutation
// is committed to memory only after its persist succeeds, so memory and disk
// cannot drift apart.
type Store struct {
	dataDir string
	clock   Clock
	newID   func() string

	lost      []item.Item
	found     []item.Item
	locations []item.Location
}

// Open loads (or initializes) the three backing files under dataDir. A
// missing or unreadable file is treated as an empty collection, never an
// error.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	s := &Store{
		dataDir: dataDir,
		clock:   realClock{},
		newID:   randomID,
	}
	s.lost = codec.DecodeItems(s.readFile(lostFile))
	s.found = codec.DecodeItems(s.readFile(foundFile))
	s.locations = codec.DecodeLocations(s.readFile(locationsFile))
	return s, nil
}

func (s *Store) readFile(name string) string {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("unreadable backing file, starting empty", "path", path, "error", err)
		}
		return ""
	}
	return string(data)
}

// Add assigns identity, report time, and OPEN status to draft, appends it to
// the collection named by kind, and rewrites both report files. The new
// report is returned; on persist failure nothing is committed.
func (s *Store) Add(kind item.Kind, draft Draft) (item.Item, error) {
	if !kind.Valid() {
		return item.Item{}, fmt.Errorf("unknown report kind %q", kind)
	}

	details := make(map[string]string, len(draft.Details))
	for k, v := range draft.Details {
		details[k] = v
	}

	target := s.lost
	if kind == item.KindFound {
		target = s.found
	}

	id, err := s.freshID(target)
	if err != nil {
		return item.Item{}, err
	}

	it := item.Item{
		ID:             id,
		PersonName:     draft.PersonName,
		ContactInfo:    draft.ContactInfo,
		Category:       draft.Category,
		EventTime:      draft.EventTime,
		Location:       draft.Location,
		ReportTime:     s.clock.Now().Format(reportTimeLayout),
		Details:        details,
		AdditionalInfo: draft.AdditionalInfo,
		Status:         item.StatusOpen,
	}

	lost, found := s.lost, s.found
	if kind == item.KindLost {
		lost = append(append([]item.Item{}, s.lost...), it)
	} else {
		found = append(append([]item.Item{}, s.found...), it)
	}

	// Every add rewrites both collections in full.
	if err := s.writeFile(lostFile, codec.EncodeItems(lost)); err != nil {
		return item.Item{}, fmt.Errorf("persisting lost reports: %w", err)
	}
	if err := s.writeFile(foundFile, codec.EncodeItems(found)); err != nil {
		return item.Item{}, fmt.Errorf("persisting found reports: %w", err)
	}

	s.lost, s.found = lost, found
	return it, nil
}

// freshID draws random identifiers until one does not collide with the
// target collection. Collisions are vanishingly rare (62^-10 per existing
// id) but re-rolling is cheap.
func (s *Store) freshID(existing []item.Item) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		id := s.newID()
		if !containsID(existing, id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique report id")
}

func containsID(items []item.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func randomID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	var b strings.Builder
	for _, c := range buf {
		b.WriteByte(idAlphabet[int(c)%len(idAlphabet)])
	}
	return b.String()
}

// writeFile replaces name atomically: the content lands in a temp file in
// the same directory and is renamed over the target, so an interrupted write
// never truncates an existing collection.
func (s *Store) writeFile(name, content string) error {
	path := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting mode on %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

// Lost returns a copy of the lost collection in insertion order.
func (s *Store) Lost() []item.Item {
	return append([]item.Item{}, s.lost...)
}

// Found returns a copy of the found collection in insertion order.
func (s *Store) Found() []item.Item {
	return append([]item.Item{}, s.found...)
}

// Locations returns a copy of the predefined-location list.
func (s *Store) Locations() []item.Location {
	return append([]item.Location{}, s.locations...)
}

// SetLocations replaces the predefined-location list and persists it.
func (s *Store) SetLocations(locs []item.Location) error {
	if err := s.writeFile(locationsFile, codec.EncodeLocations(locs)); err != nil {
		return fmt.Errorf("persisting locations: %w", err)
	}
	s.locations = append([]item.Location{}, locs...)
	return nil
}

// List returns the reports of one collection that pass the filter, in
// insertion order.
func (s *Store) List(kind item.Kind, f Filter) []item.Item {
	pool := s.lost
	if kind == item.KindFound {
		pool = s.found
	}
	var out []item.Item
	for _, it := range pool {
		if matchesFilter(it, f) {
			out = append(out, it)
		}
	}
	return out
}

func matchesFilter(it item.Item, f Filter) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(it.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.EventFrom != "" && it.EventTime < f.EventFrom {
		return false
	}
	if f.EventTo != "" && it.EventTime > f.EventTo {
		return false
	}
	return true
}
