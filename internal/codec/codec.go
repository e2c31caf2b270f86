// Package codec implements the textual on-disk format for item reports and
// predefined locations.
//
// The format is a JSON-shaped subset produced and consumed only by this
// package: a bracketed, comma-separated sequence of flat objects, where one
// nested object (the item "details" map) is allowed. The decoder is scoped to
// exactly the grammar the encoder emits; it is not a general-purpose JSON
// parser and never fails on malformed input — absent or unparseable fields
// degrade to empty strings and an empty details map.
//
// Known limitation: a field value containing an escaped double quote, or
// ending in a literal backslash, is not guaranteed to survive a round-trip.
// The value scanner stops at the first quote not immediately preceded by a
// backslash, which misreads those two shapes.
package codec

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Manoj120605/Lostfoundbot25/internal/item"
)

// itemFields is the fixed key order of an encoded item. Details are emitted
// between reportTime and additionalInfo.
var itemFields = []string{
	"id", "personName", "contactInfo", "category",
	"eventTime", "location", "reportTime",
}

// EncodeItems renders a collection as a bracketed sequence. An empty
// collection encodes as the canonical two-character form "[]".
func EncodeItems(items []item.Item) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		encodeItem(&b, it)
	}
	b.WriteByte(']')
	return b.String()
}

func encodeItem(b *strings.Builder, it item.Item) {
	values := []string{
		it.ID, it.PersonName, it.ContactInfo, it.Category,
		it.EventTime, it.Location, it.ReportTime,
	}

	b.WriteByte('{')
	for i, key := range itemFields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(b, key, values[i])
	}

	b.WriteString(`,"details":{`)
	keys := make([]string, 0, len(it.Details))
	for k := range it.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(b, Escape(k), it.Details[k])
	}
	b.WriteByte('}')

	b.WriteByte(',')
	writeField(b, "additionalInfo", it.AdditionalInfo)
	b.WriteByte(',')
	writeField(b, "status", it.Status)
	b.WriteByte('}')
}

// DecodeItems parses a collection previously produced by EncodeItems.
// Empty input and "[]" both decode to an empty collection.
func DecodeItems(text string) []item.Item {
	objects := splitObjects(text)
	items := make([]item.Item, 0, len(objects))
	for _, obj := range objects {
		items = append(items, decodeItem(obj))
	}
	return items
}

func decodeItem(obj string) item.Item {
	return item.Item{
		ID:             fieldValue(obj, "id"),
		PersonName:     fieldValue(obj, "personName"),
		ContactInfo:    fieldValue(obj, "contactInfo"),
		Category:       fieldValue(obj, "category"),
		EventTime:      fieldValue(obj, "eventTime"),
		Location:       fieldValue(obj, "location"),
		ReportTime:     fieldValue(obj, "reportTime"),
		Details:        decodeDetails(objectSpan(obj, "details")),
		AdditionalInfo: fieldValue(obj, "additionalInfo"),
		Status:         fieldValue(obj, "status"),
	}
}

// EncodeLocations renders the predefined-location list.
func EncodeLocations(locs []item.Location) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, loc := range locs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		writeField(&b, "name", loc.Name)
		b.WriteByte(',')
		writeField(&b, "roomNumber", loc.RoomNumber)
		b.WriteByte(',')
		writeField(&b, "description", loc.Description)
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.String()
}

// DecodeLocations parses a location list previously produced by
// EncodeLocations.
func DecodeLocations(text string) []item.Location {
	objects := splitObjects(text)
	locs := make([]item.Location, 0, len(objects))
	for _, obj := range objects {
		locs = append(locs, item.Location{
			Name:        fieldValue(obj, "name"),
			RoomNumber:  fieldValue(obj, "roomNumber"),
			Description: fieldValue(obj, "description"),
		})
	}
	return locs
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteByte('"')
	b.WriteString(key)
	b.WriteString(`":"`)
	b.WriteString(Escape(value))
	b.WriteByte('"')
}

// splitObjects cuts a bracketed sequence into its top-level brace-delimited
// objects. Characters at brace depth zero (brackets, separating commas,
// whitespace) are skipped, so both the canonical compact form and lightly
// reformatted documents split correctly.
func splitObjects(text string) []string {
	var objects []string
	var current strings.Builder
	depth := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '{':
			depth++
			current.WriteByte(c)
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			current.WriteByte(c)
			if depth == 0 {
				objects = append(objects, current.String())
				current.Reset()
			}
		default:
			if depth > 0 {
				current.WriteByte(c)
			}
		}
	}
	return objects
}

// fieldValue extracts the string value for key by literal substring search.
// A key that is absent (or not followed by a string value) yields "".
func fieldValue(obj, key string) string {
	marker := `"` + key + `":"`
	start := strings.Index(obj, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)
	end := nextQuote(obj, start)
	if end < 0 {
		return ""
	}
	return Unescape(obj[start:end])
}

// nextQuote returns the index of the first quote at or after start that is
// not immediately preceded by a backslash, or -1.
func nextQuote(s string, start int) int {
	for i := start; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// objectSpan returns the full brace-balanced span of the nested object stored
// under key, braces included. Missing or unbalanced objects yield "{}".
func objectSpan(obj, key string) string {
	marker := `"` + key + `":`
	pos := strings.Index(obj, marker)
	if pos < 0 {
		return "{}"
	}
	open := strings.IndexByte(obj[pos+len(marker):], '{')
	if open < 0 {
		return "{}"
	}
	open += pos + len(marker)

	depth := 1
	for i := open + 1; i < len(obj); i++ {
		switch obj[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return obj[open : i+1]
			}
		}
	}
	return "{}"
}

// decodeDetails parses the nested details object. Entries are split on
// commas outside quoted values; each half of an entry contributes the text
// between its first and last quote. Duplicate keys resolve last-write-wins.
func decodeDetails(span string) map[string]string {
	details := make(map[string]string)
	if len(span) < 2 || span == "{}" {
		return details
	}
	interior := span[1 : len(span)-1]

	var entries []string
	inQuotes := false
	var current strings.Builder
	for i := 0; i < len(interior); i++ {
		c := interior[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
		case c == ',' && !inQuotes:
			entries = append(entries, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		entries = append(entries, current.String())
	}

	for _, entry := range entries {
		colon := strings.IndexByte(entry, ':')
		if colon < 0 {
			continue
		}
		key := quotedInterior(entry[:colon])
		value := quotedInterior(entry[colon+1:])
		details[key] = value
	}
	return details
}

// quotedInterior returns the unescaped text between the first and last quote
// of s, or "" when s holds fewer than two quotes.
func quotedInterior(s string) string {
	first := strings.IndexByte(s, '"')
	last := strings.LastIndexByte(s, '"')
	if first < 0 || last <= first {
		return ""
	}
	return Unescape(s[first+1 : last])
}

// Escape backslash-escapes quotes, backslashes, and control characters so a
// value can be embedded in a quoted field.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				const hex = "0123456789abcdef"
				b.WriteString(`\u00`)
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0xf])
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// Unescape reverses Escape. Unknown escape sequences pass through with the
// backslash dropped; a trailing lone backslash is kept as-is.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteByte('u')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
