// Package record defines the fixed-shape profile record produced for every
// search result.
package record

import "strings"

// Placeholder is the value of every field that extraction did not populate.
const Placeholder = "N/A"

// Field identifies one canonical column of a Record.
type Field int

const (
	Name Field = iota
	Photo
	Connections
	Contact
	Summary
	CurrentWorkplace
	Experience
	Education
	Skills
	Recommendations
	Accomplishments
	Interests
	CurrentPosition
	Duration
	Location

	fieldCount
)

var fieldNames = [fieldCount]string{
	Name:             "Name",
	Photo:            "Photo",
	Connections:      "Connections",
	Contact:          "Contact",
	Summary:          "Summary",
	CurrentWorkplace: "Current Workplace",
	Experience:       "Experience/Previous Workplace",
	Education:        "Education History",
	Skills:           "Feature Skills and Endorsement",
	Recommendations:  "Recommendations",
	Accomplishments:  "Accomplishments",
	Interests:        "Interests",
	CurrentPosition:  "Current Position",
	Duration:         "Duration",
	Location:         "Location",
}

func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "Unknown"
	}
	return fieldNames[f]
}

// Fields returns every canonical field in column order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	for i := range out {
		out[i] = Field(i)
	}
	return out
}

// Header returns the canonical column names in order.
func Header() []string {
	out := make([]string, fieldCount)
	copy(out, fieldNames[:])
	return out
}

// Relationship is the access level the searcher has to a profile.
type Relationship int

const (
	Full Relationship = iota
	Restricted
)

func (r Relationship) String() string {
	if r == Restricted {
		return "restricted"
	}
	return "full"
}

// Record holds one optional value per canonical field. A nil slot reads as
// Placeholder, so no field can ever be missing from a row.
type Record struct {
	values [fieldCount]*string

	ProfileURL   string
	Relationship Relationship
	Query        string
}

// New returns a Record with every field at Placeholder.
func New() *Record {
	return &Record{}
}

// Set stores text in f unless it is blank. It reports whether the value was
// stored.
func (r *Record) Set(f Field, text string) bool {
	if f < 0 || f >= fieldCount || strings.TrimSpace(text) == "" {
		return false
	}
	v := text
	r.values[f] = &v
	return true
}

// Get returns the value of f, or Placeholder.
func (r *Record) Get(f Field) string {
	if f < 0 || f >= fieldCount || r.values[f] == nil {
		return Placeholder
	}
	return *r.values[f]
}

// Populated reports whether f holds extracted content.
func (r *Record) Populated(f Field) bool {
	return f >= 0 && f < fieldCount && r.values[f] != nil
}

// Values returns the row in column order.
func (r *Record) Values() []string {
	out := make([]string, fieldCount)
	for i := range out {
		out[i] = r.Get(Field(i))
	}
	return out
}

// Map returns the record keyed by canonical column name.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, fieldCount)
	for i, name := range fieldNames {
		out[name] = r.Get(Field(i))
	}
	return out
}
