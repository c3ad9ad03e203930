package catalog

import (
	"sort"
	"time"
)

// CourseRecord is one course offering row from one semester file.
// An empty College, Department or CourseName means the cell was blank.
type CourseRecord struct {
	Year       string   `json:"year"`
	Term       string   `json:"term"`
	College    string   `json:"college,omitempty"`
	Department string   `json:"department,omitempty"`
	CourseCode string   `json:"course_code"`
	CourseName string   `json:"course_name,omitempty"`
	Tags       []string `json:"tags"`

	// Passthrough attributes, carried but never computed on.
	Credits    string `json:"credits,omitempty"`
	Elective   string `json:"elective,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	SourceFile string `json:"source_file,omitempty"`
}

// Key returns the natural key (year, term, course code).
func (r CourseRecord) Key() NaturalKey {
	return NaturalKey{Year: r.Year, Term: r.Term, CourseCode: r.CourseCode}
}

// HasAnyTag reports whether the record carries at least one tag in set.
func (r CourseRecord) HasAnyTag(set map[string]struct{}) bool {
	for _, tag := range r.Tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}

// NaturalKey identifies one real course offering.
type NaturalKey struct {
	Year       string
	Term       string
	CourseCode string
}

// Terms are the fixed term codes: 1 (fall) and 2 (spring).
var Terms = []string{"1", "2"}

// Lookups are the sorted, distinct, non-empty selection lists derived from a catalog.
type Lookups struct {
	Tags        []string `json:"tags"`
	Colleges    []string `json:"colleges"`
	Departments []string `json:"departments"`
	Years       []string `json:"years"`
	Terms       []string `json:"terms"`
}

// FileReport is the ingestion result of one qualifying source file.
type FileReport struct {
	Name  string `json:"name"`
	Year  string `json:"year"`
	Term  string `json:"term"`
	Rows  int    `json:"rows"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the file could not be ingested.
func (f FileReport) Failed() bool {
	return f.Error != ""
}

// Catalog is the unified, immutable table of every ingested record.
type Catalog struct {
	Records     []CourseRecord `json:"-"`
	Lookups     Lookups        `json:"lookups"`
	Files       []FileReport   `json:"files"`
	Version     string         `json:"version"`
	Fingerprint string         `json:"fingerprint"`
	LoadedAt    time.Time      `json:"loaded_at"`
}

// NewCatalog wraps records and derives the lookup lists from them.
func NewCatalog(records []CourseRecord) *Catalog {
	return &Catalog{
		Records: records,
		Lookups: BuildLookups(records),
	}
}

// BuildLookups derives the distinct sorted selection lists from records.
func BuildLookups(records []CourseRecord) Lookups {
	tags := make(map[string]struct{})
	colleges := make(map[string]struct{})
	departments := make(map[string]struct{})
	years := make(map[string]struct{})

	for _, r := range records {
		for _, tag := range r.Tags {
			tags[tag] = struct{}{}
		}
		if r.College != "" {
			colleges[r.College] = struct{}{}
		}
		if r.Department != "" {
			departments[r.Department] = struct{}{}
		}
		if r.Year != "" {
			years[r.Year] = struct{}{}
		}
	}

	return Lookups{
		Tags:        sortedKeys(tags),
		Colleges:    sortedKeys(colleges),
		Departments: sortedKeys(departments),
		Years:       sortedKeys(years),
		Terms:       append([]string(nil), Terms...),
	}
}

// Criteria is one interaction's filter selection.
//
// Years and Terms use match-none semantics when empty; Colleges,
// Departments, Tags and Keyword match everything when empty.
type Criteria struct {
	Years       []string `json:"years"`
	Terms       []string `json:"terms"`
	Colleges    []string `json:"colleges"`
	Departments []string `json:"departments"`
	Tags        []string `json:"tags"`
	Keyword     string   `json:"keyword"`
}

// DefaultCriteria selects the latest year and both terms, leaving every
// other dimension unrestricted.
func DefaultCriteria(l Lookups) Criteria {
	c := Criteria{Terms: append([]string(nil), Terms...)}
	if n := len(l.Years); n > 0 {
		c.Years = []string{l.Years[n-1]}
	} else {
		c.Years = []string{}
	}
	return c
}

// Dimension is a column records can be grouped by.
type Dimension string

const (
	DimYear       Dimension = "year"
	DimTerm       Dimension = "term"
	DimCollege    Dimension = "college"
	DimDepartment Dimension = "department"
)

// Value returns the record's value for d.
func (d Dimension) Value(r CourseRecord) string {
	switch d {
	case DimYear:
		return r.Year
	case DimTerm:
		return r.Term
	case DimCollege:
		return r.College
	case DimDepartment:
		return r.Department
	default:
		return ""
	}
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimYear, DimTerm, DimCollege, DimDepartment:
		return true
	}
	return false
}

// UnassignedLabel labels a group whose key is blank.
const UnassignedLabel = "(unassigned)"

// AggregateRow is one group and its member count.
type AggregateRow struct {
	Keys  []string `json:"keys"`
	Label string   `json:"label"`
	Count int      `json:"count"`
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
