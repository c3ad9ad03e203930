package excel

import (
	"fmt"
	"os"
	"strings"

	"coursedash/domain/catalog"

	"gopkg.in/yaml.v3"
)

// ColumnMap lists, per course field, the header names accepted for it.
// The first header present in a file wins.
type ColumnMap struct {
	Tags       []string `yaml:"tags" json:"tags"`
	College    []string `yaml:"college" json:"college"`
	Department []string `yaml:"department" json:"department"`
	CourseCode []string `yaml:"course_code" json:"course_code"`
	CourseName []string `yaml:"course_name" json:"course_name"`
	Credits    []string `yaml:"credits" json:"credits"`
	Elective   []string `yaml:"elective" json:"elective"`
	Instructor []string `yaml:"instructor" json:"instructor"`
}

// DefaultColumnMap accepts the registrar export headers plus English equivalents.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		Tags:       []string{"課程標籤", "Tags", "Course Tags"},
		College:    []string{"主開學院名稱_中文", "College"},
		Department: []string{"主開系所名稱_中文", "Department"},
		CourseCode: []string{"主開課程碼", "Course Code"},
		CourseName: []string{"主開科目名稱", "Course Name"},
		Credits:    []string{"學分數", "Credits"},
		Elective:   []string{"必選修", "Elective"},
		Instructor: []string{"授課教師", "Instructor"},
	}
}

// LoadColumnMap reads a YAML column map. Fields left out of the file keep
// their default aliases.
func LoadColumnMap(path string) (ColumnMap, error) {
	cm := DefaultColumnMap()
	if path == "" {
		return cm, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cm, fmt.Errorf("failed to read column map: %w", err)
	}

	var override ColumnMap
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return cm, fmt.Errorf("failed to parse column map %s: %w", path, err)
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&cm.Tags, override.Tags)
	merge(&cm.College, override.College)
	merge(&cm.Department, override.Department)
	merge(&cm.CourseCode, override.CourseCode)
	merge(&cm.CourseName, override.CourseName)
	merge(&cm.Credits, override.Credits)
	merge(&cm.Elective, override.Elective)
	merge(&cm.Instructor, override.Instructor)
	return cm, nil
}

// binding holds the resolved header for each field; optional fields may be "".
type binding struct {
	tags, college, department, courseCode, courseName string
	credits, elective, instructor                     string
}

// MissingColumnsError names the required fields a file lacks.
type MissingColumnsError struct {
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Fields, ", "))
}

// bind resolves every field against the file's headers and fails when a
// required field has no matching header.
func (cm ColumnMap) bind(headers []string) (binding, error) {
	var b binding
	var missing []string

	required := func(field string, aliases []string) string {
		h := findHeader(headers, aliases)
		if h == "" {
			missing = append(missing, field)
		}
		return h
	}

	b.tags = required("tags", cm.Tags)
	b.college = required("college", cm.College)
	b.department = required("department", cm.Department)
	b.courseCode = required("course_code", cm.CourseCode)
	b.courseName = required("course_name", cm.CourseName)
	b.credits = findHeader(headers, cm.Credits)
	b.elective = findHeader(headers, cm.Elective)
	b.instructor = findHeader(headers, cm.Instructor)

	if len(missing) > 0 {
		return b, &MissingColumnsError{Fields: missing}
	}
	return b, nil
}

func findHeader(headers, aliases []string) string {
	for _, alias := range aliases {
		for _, h := range headers {
			if h == alias || strings.EqualFold(h, alias) {
				return h
			}
		}
	}
	return ""
}

// ToRecords converts a parsed sheet into typed course records. Year and
// term are left blank for the caller to stamp.
func (cm ColumnMap) ToRecords(data *ExcelData) ([]catalog.CourseRecord, error) {
	b, err := cm.bind(data.Headers)
	if err != nil {
		return nil, err
	}

	get := func(row RawRowData, header string) string {
		if header == "" {
			return ""
		}
		return row[header]
	}

	records := make([]catalog.CourseRecord, 0, len(data.Rows))
	for _, row := range data.Rows {
		records = append(records, catalog.CourseRecord{
			College:    get(row, b.college),
			Department: get(row, b.department),
			CourseCode: get(row, b.courseCode),
			CourseName: get(row, b.courseName),
			Tags:       catalog.SplitTags(get(row, b.tags)),
			Credits:    get(row, b.credits),
			Elective:   get(row, b.elective),
			Instructor: get(row, b.instructor),
		})
	}
	return records, nil
}
