package catalog

import "strings"

// Filter returns the records satisfying every criterion, in catalog order.
// The result is not deduplicated.
func Filter(records []CourseRecord, c Criteria) []CourseRecord {
	years := toSet(c.Years)
	terms := toSet(c.Terms)
	if len(years) == 0 || len(terms) == 0 {
		return []CourseRecord{}
	}

	var colleges, departments, tags map[string]struct{}
	if len(c.Colleges) > 0 {
		colleges = toSet(c.Colleges)
	}
	if len(c.Departments) > 0 {
		departments = toSet(c.Departments)
	}
	if len(c.Tags) > 0 {
		tags = toSet(c.Tags)
	}
	keyword := strings.ToLower(c.Keyword)

	out := make([]CourseRecord, 0)
	for _, r := range records {
		if _, ok := years[r.Year]; !ok {
			continue
		}
		if _, ok := terms[r.Term]; !ok {
			continue
		}
		if colleges != nil {
			if _, ok := colleges[r.College]; !ok {
				continue
			}
		}
		if departments != nil {
			if _, ok := departments[r.Department]; !ok {
				continue
			}
		}
		if tags != nil && !r.HasAnyTag(tags) {
			continue
		}
		if keyword != "" && !matchesKeyword(r.CourseName, keyword) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesKeyword expects an already lower-cased keyword.
func matchesKeyword(name, keyword string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), keyword)
}

// DepartmentOptions lists the departments selectable for the given college
// selection: all departments when colleges is empty, otherwise only those
// appearing under one of the selected colleges.
func DepartmentOptions(records []CourseRecord, colleges []string) []string {
	selected := toSet(colleges)
	departments := make(map[string]struct{})
	for _, r := range records {
		if r.Department == "" {
			continue
		}
		if len(selected) > 0 {
			if _, ok := selected[r.College]; !ok {
				continue
			}
		}
		departments[r.Department] = struct{}{}
	}
	return sortedKeys(departments)
}
