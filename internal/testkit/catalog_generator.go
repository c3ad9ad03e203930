package testkit

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"coursedash/domain/catalog"
)

// CatalogGeneratorConfig configures the synthetic catalog generator
type CatalogGeneratorConfig struct {
	Years              []string `json:"years"`
	CoursesPerTerm     int      `json:"courses_per_term"`
	CrossListRate      float64  `json:"cross_list_rate"`
	MissingCollegeRate float64  `json:"missing_college_rate"`
	Seed               int64    `json:"seed"`
}

// DefaultCatalogConfig returns sensible defaults for catalog generation
func DefaultCatalogConfig() CatalogGeneratorConfig {
	return CatalogGeneratorConfig{
		Years:              []string{"112", "113", "114"},
		CoursesPerTerm:     60,
		CrossListRate:      0.15,
		MissingCollegeRate: 0.05,
		Seed:               42,
	}
}

var generatorColleges = map[string][]string{
	"工學院":    {"資訊工程學系", "電機工程學系", "機械工程學系"},
	"管理學院":   {"企業管理學系", "會計學系"},
	"文學院":    {"中國文學系", "歷史學系", "外國語文學系"},
	"理學院":    {"數學系", "物理學系"},
	"通識教育中心": {"通識教育中心"},
}

var generatorTags = []string{"AI", "SDGs", "英語授課", "跨領域", "程式設計", "永續", "實作"}

var generatorNames = []string{"程式設計", "Programming", "資料結構", "微積分", "會計學", "歷史導論", "Machine Learning", "永續發展", "英文寫作", "電路學"}

// CatalogGenerator generates deterministic course catalogs for tests
type CatalogGenerator struct {
	config CatalogGeneratorConfig
	rng    *rand.Rand
}

// NewCatalogGenerator creates a new catalog generator
func NewCatalogGenerator(config CatalogGeneratorConfig) *CatalogGenerator {
	return &CatalogGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces records for every configured year and both terms, in
// year then term order. Cross-listed courses repeat a course code within
// the same semester under a different department.
func (g *CatalogGenerator) Generate() []catalog.CourseRecord {
	colleges := make([]string, 0, len(generatorColleges))
	for c := range generatorColleges {
		colleges = append(colleges, c)
	}
	sort.Strings(colleges)

	var records []catalog.CourseRecord
	for _, year := range g.config.Years {
		for _, term := range catalog.Terms {
			for i := 0; i < g.config.CoursesPerTerm; i++ {
				college := colleges[g.rng.Intn(len(colleges))]
				depts := generatorColleges[college]
				r := catalog.CourseRecord{
					Year:       year,
					Term:       term,
					College:    college,
					Department: depts[g.rng.Intn(len(depts))],
					CourseCode: fmt.Sprintf("C%s%s%03d", year, term, i),
					CourseName: fmt.Sprintf("%s %d", generatorNames[g.rng.Intn(len(generatorNames))], i),
					Tags:       catalog.SplitTags(g.randomTags()),
					Credits:    fmt.Sprintf("%d", 1+g.rng.Intn(3)),
				}
				if g.rng.Float64() < g.config.MissingCollegeRate {
					r.College = ""
				}
				records = append(records, r)

				if g.rng.Float64() < g.config.CrossListRate {
					dup := r
					dup.Department = depts[g.rng.Intn(len(depts))] + "(合開)"
					records = append(records, dup)
				}
			}
		}
	}
	return records
}

// Courses renders generated records for one semester as fixture rows.
func Courses(records []catalog.CourseRecord, year, term string) []Course {
	var out []Course
	for _, r := range records {
		if r.Year != year || r.Term != term {
			continue
		}
		out = append(out, Course{
			Tags:       catalog.JoinTags(r.Tags),
			College:    r.College,
			Department: r.Department,
			Code:       r.CourseCode,
			Name:       r.CourseName,
			Credits:    r.Credits,
		})
	}
	return out
}

func (g *CatalogGenerator) randomTags() string {
	n := g.rng.Intn(3)
	parts := make([]string, 0, n+1)
	for i := 0; i < n; i++ {
		parts = append(parts, generatorTags[g.rng.Intn(len(generatorTags))])
	}
	if g.rng.Intn(4) == 0 {
		parts = append(parts, " ")
	}
	return strings.Join(parts, "\n")
}
