package app

import (
	"context"
	"fmt"
	"time"

	"coursedash/domain/catalog"
	"coursedash/internal"
	"coursedash/internal/errors"
)

// DefaultTopDepartments is the department ranking size when none is configured.
const DefaultTopDepartments = 15

// QueryOptions tunes one dashboard query
type QueryOptions struct {
	// TopN caps the department ranking; zero uses the service default.
	TopN int
	// DefaultYears and DefaultTerms replace the criteria's years or terms
	// with the catalog defaults (latest year, both terms).
	DefaultYears bool
	DefaultTerms bool
}

// DisplayRow is one row of the course table.
type DisplayRow struct {
	Year       string   `json:"year"`
	Term       string   `json:"term"`
	College    string   `json:"college"`
	Department string   `json:"department"`
	CourseCode string   `json:"course_code"`
	CourseName string   `json:"course_name"`
	Tags       []string `json:"tags"`
}

// Dashboard is everything one view renders for one selection
type Dashboard struct {
	Status            LoadStatus             `json:"status"`
	Message           string                 `json:"message,omitempty"`
	Version           string                 `json:"version,omitempty"`
	LoadedAt          time.Time              `json:"loaded_at,omitempty"`
	Warnings          []Warning              `json:"warnings"`
	Lookups           catalog.Lookups        `json:"lookups"`
	DepartmentOptions []string               `json:"department_options"`
	Criteria          catalog.Criteria       `json:"criteria"`
	Total             int                    `json:"total"`
	Trend             []catalog.AggregateRow `json:"trend"`
	TrendSummary      catalog.Summary        `json:"trend_summary"`
	Colleges          []catalog.AggregateRow `json:"colleges"`
	Departments       []catalog.AggregateRow `json:"departments"`
	Courses           []DisplayRow           `json:"courses"`
}

// DashboardService answers dashboard queries against the current catalog
type DashboardService struct {
	store  *CatalogStore
	topN   int
	logger *internal.Logger
}

// NewDashboardService creates a dashboard service. A topN below one falls
// back to DefaultTopDepartments.
func NewDashboardService(store *CatalogStore, topN int, logger *internal.Logger) *DashboardService {
	if topN < 1 {
		topN = DefaultTopDepartments
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		store:  store,
		topN:   topN,
		logger: logger.Named("DashboardService"),
	}
}

// Store returns the backing catalog store.
func (s *DashboardService) Store() *CatalogStore {
	return s.store
}

// Query filters the catalog by criteria and computes every aggregate the
// dashboard shows. A catalog without data yields an empty dashboard with
// status no_data rather than an error.
func (s *DashboardService) Query(ctx context.Context, criteria catalog.Criteria, opts QueryOptions) (*Dashboard, error) {
	result, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	topN := opts.TopN
	if topN < 1 {
		topN = s.topN
	}

	d := &Dashboard{
		Status:            result.Status,
		Message:           result.Message,
		Warnings:          result.Warnings,
		Lookups:           emptyLookups(),
		DepartmentOptions: []string{},
		Criteria:          criteria,
		Trend:             []catalog.AggregateRow{},
		Colleges:          []catalog.AggregateRow{},
		Departments:       []catalog.AggregateRow{},
		Courses:           []DisplayRow{},
	}
	if !result.HasData() {
		return d, nil
	}

	cat := result.Catalog
	defaults := catalog.DefaultCriteria(cat.Lookups)
	if opts.DefaultYears {
		criteria.Years = defaults.Years
	}
	if opts.DefaultTerms {
		criteria.Terms = defaults.Terms
	}

	d.Version = cat.Version
	d.LoadedAt = cat.LoadedAt
	d.Lookups = cat.Lookups
	d.Criteria = criteria
	d.DepartmentOptions = catalog.DepartmentOptions(cat.Records, criteria.Colleges)

	deduped := catalog.Dedupe(catalog.Filter(cat.Records, criteria))
	d.Total = catalog.Total(deduped)

	if d.Trend, err = catalog.CountBy(deduped, catalog.DimYear, catalog.DimTerm); err != nil {
		return nil, errors.Wrap(err, "trend aggregation failed")
	}
	d.TrendSummary = catalog.Summarize(d.Trend)

	colleges, err := catalog.CountBy(deduped, catalog.DimCollege)
	if err != nil {
		return nil, errors.Wrap(err, "college aggregation failed")
	}
	d.Colleges = catalog.SortByCount(colleges)

	departments, err := catalog.CountBy(deduped, catalog.DimDepartment)
	if err != nil {
		return nil, errors.Wrap(err, "department aggregation failed")
	}
	d.Departments = catalog.TopN(departments, topN)

	d.Courses = displayRows(deduped)

	s.logger.Debug("query matched %d courses (years=%v terms=%v colleges=%d departments=%d tags=%d keyword=%q)",
		d.Total, criteria.Years, criteria.Terms, len(criteria.Colleges), len(criteria.Departments), len(criteria.Tags), criteria.Keyword)
	return d, nil
}

// DepartmentOptions lists the departments selectable under colleges. A
// college absent from the loaded catalog is a NOT_FOUND error.
func (s *DashboardService) DepartmentOptions(ctx context.Context, colleges []string) ([]string, error) {
	result, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !result.HasData() {
		return []string{}, nil
	}

	known := make(map[string]struct{}, len(result.Catalog.Lookups.Colleges))
	for _, c := range result.Catalog.Lookups.Colleges {
		known[c] = struct{}{}
	}
	for _, c := range colleges {
		if _, ok := known[c]; !ok {
			return nil, errors.NotFound(fmt.Sprintf("college %q", c))
		}
	}
	return catalog.DepartmentOptions(result.Catalog.Records, colleges), nil
}

func displayRows(records []catalog.CourseRecord) []DisplayRow {
	rows := make([]DisplayRow, len(records))
	for i, r := range records {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		rows[i] = DisplayRow{
			Year:       r.Year,
			Term:       r.Term,
			College:    r.College,
			Department: r.Department,
			CourseCode: r.CourseCode,
			CourseName: r.CourseName,
			Tags:       tags,
		}
	}
	return rows
}

func emptyLookups() catalog.Lookups {
	return catalog.Lookups{
		Tags:        []string{},
		Colleges:    []string{},
		Departments: []string{},
		Years:       []string{},
		Terms:       append([]string(nil), catalog.Terms...),
	}
}
