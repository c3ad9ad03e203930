package app

import (
	"context"
	"testing"

	"coursedash/domain/catalog"
	"coursedash/internal"
	"coursedash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func course(code, college, dept, name string, tags ...string) catalog.CourseRecord {
	if tags == nil {
		tags = []string{}
	}
	return catalog.CourseRecord{CourseCode: code, College: college, Department: dept, CourseName: name, Tags: tags}
}

func newDashboardFixture(t *testing.T) *DashboardService {
	t.Helper()
	src := newFakeSource()
	src.put("113-1.xlsx", t0,
		course("A1", "工學院", "資訊工程學系", "程式設計", "AI"),
		course("A2", "管理學院", "會計學系", "會計學"),
	)
	src.put("114-1.xlsx", t0,
		course("B1", "工學院", "資訊工程學系", "Machine Learning", "AI", "英語授課"),
		course("B1", "工學院", "電機工程學系", "Machine Learning", "AI"),
		course("B2", "工學院", "電機工程學系", "電路學"),
		course("B3", "", "通識教育中心", "永續發展", "SDGs"),
	)
	src.put("114-2.xlsx", t0,
		course("C1", "理學院", "數學系", "微積分"),
	)
	logger := internal.NewNopLogger()
	return NewDashboardService(NewCatalogStore(NewCatalogLoader(src, 2, logger), logger), 2, logger)
}

func TestQueryDefaults(t *testing.T) {
	svc := newDashboardFixture(t)

	d, err := svc.Query(context.Background(), catalog.Criteria{}, QueryOptions{DefaultYears: true, DefaultTerms: true})
	require.NoError(t, err)

	assert.Equal(t, StatusLoaded, d.Status)
	assert.Equal(t, []string{"114"}, d.Criteria.Years)
	assert.Equal(t, []string{"1", "2"}, d.Criteria.Terms)
	assert.Equal(t, 4, d.Total, "cross-listed B1 counts once")
	assert.Len(t, d.Courses, 4)
	assert.Equal(t, "資訊工程學系", d.Courses[0].Department, "first occurrence wins")

	require.Len(t, d.Trend, 2)
	assert.Equal(t, "114-1", d.Trend[0].Label)
	assert.Equal(t, 3, d.Trend[0].Count)
	assert.Equal(t, "114-2", d.Trend[1].Label)
	assert.Equal(t, 2.0, d.TrendSummary.Mean)

	assert.Equal(t, d.Total, catalog.SumCounts(d.Colleges))
	assert.Equal(t, "工學院", d.Colleges[0].Label)
	assert.Equal(t, 2, d.Colleges[0].Count)

	assert.Len(t, d.Departments, 2, "top N from the service default")
	assert.Equal(t, []string{"113", "114"}, d.Lookups.Years)
	assert.NotEmpty(t, d.Version)
}

func TestQueryExplicitCriteria(t *testing.T) {
	svc := newDashboardFixture(t)

	d, err := svc.Query(context.Background(), catalog.Criteria{
		Years:    []string{"113", "114"},
		Terms:    []string{"1"},
		Colleges: []string{"工學院"},
		Tags:     []string{"AI"},
	}, QueryOptions{TopN: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, d.Total)
	codes := []string{d.Courses[0].CourseCode, d.Courses[1].CourseCode}
	assert.Equal(t, []string{"A1", "B1"}, codes)
	assert.Equal(t, []string{"資訊工程學系", "電機工程學系"}, d.DepartmentOptions)
}

func TestQueryEmptyYearsMatchesNothing(t *testing.T) {
	svc := newDashboardFixture(t)

	d, err := svc.Query(context.Background(), catalog.Criteria{Years: []string{}}, QueryOptions{DefaultTerms: true})
	require.NoError(t, err)

	assert.Equal(t, 0, d.Total)
	assert.Empty(t, d.Trend)
	assert.Empty(t, d.Courses)
	assert.Equal(t, catalog.Summary{}, d.TrendSummary)
}

func TestQueryKeyword(t *testing.T) {
	svc := newDashboardFixture(t)

	d, err := svc.Query(context.Background(), catalog.Criteria{Keyword: "machine"}, QueryOptions{DefaultYears: true, DefaultTerms: true})
	require.NoError(t, err)
	require.Len(t, d.Courses, 1)
	assert.Equal(t, []string{"AI", "英語授課"}, d.Courses[0].Tags)
}

func TestQueryNoData(t *testing.T) {
	logger := internal.NewNopLogger()
	svc := NewDashboardService(NewCatalogStore(NewCatalogLoader(newFakeSource(), 1, logger), logger), 0, logger)

	d, err := svc.Query(context.Background(), catalog.Criteria{}, QueryOptions{DefaultYears: true, DefaultTerms: true})
	require.NoError(t, err)

	assert.Equal(t, StatusNoData, d.Status)
	assert.Equal(t, NoDataMessage, d.Message)
	assert.Equal(t, 0, d.Total)
	assert.NotNil(t, d.Courses)
	assert.Empty(t, d.Lookups.Years)
}

func TestDepartmentOptions(t *testing.T) {
	svc := newDashboardFixture(t)

	all, err := svc.DepartmentOptions(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	science, err := svc.DepartmentOptions(context.Background(), []string{"理學院"})
	require.NoError(t, err)
	assert.Equal(t, []string{"數學系"}, science)

	_, err = svc.DepartmentOptions(context.Background(), []string{"理學院", "醫學院"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.Contains(t, err.Error(), "醫學院")
}
