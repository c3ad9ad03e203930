package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeFirstWins(t *testing.T) {
	records := []CourseRecord{
		rec("114", "1", "Engineering", "CS", "CS101", "Programming I"),
		rec("114", "1", "Engineering", "EE", "CS101", "Programming I (cross-listed)"),
		rec("114", "2", "Engineering", "CS", "CS101", "Programming I"),
		rec("113", "1", "Engineering", "CS", "CS101", "Programming I"),
		rec("114", "1", "Business", "Accounting", "AC100", "Accounting"),
		rec("114", "1", "Business", "Accounting", "AC100", "Accounting"),
	}

	got := Dedupe(records)

	require.Len(t, got, 4)
	assert.Equal(t, "CS", got[0].Department, "first occurrence must win")
	assert.Equal(t, []string{"114/1/CS101", "114/2/CS101", "113/1/CS101", "114/1/AC100"}, codes(got))

	seen := map[NaturalKey]bool{}
	for _, r := range got {
		assert.False(t, seen[r.Key()], "duplicate key %v", r.Key())
		seen[r.Key()] = true
	}
	assert.Equal(t, 4, Total(got))
}

func TestDedupeEmpty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}

func TestCountByYearTerm(t *testing.T) {
	records := Dedupe(sampleRecords())

	rows, err := CountBy(records, DimYear, DimTerm)
	require.NoError(t, err)

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = fmt.Sprintf("%s=%d", r.Label, r.Count)
	}
	assert.Equal(t, []string{"113-1=1", "113-2=1", "114-1=2", "114-2=2"}, labels)
	assert.Equal(t, []string{"114", "1"}, rows[2].Keys)
}

func TestCountBySumEqualsInput(t *testing.T) {
	records := Dedupe(sampleRecords())

	for _, dims := range [][]Dimension{
		{DimYear}, {DimTerm}, {DimCollege}, {DimDepartment}, {DimYear, DimTerm}, {DimCollege, DimDepartment},
	} {
		rows, err := CountBy(records, dims...)
		require.NoError(t, err)
		assert.Equal(t, len(records), SumCounts(rows), "dims=%v", dims)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.Count, 1)
		}
	}
}

func TestCountByBlankKeyGroup(t *testing.T) {
	rows, err := CountBy(Dedupe(sampleRecords()), DimCollege)
	require.NoError(t, err)

	assert.Equal(t, UnassignedLabel, rows[0].Label)
	assert.Equal(t, []string{""}, rows[0].Keys)
	assert.Equal(t, 1, rows[0].Count)
}

func TestCountByRejectsBadDimensions(t *testing.T) {
	_, err := CountBy(nil)
	assert.Error(t, err)

	_, err = CountBy(nil, DimYear, DimTerm, DimCollege)
	assert.Error(t, err)

	_, err = CountBy(nil, Dimension("instructor"))
	assert.Error(t, err)
}

func TestTopN(t *testing.T) {
	var records []CourseRecord
	for d := 1; d <= 20; d++ {
		for i := 0; i < d; i++ {
			records = append(records, rec("114", "1", "", fmt.Sprintf("D%02d", d), fmt.Sprintf("D%02d-%d", d, i), "x"))
		}
	}

	rows, err := CountBy(records, DimDepartment)
	require.NoError(t, err)
	top := TopN(rows, 15)

	require.Len(t, top, 15)
	assert.Equal(t, "D20", top[0].Label)
	assert.Equal(t, "D06", top[14].Label)
	for i := 1; i < len(top); i++ {
		assert.Greater(t, top[i-1].Count, top[i].Count)
	}
}

func TestTopNTiesKeepKeyOrder(t *testing.T) {
	rows := []AggregateRow{
		{Keys: []string{"A"}, Label: "A", Count: 2},
		{Keys: []string{"B"}, Label: "B", Count: 3},
		{Keys: []string{"C"}, Label: "C", Count: 2},
		{Keys: []string{"D"}, Label: "D", Count: 2},
	}

	top := TopN(rows, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{top[0].Label, top[1].Label, top[2].Label})
	assert.Equal(t, "A", rows[0].Label, "input must not be reordered")

	assert.Len(t, TopN(rows, 10), 4)
	assert.Empty(t, TopN(rows, 0))
}

func TestSummarize(t *testing.T) {
	rows := []AggregateRow{{Count: 10}, {Count: 20}, {Count: 40}}
	s := Summarize(rows)

	assert.Equal(t, 3, s.Groups)
	assert.InDelta(t, 23.33, s.Mean, 0.001)
	assert.Equal(t, 20.0, s.Median)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 40.0, s.Max)

	assert.Equal(t, Summary{}, Summarize(nil))
}
