package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecordsDefaultHeaders(t *testing.T) {
	data := &ExcelData{
		Headers: []string{"課程標籤", "主開學院名稱_中文", "主開系所名稱_中文", "主開課程碼", "主開科目名稱", "授課教師"},
		Rows: []RawRowData{
			{"課程標籤": "AI\n SDGs \n", "主開學院名稱_中文": "工學院", "主開系所名稱_中文": "資訊工程學系",
				"主開課程碼": "CS101", "主開科目名稱": "程式設計", "授課教師": "王小明"},
			{"主開課程碼": "CS102"},
		},
	}

	records, err := DefaultColumnMap().ToRecords(data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"AI", "SDGs"}, records[0].Tags)
	assert.Equal(t, "工學院", records[0].College)
	assert.Equal(t, "資訊工程學系", records[0].Department)
	assert.Equal(t, "CS101", records[0].CourseCode)
	assert.Equal(t, "程式設計", records[0].CourseName)
	assert.Equal(t, "王小明", records[0].Instructor)
	assert.Equal(t, "", records[0].Credits, "absent optional column stays blank")

	assert.Equal(t, []string{}, records[1].Tags)
	assert.Equal(t, "", records[1].College)
}

func TestToRecordsEnglishAliasesCaseInsensitive(t *testing.T) {
	data := &ExcelData{
		Headers: []string{"TAGS", "college", "Department", "Course Code", "course name", "Credits"},
		Rows:    []RawRowData{{"TAGS": "Core", "college": "Engineering", "Course Code": "E1", "course name": "Statics", "Credits": "3"}},
	}

	records, err := DefaultColumnMap().ToRecords(data)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", records[0].College)
	assert.Equal(t, "Statics", records[0].CourseName)
	assert.Equal(t, "3", records[0].Credits)
}

func TestToRecordsMissingRequiredColumns(t *testing.T) {
	data := &ExcelData{Headers: []string{"主開課程碼", "主開科目名稱", "主開學院名稱_中文"}}

	_, err := DefaultColumnMap().ToRecords(data)
	require.Error(t, err)

	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"tags", "department"}, missing.Fields)
}

func TestLoadColumnMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
course_code: ["Code", "課號"]
tags: ["Labels"]
`), 0o644))

	cm, err := LoadColumnMap(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Code", "課號"}, cm.CourseCode)
	assert.Equal(t, []string{"Labels"}, cm.Tags)
	assert.Equal(t, DefaultColumnMap().College, cm.College, "unspecified fields keep defaults")
}

func TestLoadColumnMapErrors(t *testing.T) {
	cm, err := LoadColumnMap("")
	require.NoError(t, err)
	assert.Equal(t, DefaultColumnMap(), cm)

	_, err = LoadColumnMap(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tags: [unclosed"), 0o644))
	_, err = LoadColumnMap(bad)
	assert.Error(t, err)
}
