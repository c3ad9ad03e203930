package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"coursedash/app"
	"coursedash/domain/catalog"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageData is the view model of dashboard.html
type pageData struct {
	*app.Dashboard
	Notices     []Notice
	TrendMax    int
	CollegeMax  int
	DeptMax     int
	SelectedSet map[string]map[string]bool
}

func newPageData(d *app.Dashboard) pageData {
	selected := map[string]map[string]bool{
		"year":       toBoolSet(d.Criteria.Years),
		"term":       toBoolSet(d.Criteria.Terms),
		"college":    toBoolSet(d.Criteria.Colleges),
		"department": toBoolSet(d.Criteria.Departments),
		"tag":        toBoolSet(d.Criteria.Tags),
	}
	return pageData{
		Dashboard:   d,
		Notices:     notices(d),
		TrendMax:    maxCount(d.Trend),
		CollegeMax:  maxCount(d.Colleges),
		DeptMax:     maxCount(d.Departments),
		SelectedSet: selected,
	}
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
		"pct": func(count, max int) int {
			if max == 0 {
				return 0
			}
			return count * 100 / max
		},
		"selected": func(set map[string]bool, v string) bool {
			return set[v]
		},
		"termName": func(term string) string {
			switch term {
			case "1":
				return "Fall"
			case "2":
				return "Spring"
			default:
				return term
			}
		},
		"orDash": func(s string) string {
			if s == "" {
				return "—"
			}
			return s
		},
	}

	t, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// Template helpers
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(c.Writer, templateName, data); err != nil {
		s.logger.Error("template %s failed: %v", templateName, err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func maxCount(rows []catalog.AggregateRow) int {
	max := 0
	for _, r := range rows {
		if r.Count > max {
			max = r.Count
		}
	}
	return max
}

func toBoolSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
