package ui

import (
	"net/http"
	"strconv"
	"strings"

	"coursedash/app"
	"coursedash/domain/catalog"
	"coursedash/internal/errors"

	"github.com/gin-gonic/gin"
)

// parseCriteria reads a filter selection from the query string. Multi-valued
// parameters are repeated. Colleges, departments and tags are free text and
// taken verbatim; years and terms also accept comma lists. An absent year or
// term selects the catalog default; a present but empty one selects nothing.
func parseCriteria(c *gin.Context) (catalog.Criteria, app.QueryOptions, error) {
	var opts app.QueryOptions
	criteria := catalog.Criteria{
		Colleges:    queryValues(c, "college"),
		Departments: queryValues(c, "department"),
		Tags:        queryValues(c, "tag"),
		Keyword:     strings.TrimSpace(c.Query("q")),
	}

	if _, ok := c.GetQueryArray("year"); ok {
		criteria.Years = queryCodes(c, "year")
	} else {
		opts.DefaultYears = true
	}
	if _, ok := c.GetQueryArray("term"); ok {
		criteria.Terms = queryCodes(c, "term")
	} else {
		opts.DefaultTerms = true
	}

	if raw := c.Query("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return criteria, opts, errors.InvalidInput("top must be a positive integer")
		}
		opts.TopN = n
	}
	return criteria, opts, nil
}

// queryValues returns the non-blank values of a repeated parameter. Values
// may contain commas.
func queryValues(c *gin.Context, key string) []string {
	out := []string{}
	for _, raw := range c.QueryArray(key) {
		if v := strings.TrimSpace(raw); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// queryCodes is queryValues for year and term codes, which never contain
// commas, so "113,114" is also accepted.
func queryCodes(c *gin.Context, key string) []string {
	out := []string{}
	for _, raw := range queryValues(c, key) {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// respondError maps an error to a status code and a JSON body. Unexpected
// failures get a generic message.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	switch code {
	case errors.CodeInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code})
	case errors.CodeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": code})
	default:
		s.logger.Error("request %s failed: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": errors.CodeInternalError})
	}
}

// handleIndex serves the server-rendered dashboard
func (s *Server) handleIndex(c *gin.Context) {
	criteria, opts, err := parseCriteria(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	d, err := s.dashboard.Query(c.Request.Context(), criteria, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.renderTemplate(c, "dashboard.html", newPageData(d))
}

func (s *Server) handleHealth(c *gin.Context) {
	status := "empty"
	if cur := s.dashboard.Store().Current(); cur != nil {
		status = string(cur.Status)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "catalog": status})
}

// handleCatalog returns load status, lookups and per-file reports
func (s *Server) handleCatalog(c *gin.Context) {
	result, err := s.dashboard.Store().Get(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleRefresh reloads the catalog if files changed, or unconditionally with force=true
func (s *Server) handleRefresh(c *gin.Context) {
	store := s.dashboard.Store()
	ctx := c.Request.Context()

	force, _ := strconv.ParseBool(c.Query("force"))
	reloaded := true
	if force {
		store.Invalidate()
		if _, err := store.Get(ctx); err != nil {
			s.respondError(c, err)
			return
		}
	} else {
		var err error
		if reloaded, err = store.Refresh(ctx); err != nil {
			s.respondError(c, err)
			return
		}
	}

	resp := gin.H{"reloaded": reloaded}
	if cur := store.Current(); cur != nil {
		resp["status"] = cur.Status
		resp["fingerprint"] = cur.Fingerprint
		if cur.HasData() {
			resp["version"] = cur.Catalog.Version
		}
	}
	c.JSON(http.StatusOK, resp)
}

// handleDepartments lists departments selectable under the given colleges
func (s *Server) handleDepartments(c *gin.Context) {
	departments, err := s.dashboard.DepartmentOptions(c.Request.Context(), queryValues(c, "college"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": departments})
}

// handleDashboard returns the full aggregate view for a selection
func (s *Server) handleDashboard(c *gin.Context) {
	criteria, opts, err := parseCriteria(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	d, err := s.dashboard.Query(c.Request.Context(), criteria, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// handleCourses returns only the deduplicated course table
func (s *Server) handleCourses(c *gin.Context) {
	criteria, opts, err := parseCriteria(c)
	if err != nil {
		s.respondError(c, err)
		return
	}
	d, err := s.dashboard.Query(c.Request.Context(), criteria, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   d.Status,
		"criteria": d.Criteria,
		"total":    d.Total,
		"courses":  d.Courses,
	})
}
