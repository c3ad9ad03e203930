package app

import (
	"context"
	"regexp"
	"time"

	"coursedash/domain/catalog"
	"coursedash/domain/core"
	"coursedash/internal"
	"coursedash/internal/errors"
	"coursedash/ports"

	"golang.org/x/sync/errgroup"
)

// NoDataMessage is shown when no semester file could be ingested.
const NoDataMessage = "No course data found. Place semester spreadsheets named like `114-1.xlsx` (academic year, dash, term) in the data directory."

var semesterPattern = regexp.MustCompile(`(\d{3})-(\d)`)

// ParseSemester extracts the academic year and term from a file name such
// as "114-1.xlsx". The first match anywhere in the name is used.
func ParseSemester(name string) (year, term string, ok bool) {
	m := semesterPattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// LoadStatus summarizes how a catalog load went
type LoadStatus string

const (
	StatusLoaded  LoadStatus = "loaded"  // every qualifying file was ingested
	StatusPartial LoadStatus = "partial" // some files failed, the rest were ingested
	StatusNoData  LoadStatus = "no_data" // nothing qualified or nothing parsed
)

// Warning is a non-fatal problem surfaced to the user
type Warning struct {
	File    string `json:"file,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoadResult is the outcome of one full catalog load. Catalog is nil when
// Status is StatusNoData.
type LoadResult struct {
	Status      LoadStatus       `json:"status"`
	Catalog     *catalog.Catalog `json:"catalog,omitempty"`
	Warnings    []Warning        `json:"warnings"`
	Message     string           `json:"message,omitempty"`
	Fingerprint string           `json:"fingerprint"`
}

// HasData reports whether the result carries a catalog.
func (r *LoadResult) HasData() bool {
	return r != nil && r.Catalog != nil
}

type semesterFile struct {
	file ports.SourceFile
	year string
	term string
}

// CatalogLoader discovers semester files and merges them into one catalog
type CatalogLoader struct {
	source      ports.CatalogSource
	concurrency int
	logger      *internal.Logger
}

// NewCatalogLoader creates a loader reading up to concurrency files at once
func NewCatalogLoader(source ports.CatalogSource, concurrency int, logger *internal.Logger) *CatalogLoader {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CatalogLoader{
		source:      source,
		concurrency: concurrency,
		logger:      logger.Named("CatalogLoader"),
	}
}

// Source returns the loader's file source.
func (l *CatalogLoader) Source() ports.CatalogSource {
	return l.source
}

// Load enumerates the source and ingests every qualifying file. Only a
// failure to enumerate (or cancellation) is returned as an error; per-file
// problems become warnings.
func (l *CatalogLoader) Load(ctx context.Context) (*LoadResult, error) {
	files, err := l.source.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to enumerate semester files")
	}
	return l.LoadFiles(ctx, files)
}

// Fingerprint identifies the qualifying subset of files.
func (l *CatalogLoader) Fingerprint(files []ports.SourceFile) string {
	return fingerprint(qualify(files))
}

// LoadFiles ingests the qualifying subset of files, concatenating records
// in file order.
func (l *CatalogLoader) LoadFiles(ctx context.Context, files []ports.SourceFile) (*LoadResult, error) {
	start := time.Now()
	semesters := qualify(files)
	result := &LoadResult{Warnings: []Warning{}, Fingerprint: fingerprint(semesters)}

	if len(semesters) == 0 {
		l.logger.Warn("no files matching the year-term naming convention (%d candidates)", len(files))
		result.Status = StatusNoData
		result.Message = NoDataMessage
		return result, nil
	}

	type fileResult struct {
		records []catalog.CourseRecord
		err     error
	}
	results := make([]fileResult, len(semesters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, sf := range semesters {
		i, sf := i, sf
		g.Go(func() error {
			records, err := l.source.Read(gctx, sf.file)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = fileResult{records: records, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "catalog load interrupted")
	}

	var records []catalog.CourseRecord
	reports := make([]catalog.FileReport, 0, len(semesters))
	for i, sf := range semesters {
		report := catalog.FileReport{Name: sf.file.Name, Year: sf.year, Term: sf.term}
		res := results[i]
		if res.err != nil {
			appErr := errors.IngestionFailed(sf.file.Name, res.err)
			report.Error = res.err.Error()
			result.Warnings = append(result.Warnings, Warning{
				File:    sf.file.Name,
				Code:    appErr.Code,
				Message: appErr.Error(),
			})
			l.logger.Warn("skipping %s: %v", sf.file.Name, res.err)
			reports = append(reports, report)
			continue
		}

		for _, r := range res.records {
			r.Year = sf.year
			r.Term = sf.term
			records = append(records, r)
		}
		report.Rows = len(res.records)
		reports = append(reports, report)
		l.logger.Debug("ingested %s as %s-%s (%d rows)", sf.file.Name, sf.year, sf.term, len(res.records))
	}

	if len(result.Warnings) == len(semesters) {
		l.logger.Warn("all %d semester files failed to parse", len(semesters))
		result.Status = StatusNoData
		result.Message = NoDataMessage
		return result, nil
	}

	cat := catalog.NewCatalog(records)
	cat.Files = reports
	cat.Version = core.NewID().String()
	cat.Fingerprint = result.Fingerprint
	cat.LoadedAt = time.Now()

	result.Catalog = cat
	result.Status = StatusLoaded
	if len(result.Warnings) > 0 {
		result.Status = StatusPartial
	}

	l.logger.Info("catalog loaded: %d records from %d/%d files in %s (version %s)",
		len(records), len(semesters)-len(result.Warnings), len(semesters), time.Since(start).Round(time.Millisecond), cat.Version)
	return result, nil
}

func qualify(files []ports.SourceFile) []semesterFile {
	out := make([]semesterFile, 0, len(files))
	for _, f := range files {
		year, term, ok := ParseSemester(f.Name)
		if !ok {
			continue
		}
		out = append(out, semesterFile{file: f, year: year, term: term})
	}
	return out
}

func fingerprint(semesters []semesterFile) string {
	stamps := make([]core.FileStamp, len(semesters))
	for i, sf := range semesters {
		stamps[i] = core.FileStamp{Name: sf.file.Name, Size: sf.file.Size, ModTime: sf.file.ModTime}
	}
	return core.ComputeFileSetHash(stamps).String()
}
