package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coursedash/domain/catalog"
	"coursedash/internal"
	"coursedash/ports"
)

// DirectorySource reads semester files from one local directory.
type DirectorySource struct {
	config ExcelConfig
	logger *internal.Logger
}

var _ ports.CatalogSource = (*DirectorySource)(nil)

// NewDirectorySource creates a source over config.Dir.
func NewDirectorySource(config ExcelConfig, logger *internal.Logger) *DirectorySource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DirectorySource{config: config, logger: logger}
}

// Dir returns the directory being read.
func (s *DirectorySource) Dir() string {
	return s.config.Dir
}

// List returns the readable spreadsheet files in the directory, sorted by
// name. Hidden files and Office lock files are ignored.
func (s *DirectorySource) List(ctx context.Context) ([]ports.SourceFile, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.config.Dir, err)
	}

	files := make([]ports.SourceFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if !SupportedExtension(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, ports.SourceFile{
			Path:    filepath.Join(s.config.Dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Read parses one file into course records.
func (s *DirectorySource) Read(ctx context.Context, file ports.SourceFile) ([]catalog.CourseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := NewDataReader(file.Path, s.config.SheetName).WithLogger(s.logger).ReadData()
	if err != nil {
		return nil, err
	}

	records, err := s.config.Columns.ToRecords(data)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].SourceFile = file.Name
	}
	return records, nil
}
