package ports

import (
	"context"
	"time"

	"coursedash/domain/catalog"
)

// SourceFile describes one candidate semester file.
type SourceFile struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// CatalogSource enumerates and reads tabular semester files.
// Read returns records without year/term; the caller stamps those from the
// file name.
type CatalogSource interface {
	List(ctx context.Context) ([]SourceFile, error)
	Read(ctx context.Context, file SourceFile) ([]catalog.CourseRecord, error)
}
