package ingest

import (
	"context"

	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

// DirStats summarizes a directory batch.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Empty     uint32 // succeeded with every field null
	Failed    uint32
}

// Processor is the extraction entry point the ingestor feeds.
type Processor interface {
	Process(ctx context.Context, name string, data []byte) processor.Result
}

// Ingestor is the behavior the batch commands depend on.
type Ingestor interface {
	// IngestPath processes a single file.
	IngestPath(ctx context.Context, path string) (processor.Result, error)
	// IngestDirectory processes all supported files under root, each on its own.
	IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]processor.Result, DirStats, error)
}
