package combine

import (
	"time"

	"go.uber.org/zap"
)

// Combiner runs one resolve-and-aggregate pass over a Selection.
type Combiner struct {
	walker     *Walker
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewCombiner creates a Combiner. base is the directory relative headers are computed from.
func NewCombiner(config AggregationConfig, base string, logger *zap.Logger) *Combiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Combiner{
		walker:     NewWalker(config, logger),
		aggregator: NewAggregator(NewPathFormatter(config.Mode, base), logger),
		logger:     logger,
	}
}

// Resolve expands sel into the ordered, de-duplicated file list without reading anything.
func (c *Combiner) Resolve(sel *Selection) ([]string, []Warning) {
	return sel.Resolve(c.walker)
}

// Combine resolves sel and aggregates the files. Walk warnings come before read warnings.
func (c *Combiner) Combine(sel *Selection) Result {
	startTime := time.Now()
	c.logger.Info("Starting combination process", zap.Int("roots", sel.Len()))

	files, walkWarnings := c.Resolve(sel)
	c.logger.Info("Resolved selection", zap.Int("files", len(files)), zap.Int("warnings", len(walkWarnings)))

	result := c.aggregator.Aggregate(files)
	result.Warnings = append(walkWarnings, result.Warnings...)

	c.logger.Info("Successfully combined files",
		zap.Int("totalFiles", len(result.Files)),
		zap.Int("skipped", len(result.Warnings)),
		zap.Int("bytes", len(result.Buffer)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return result
}
