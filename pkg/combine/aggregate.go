// File: pkg/combine/aggregate.go
package combine

import (
	"bytes"
	"os"

	"go.uber.org/zap"
)

// Result is the outcome of one aggregation pass.
type Result struct {
	Buffer   []byte    // Aggregated output.
	Files    []string  // Files whose contents made it into Buffer, in order.
	Warnings []Warning // Files that were skipped.
}

// Aggregator concatenates file contents, each optionally preceded by a header.
type Aggregator struct {
	formatter PathFormatter
	logger    *zap.Logger
	readFile  func(name string) ([]byte, error)
}

// NewAggregator creates an Aggregator rendering headers with formatter.
func NewAggregator(formatter PathFormatter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		formatter: formatter,
		logger:    logger,
		readFile:  os.ReadFile,
	}
}

// Aggregate reads files in order and merges them into one buffer.
// An unreadable file is skipped and reported in Result.Warnings; it never aborts the pass.
func (a *Aggregator) Aggregate(files []string) Result {
	var result Result
	var buf bytes.Buffer

	for _, path := range files {
		content, err := a.readFile(path)
		if err != nil {
			readErr := &ReadError{Path: path, Reason: ClassifyError(err), Cause: err}
			a.logger.Warn("Skipping unreadable file",
				zap.String("filePath", path),
				zap.String("reason", string(readErr.Reason)),
				zap.Error(err))
			result.Warnings = append(result.Warnings, warningFrom(readErr))
			continue
		}

		if header, ok := a.formatter.Header(path); ok {
			if len(result.Files) > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(header)
		}
		buf.Write(content)
		if len(content) == 0 || content[len(content)-1] != '\n' {
			buf.WriteByte('\n')
		}

		result.Files = append(result.Files, path)
		a.logger.Debug("Appended file",
			zap.String("filePath", path),
			zap.Int("contentSizeBytes", len(content)))
	}

	result.Buffer = buf.Bytes()
	return result
}
