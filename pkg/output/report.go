package output

import (
	"errors"
	"fmt"
	"io"

	"cxt/pkg/combine"
)

// WriteStatus prints one status line per destination and the skipped paths to w.
func WriteStatus(w io.Writer, report Report, fileCount int, warnings []combine.Warning) {
	for _, o := range report.Outcomes {
		switch o.Status {
		case StatusDone:
			switch o.Destination.Kind {
			case DestStdout:
				fmt.Fprintf(w, "Printed content from %d files to stdout.\n", fileCount)
			case DestClipboard:
				fmt.Fprintf(w, "Copied content from %d files to clipboard.\n", fileCount)
			case DestFile:
				verb := "Wrote"
				if o.Appended {
					verb = "Appended"
				}
				fmt.Fprintf(w, "%s content from %d files to %s.\n", verb, fileCount, o.Destination.Path)
			}
		case StatusCancelled:
			fmt.Fprintln(w, "Operation cancelled.")
		case StatusFailed:
			var clipErr *ClipboardError
			if errors.As(o.Err, &clipErr) {
				fmt.Fprintf(w, "Warning: %v\n", clipErr)
			} else {
				fmt.Fprintf(w, "Error: %v\n", o.Err)
			}
		}
	}

	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped %d paths:\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s\n", warning.String())
	}
}
