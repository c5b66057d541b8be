package parser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadLines reads a report file into trimmed lines, preserving order.
// Blank lines are kept so line numbers stay aligned with the file.
func ReadLines(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided report paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening report %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLinesFrom(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}

// ReadLinesFrom reads all lines from r, trimming surrounding whitespace.
// Lines of any length are accepted; only read errors are returned.
func ReadLinesFrom(ctx context.Context, r io.Reader) ([]string, error) {
	reader := bufio.NewReader(r)

	var lines []string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
