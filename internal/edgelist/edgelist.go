// Package edgelist reads and writes the comma separated co-occurrence edge
// list consumed by the analyzer.
package edgelist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"

	"github.com/vanshika/heronet/internal/domain"
)

// ErrMalformedInput marks a line that is not exactly two non-empty names.
var ErrMalformedInput = errors.New("malformed edge")

// DefaultFile is read when no edge file is configured.
const DefaultFile = "edges.csv"

// Read parses one edge per line. Fields may be quoted so that names
// containing commas survive; surrounding whitespace is trimmed. An unbalanced
// quote or a name spanning several lines is malformed.
func Read(r io.Reader) ([]domain.Edge, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var edges []domain.Edge
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, oops.In("edgelist").Wrap(fmt.Errorf("%w: %v", ErrMalformedInput, err))
		}

		line, _ := reader.FieldPos(0)
		if len(record) != 2 {
			return nil, malformed(line, "expected 2 fields, got %d", len(record))
		}
		source := strings.TrimSpace(record[0])
		target := strings.TrimSpace(record[1])
		if source == "" || target == "" {
			return nil, malformed(line, "empty entity name")
		}
		if strings.ContainsAny(source, "\r\n") || strings.ContainsAny(target, "\r\n") {
			return nil, malformed(line, "entity name spans several lines")
		}
		edges = append(edges, domain.Edge{Source: source, Target: target})
	}
	return edges, nil
}

func malformed(line int, format string, args ...any) error {
	return oops.
		In("edgelist").
		With("line", line).
		Wrap(fmt.Errorf("%w on line %d: %s", ErrMalformedInput, line, fmt.Sprintf(format, args...)))
}

// Load reads the edge list stored at path.
func Load(path string) ([]domain.Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	edges, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return edges, nil
}

// Write serialises edges in the format accepted by Read.
func Write(w io.Writer, edges []domain.Edge) error {
	writer := csv.NewWriter(w)
	for _, edge := range edges {
		if err := writer.Write([]string{edge.Source, edge.Target}); err != nil {
			return fmt.Errorf("write edge: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// FileSource loads edges from a file on every call.
type FileSource struct {
	Path string
}

// LoadEdges implements service.EdgeSource.
func (s FileSource) LoadEdges(ctx context.Context) ([]domain.Edge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		path = DefaultFile
	}
	return Load(path)
}
