package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/chris-regnier/plumb/internal/sarif"
)

var storeTracer = otel.Tracer("github.com/chris-regnier/plumb/internal/store")

// FileStore persists analysis runs as directories under a root: each run ID
// holds a results.sarif and, once evaluated, a verdict.json.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) generateID() string {
	b := make([]byte, 3)
	rand.Read(b)
	ts := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	return fmt.Sprintf("%s-%s", ts, hex.EncodeToString(b))
}

func (s *FileStore) resultDir(id string) string {
	return filepath.Join(s.dir, id)
}

func (s *FileStore) WriteSARIF(ctx context.Context, doc *sarif.Log) (string, error) {
	_, span := storeTracer.Start(ctx, "write sarif")
	defer span.End()

	id := s.generateID()
	dir := s.resultDir(id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("creating result dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("marshaling SARIF: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "results.sarif"), data, 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("writing SARIF: %w", err)
	}

	span.SetAttributes(attribute.String("plumb.run_id", id))
	return id, nil
}

func (s *FileStore) WriteVerdict(ctx context.Context, sarifID string, verdict *Verdict) error {
	_, span := storeTracer.Start(ctx, "write verdict")
	defer span.End()
	span.SetAttributes(attribute.String("plumb.run_id", sarifID))

	data, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("marshaling verdict: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.resultDir(sarifID), "verdict.json"), data, 0644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("writing verdict: %w", err)
	}
	return nil
}

func (s *FileStore) ReadSARIF(ctx context.Context, id string) (*sarif.Log, error) {
	_, span := storeTracer.Start(ctx, "read sarif")
	defer span.End()
	span.SetAttributes(attribute.String("plumb.run_id", id))

	data, err := os.ReadFile(filepath.Join(s.resultDir(id), "results.sarif"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("reading SARIF %s: %w", id, err)
	}
	var doc sarif.Log
	if err := json.Unmarshal(data, &doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("parsing SARIF %s: %w", id, err)
	}
	return &doc, nil
}

func (s *FileStore) ReadVerdict(ctx context.Context, sarifID string) (*Verdict, error) {
	_, span := storeTracer.Start(ctx, "read verdict")
	defer span.End()
	span.SetAttributes(attribute.String("plumb.run_id", sarifID))

	data, err := os.ReadFile(filepath.Join(s.resultDir(sarifID), "verdict.json"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("reading verdict %s: %w", sarifID, err)
	}
	var v Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("parsing verdict %s: %w", sarifID, err)
	}
	return &v, nil
}

// List returns all stored run IDs, newest first.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	_, span := storeTracer.Start(ctx, "list runs")
	defer span.End()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}
