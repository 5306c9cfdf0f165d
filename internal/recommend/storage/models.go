// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// fileSuffix is appended to every artifact file name.
const fileSuffix = ".json.gz"

// ErrModelNotFound is returned when no artifact exists for a name.
var ErrModelNotFound = errors.New("model not found")

// ErrChecksumMismatch is returned when a payload does not match its recorded hash.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ModelMetadata describes a stored artifact.
type ModelMetadata struct {
	// Name is the artifact name, "{algorithm}-{degree}".
	Name string `json:"name"`

	// Version is the artifact version (monotonically increasing per name).
	Version int `json:"version"`

	// Algorithm is the strategy that produced the artifact (pm, spm).
	Algorithm string `json:"algorithm"`

	// DegreeID is the degree program the artifact was trained for.
	DegreeID string `json:"degree_id"`

	// RunID identifies the training run.
	RunID string `json:"run_id,omitempty"`

	// TrainedAt is when training finished.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the artifact was written.
	SavedAt time.Time `json:"saved_at"`

	// Counts holds population sizes seen by training (students, sequences, patterns).
	Counts map[string]int `json:"counts,omitempty"`

	// Checksum is the SHA-256 of the payload bytes.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed file size.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long training took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the document inside the gzip stream.
type storedFile struct {
	Metadata ModelMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

// Store manages artifact files in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// latest version per artifact name
	versions map[string]int
}

// NewStore creates a store at baseDir, creating the directory if needed,
// and indexes the artifacts already present.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// scanModels records the latest version of every artifact on disk.
func (s *Store) scanModels() error {
	found, err := s.listVersions("")
	if err != nil {
		return err
	}
	for name, versions := range found {
		s.versions[name] = versions[0]
	}
	return nil
}

// listVersions returns the versions on disk per name, newest first.
// An empty only matches every name.
func (s *Store) listVersions(only string) (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	found := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), fileSuffix))
		if name == "" || (only != "" && name != only) {
			continue
		}
		found[name] = append(found[name], version)
	}
	for name := range found {
		sort.Sort(sort.Reverse(sort.IntSlice(found[name])))
	}
	return found, nil
}

// parseModelFilename splits "pm-2491_v3" into ("pm-2491", 3).
func parseModelFilename(base string) (name string, version int) {
	idx := strings.LastIndex(base, "_v")
	if idx <= 0 {
		return "", 0
	}
	v, err := strconv.Atoi(base[idx+2:])
	if err != nil || v < 1 {
		return "", 0
	}
	return base[:idx], v
}

// NextVersion returns the version a new artifact for name should use.
func (s *Store) NextVersion(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[name] + 1
}

// Save writes data as version of name. The payload is marshaled to JSON, its
// checksum and the compressed size are recorded in meta.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, version int, data any, meta ModelMetadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if version < 1 {
		return fmt.Errorf("invalid model version %d", version)
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	hash := sha256.Sum256(payload)
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SavedAt = time.Now().UTC()
	meta.Name = name
	meta.Version = version

	doc, err := json.Marshal(storedFile{Metadata: meta, Payload: payload})
	if err != nil {
		return fmt.Errorf("encode model file: %w", err)
	}

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(doc); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so readers never see a partial artifact.
	final := s.modelPath(name, version)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, compressed.Bytes(), 0o640); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("commit model file: %w", err)
	}

	if current, ok := s.versions[name]; !ok || version > current {
		s.versions[name] = version
	}

	return nil
}

// Load decodes version of name into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
	}

	sf, size, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}

	hash := sha256.Sum256(sf.Payload)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sf.Metadata.Checksum, checksum)
	}

	if err := json.Unmarshal(sf.Payload, target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	sf.Metadata.SizeBytes = size
	return &sf.Metadata, nil
}

// readFile reads and decompresses one artifact file.
func (s *Store) readFile(name string, version int) (*storedFile, int64, error) {
	raw, err := os.ReadFile(s.modelPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return nil, 0, fmt.Errorf("open model file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	doc, err := io.ReadAll(gzr)
	if err != nil {
		return nil, 0, fmt.Errorf("read decompressed data: %w", err)
	}

	var sf storedFile
	if err := json.Unmarshal(doc, &sf); err != nil {
		return nil, 0, fmt.Errorf("read model file: %w", err)
	}
	return &sf, int64(len(raw)), nil
}

// GetLatestVersion returns the latest version number for a name.
func (s *Store) GetLatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// ListModels returns the metadata of the latest version of every artifact,
// ordered by name. Unreadable files are skipped.
func (s *Store) ListModels(ctx context.Context) ([]ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)

	models := make([]ModelMetadata, 0, len(names))
	for _, name := range names {
		sf, size, err := s.readFile(name, s.versions[name])
		if err != nil {
			continue
		}
		sf.Metadata.SizeBytes = size
		models = append(models, sf.Metadata)
	}
	return models, nil
}

// Delete removes one version. When it was the latest, the next newest
// version on disk becomes the latest.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}
	found, err := s.listVersions(name)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if vs := found[name]; len(vs) > 0 {
		s.versions[name] = vs[0]
	} else {
		delete(s.versions, name)
	}
	return nil
}

// Prune keeps the newest keepVersions versions of name and removes the rest.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if keepVersions < 1 {
		keepVersions = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.versions[name]; !ok {
		return nil
	}

	found, err := s.listVersions(name)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	versions := found[name]
	for i := keepVersions; i < len(versions); i++ {
		_ = os.Remove(s.modelPath(name, versions[i])) //nolint:errcheck // best-effort cleanup of old versions
	}
	return nil
}

// modelPath returns the file path for a version.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}
