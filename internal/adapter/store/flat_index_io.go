package store

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	indexFile    = "index.gob"
	metadataFile = "metadata.json"
)

// indexBlob is the gob-encoded vector payload.
type indexBlob struct {
	Dimension int
	Vectors   [][]float32
}

// metadataBlob mirrors the index structure on disk. Records and positions
// are stored together so a load can verify they describe the same state.
type metadataBlob struct {
	ModelName string         `json:"model_name"`
	Dimension int            `json:"dimension"`
	Records   []chunkRecord  `json:"records"`
	Positions map[string]int `json:"positions"`
}

// load reads persisted state from the store directory. Both files missing
// means a fresh store. Anything inconsistent (one file present, undecodable
// content, records and vectors out of step) starts the index empty and
// records a warning instead of failing.
func (x *FlatIndex) load() error {
	if x.dir == "" {
		return nil
	}

	indexPath := filepath.Join(x.dir, indexFile)
	metaPath := filepath.Join(x.dir, metadataFile)

	_, indexErr := os.Stat(indexPath)
	_, metaErr := os.Stat(metaPath)
	if os.IsNotExist(indexErr) && os.IsNotExist(metaErr) {
		return nil
	}
	if os.IsNotExist(indexErr) || os.IsNotExist(metaErr) {
		x.warnings = append(x.warnings,
			"vector store is incomplete (one of index.gob/metadata.json missing); starting with an empty index")
		return nil
	}
	if indexErr != nil {
		return fmt.Errorf("stat %s: %w", indexPath, indexErr)
	}
	if metaErr != nil {
		return fmt.Errorf("stat %s: %w", metaPath, metaErr)
	}

	var blob indexBlob
	f, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", indexPath, err)
	}
	decodeErr := gob.NewDecoder(f).Decode(&blob)
	f.Close()

	var meta metadataBlob
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", metaPath, err)
	}
	if decodeErr == nil {
		decodeErr = json.Unmarshal(data, &meta)
	}
	if decodeErr == nil && len(meta.Records) != len(blob.Vectors) {
		decodeErr = fmt.Errorf("%d records for %d vectors", len(meta.Records), len(blob.Vectors))
	}
	if decodeErr != nil {
		x.warnings = append(x.warnings,
			fmt.Sprintf("vector store is corrupt (%v); starting with an empty index", decodeErr))
		return nil
	}

	if meta.ModelName != "" && meta.ModelName != x.modelName {
		x.warnings = append(x.warnings, fmt.Sprintf(
			"store was built with embedding model %q but %q is configured; run a forced refresh to re-embed",
			meta.ModelName, x.modelName))
	}

	x.dimension = blob.Dimension
	x.vectors = blob.Vectors
	x.records = meta.Records
	x.positions = meta.Positions
	if x.positions == nil {
		x.positions = make(map[string]int, len(meta.Records))
		for pos, rec := range meta.Records {
			x.positions[rec.ChunkID] = pos
		}
	}
	return nil
}

// save writes both files atomically via temp file and rename. Called with
// the write lock held.
func (x *FlatIndex) save() error {
	if x.dir == "" {
		return nil
	}
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	blob := indexBlob{
		Dimension: x.dimension,
		Vectors:   x.vectors,
	}
	if err := writeAtomic(filepath.Join(x.dir, indexFile), func(f *os.File) error {
		return gob.NewEncoder(f).Encode(&blob)
	}); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	meta := metadataBlob{
		ModelName: x.modelName,
		Dimension: x.dimension,
		Records:   x.records,
		Positions: x.positions,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := writeAtomic(filepath.Join(x.dir, metadataFile), func(f *os.File) error {
		_, err := f.Write(data)
		return err
	}); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// writeAtomic writes to a temp file in the target directory and renames it
// into place, so readers never observe a half-written file.
func writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// removeFiles deletes the persisted store files. Called with the write lock
// held.
func (x *FlatIndex) removeFiles() error {
	if x.dir == "" {
		return nil
	}
	for _, name := range []string{indexFile, metadataFile} {
		if err := os.Remove(filepath.Join(x.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// diskBytes sums the on-disk size of the store files.
func (x *FlatIndex) diskBytes() int64 {
	if x.dir == "" {
		return 0
	}
	var total int64
	for _, name := range []string{indexFile, metadataFile} {
		if info, err := os.Stat(filepath.Join(x.dir, name)); err == nil {
			total += info.Size()
		}
	}
	return total
}
