// Package export reads and writes collections as JSON Lines files.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

// maxLineBytes bounds one JSONL record.
const maxLineBytes = 4 << 20

// WriteJSONL atomically writes one JSON object per line to path using the
// temp-file, fsync, rename pattern. It returns the number of records written.
func WriteJSONL[E any](path string, items []E) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (int, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}

	w := bufio.NewWriter(tmp)
	if err := Encode(w, items); err != nil {
		return fail(err)
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("renaming temp file: %w", err)
	}
	return len(items), nil
}

// Encode writes items as compact JSON, one per line.
func Encode[E any](w io.Writer, items []E) error {
	for i, item := range items {
		line, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}

// ReadJSONL reads the records of the JSONL file at path.
func ReadJSONL(path string) ([]types.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads one JSON object per line. Blank lines are ignored; lines that
// are not exactly one JSON object are skipped and counted in skipped.
func Decode(r io.Reader) (records []types.Record, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var rec types.Record
		if err := dec.Decode(&rec); err != nil || rec == nil || dec.InputOffset() != int64(len(line)) {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("scanning records: %w", err)
	}
	return records, skipped, nil
}
