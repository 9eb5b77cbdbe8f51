// Package csvlog is the durable append-only record of sensor readings.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"grovepi-hub/pkg/types"
)

const logFileName = "sensor_readings.csv"

// Writer appends one CSV row per poll cycle. The file is opened and closed
// per write; prior rows survive a crash and no handle is held across cycles.
type Writer struct {
	dir  string
	path string
}

// NewWriter creates a CSV sink rooted at dir. Nothing touches the disk
// until the first append.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:  dir,
		path: filepath.Join(dir, logFileName),
	}
}

// Path returns the location of the active log file.
func (w *Writer) Path() string {
	return w.path
}

// ensure creates the log directory and, for a fresh file, the header row.
func (w *Writer) ensure() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create sensor log directory %s: %w", w.dir, err)
	}

	if _, err := os.Stat(w.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create sensor log file %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(types.CSVHeader()); err != nil {
		return err
	}
	cw.Flush()
	log.Printf("Created sensor log file %s", w.path)
	return cw.Error()
}

// Append writes one reading as one row. Any error is returned for the
// caller to log; the reading is simply not persisted for that cycle.
func (w *Writer) Append(reading types.SensorReading) error {
	if err := w.ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open sensor log file %s: %w", w.path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(reading.CSVRecord()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Archive moves the active log into archiveDir under a timestamped name
// and returns the new path. The next append starts a fresh file with a
// header row.
func (w *Writer) Archive(archiveDir string) (string, error) {
	if _, err := os.Stat(w.path); err != nil {
		return "", fmt.Errorf("no sensor log to archive: %w", err)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory %s: %w", archiveDir, err)
	}

	name := fmt.Sprintf("sensor_readings_%s.csv", time.Now().Format("20060102_150405"))
	dest := filepath.Join(archiveDir, name)
	if err := os.Rename(w.path, dest); err != nil {
		return "", fmt.Errorf("failed to archive sensor log: %w", err)
	}

	log.Printf("Archived sensor log to %s", dest)
	return dest, nil
}
