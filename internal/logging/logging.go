// Package logging routes the standard logger to the console and a debug
// log file, per the debug settings.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"grovepi-hub/internal/config"
)

const logFileName = "app_debug.log"

// Init points the global standard logger at the configured destinations.
// It returns the opened log file (nil when file logging is off) so the
// caller can close it on shutdown.
func Init(settings *config.Store) (*os.File, error) {
	toConsole := settings.GetBool(config.KeyEnableDebugToConsole, true)
	toFile := settings.GetBool(config.KeyEnableDebugToFile, true)

	var writers []io.Writer
	var file *os.File

	if toConsole {
		writers = append(writers, os.Stdout)
	}

	if toFile {
		dir := settings.GetString(config.KeyLogDirectory, "Debug_Logs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}

		path := filepath.Join(dir, logFileName)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		file = f
		writers = append(writers, f)
	}

	switch len(writers) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(writers[0])
	default:
		log.SetOutput(io.MultiWriter(writers...))
	}

	log.Println("Logger initialized")
	return file, nil
}
