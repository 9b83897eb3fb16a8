package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vitalink/companion/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNoRecord means export was requested before any record was loaded.
var ErrNoRecord = errors.New("no record loaded")

// Exporter serializes the cached user record to a file. It performs no
// network call and always reflects the last successfully loaded record,
// never unsaved form values.
type Exporter struct {
	loader *Loader
}

// NewExporter creates a new Exporter
func NewExporter(loader *Loader) *Exporter {
	return &Exporter{loader: loader}
}

// Export writes the cached record to filename. The format follows the
// extension: .yaml/.yml produce YAML, everything else JSON.
func (e *Exporter) Export(filename string) error {
	record := e.loader.Current()
	if record == nil {
		return ErrNoRecord
	}

	var (
		out []byte
		err error
	)
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		out, err = yaml.Marshal(record)
	} else {
		out, err = json.MarshalIndent(record, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	logger.Info("record exported", zap.String("file", filename))
	return nil
}

// Module provides the data dependencies
var Module = fx.Module("data",
	fx.Provide(
		NewLoader,
		NewUpdater,
		NewExporter,
	),
)
