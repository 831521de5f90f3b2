package state

import (
	"fmt"
	"os"
	"time"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// LoadCustomStyle reads additional stylesheet requested by configuration,
// if any.
func (e *LocalEnv) LoadCustomStyle() error {
	if e.Cfg == nil || len(e.Cfg.Document.StylesheetPath) == 0 {
		return nil
	}
	data, err := os.ReadFile(e.Cfg.Document.StylesheetPath)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet: %w", err)
	}
	e.CustomStyle = data
	return nil
}
