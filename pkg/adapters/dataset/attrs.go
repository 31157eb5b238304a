package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/ensureline/internal/fsutil"
)

// RecordFormat is the record layout of a dataset.
type RecordFormat string

const (
	// FixedBlocked records are exactly LRECL bytes, padded with spaces.
	FixedBlocked RecordFormat = "FB"
	// VariableBlocked records carry a 4-byte record descriptor word.
	VariableBlocked RecordFormat = "VB"

	rdwSize = 4
)

// Attributes describe how a dataset's records are laid out.
type Attributes struct {
	RecFM RecordFormat `yaml:"recfm"`
	LRECL int          `yaml:"lrecl"`
}

// DefaultAttributes is FB/80.
func DefaultAttributes() Attributes {
	return Attributes{RecFM: FixedBlocked, LRECL: 80}
}

// MaxData returns the longest line a record can hold.
func (a Attributes) MaxData() int {
	if a.RecFM == VariableBlocked {
		return a.LRECL - rdwSize
	}
	return a.LRECL
}

func (a Attributes) validate() error {
	switch a.RecFM {
	case FixedBlocked:
		if a.LRECL < 1 {
			return fmt.Errorf("lrecl must be positive, got %d", a.LRECL)
		}
	case VariableBlocked:
		if a.LRECL <= rdwSize {
			return fmt.Errorf("lrecl must exceed %d for VB, got %d", rdwSize, a.LRECL)
		}
	default:
		return fmt.Errorf("unsupported recfm %q", a.RecFM)
	}
	if a.LRECL > 0xFFFF-rdwSize {
		return fmt.Errorf("lrecl %d too large", a.LRECL)
	}
	return nil
}

// loadAttributes reads path, falling back to the defaults when it does not exist.
func loadAttributes(path string) (Attributes, error) {
	attrs := DefaultAttributes()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return attrs, nil
	}
	if err != nil {
		return attrs, fsutil.Classify(err)
	}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return attrs, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	attrs.RecFM = RecordFormat(strings.ToUpper(string(attrs.RecFM)))
	if err := attrs.validate(); err != nil {
		return attrs, fmt.Errorf("%s: %w", path, err)
	}
	return attrs, nil
}

func saveAttributes(path string, attrs Attributes) error {
	data, err := yaml.Marshal(attrs)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data)
}
