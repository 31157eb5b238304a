package params

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/dsname"
)

// ErrValidation matches every *ValidationError.
var ErrValidation = errors.New("invalid parameters")

// ValidationError reports the first offending parameter. Err, when set, is the
// reconciliation error kind the same mistake would have produced.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validated is the checked, defaulted form of Params.
type Validated struct {
	Destination string
	Request     domain.Request
	Encoding    domain.Encoding
	Backup      bool
	BackupDest  string
}

// Validate checks p and applies defaults.
func Validate(p Params) (*Validated, error) {
	dest := strings.TrimSpace(p.Destination)
	if dest == "" {
		return nil, &ValidationError{Field: "destination", Message: "is required"}
	}
	if !filepath.IsAbs(dest) && !dsname.Valid(dest) {
		return nil, &ValidationError{
			Field:   "destination",
			Message: fmt.Sprintf("%q is neither an absolute path nor a dataset name", dest),
		}
	}

	mode := domain.Mode(strings.ToLower(p.State))
	switch mode {
	case "":
		mode = domain.ModePresent
	case domain.ModePresent, domain.ModeAbsent:
	default:
		return nil, &ValidationError{Field: "state", Message: fmt.Sprintf("must be present or absent, got %q", p.State)}
	}

	dialect := domain.Dialect(strings.ToLower(p.Dialect))
	switch dialect {
	case "":
		dialect = domain.DialectRE2
	case domain.DialectRE2, domain.DialectCompat:
	default:
		return nil, &ValidationError{Field: "dialect", Message: fmt.Sprintf("must be re2 or compat, got %q", p.Dialect)}
	}

	req := domain.Request{
		Mode:         mode,
		Pattern:      p.Regexp,
		Line:         p.Line,
		Backrefs:     p.Backrefs,
		InsertAfter:  p.InsertAfter,
		InsertBefore: p.InsertBefore,
		FirstMatch:   p.FirstMatch,
		Dialect:      dialect,
	}
	for _, f := range []struct {
		field string
		value *string
	}{
		{"regexp", p.Regexp},
		{"line", p.Line},
		{"insertafter", p.InsertAfter},
		{"insertbefore", p.InsertBefore},
	} {
		if err := checkText(f.field, f.value); err != nil {
			return nil, err
		}
	}
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	enc, err := checkEncoding(p.Encoding)
	if err != nil {
		return nil, err
	}

	if p.BackupDest != "" && !p.Backup {
		return nil, &ValidationError{Field: "backupdest", Message: "requires backup to be enabled"}
	}
	if p.BackupDest != "" {
		if err := checkBackupDest(dest, p.BackupDest); err != nil {
			return nil, err
		}
	}

	return &Validated{
		Destination: dest,
		Request:     req,
		Encoding:    enc,
		Backup:      p.Backup,
		BackupDest:  p.BackupDest,
	}, nil
}

func checkRequest(req domain.Request) error {
	switch req.Mode {
	case domain.ModeAbsent:
		if !req.HasPattern() && !req.HasLine() {
			return &ValidationError{Field: "regexp", Message: "absent requires regexp or line", Err: domain.ErrMissingCriterion}
		}
	default:
		if req.Backrefs && !req.HasPattern() {
			return &ValidationError{Field: "backrefs", Message: "requires regexp", Err: domain.ErrInvalidPattern}
		}
		if !req.Backrefs && !req.HasLine() {
			return &ValidationError{Field: "line", Message: "present requires line", Err: domain.ErrMissingLine}
		}
		if req.InsertAfter != nil && req.InsertBefore != nil {
			return &ValidationError{
				Field:   "insertbefore",
				Message: "cannot be combined with insertafter",
				Err:     domain.ErrConflictingPlacement,
			}
		}
	}
	return nil
}

func checkEncoding(in *domain.Encoding) (domain.Encoding, error) {
	enc := domain.DefaultEncoding()
	if in != nil {
		if in.From != "" {
			enc.From = in.From
		}
		if in.To != "" {
			enc.To = in.To
		}
	}
	for _, f := range []struct{ field, name string }{
		{"encoding.from", enc.From},
		{"encoding.to", enc.To},
	} {
		if !codepage.ValidName(f.name) {
			return enc, &ValidationError{Field: f.field, Message: fmt.Sprintf("malformed encoding name %q", f.name)}
		}
		if _, err := codepage.Lookup(f.name); err != nil {
			return enc, &ValidationError{Field: f.field, Message: err.Error(), Err: err}
		}
	}
	return enc, nil
}

func checkBackupDest(dest, backupDest string) error {
	if filepath.IsAbs(dest) {
		if !filepath.IsAbs(backupDest) {
			return &ValidationError{Field: "backupdest", Message: "must be an absolute path for a file destination"}
		}
		return nil
	}
	if !dsname.Valid(backupDest) {
		return &ValidationError{Field: "backupdest", Message: fmt.Sprintf("%q is not a dataset name", backupDest)}
	}
	return nil
}
