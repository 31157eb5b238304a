package params_test

import (
	"testing"

	"github.com/aretw0/ensureline/pkg/codepage"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_AliasesAndCoercion(t *testing.T) {
	p, err := params.Decode(map[string]any{
		"zosdest":    "SYS1.PARMLIB(IEASYS00)",
		"regex":      "^CLOCK=",
		"value":      8080,
		"backup":     "yes",
		"firstmatch": 1,
		"encoding":   map[string]any{"from": "IBM-037"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SYS1.PARMLIB(IEASYS00)", p.Destination)
	require.NotNil(t, p.Regexp)
	assert.Equal(t, "^CLOCK=", *p.Regexp)
	require.NotNil(t, p.Line)
	assert.Equal(t, "8080", *p.Line)
	assert.True(t, p.Backup)
	assert.True(t, p.FirstMatch)
	require.NotNil(t, p.Encoding)
	assert.Equal(t, "IBM-037", p.Encoding.From)
	assert.Nil(t, p.InsertAfter)
}

func TestDecode_Rejects(t *testing.T) {
	_, err := params.Decode(map[string]any{"path": "/a", "dest": "/b"})
	assert.ErrorIs(t, err, params.ErrValidation)

	_, err = params.Decode(map[string]any{"path": "/a", "colour": "blue"})
	assert.ErrorIs(t, err, params.ErrValidation)
}

func TestValidate_Defaults(t *testing.T) {
	v, err := params.Validate(params.Params{Destination: "/etc/profile", Line: domain.String("umask 022")})
	require.NoError(t, err)

	assert.Equal(t, domain.ModePresent, v.Request.Mode)
	assert.Equal(t, domain.DialectRE2, v.Request.Dialect)
	assert.Equal(t, domain.DefaultEncoding(), v.Encoding)
	assert.Equal(t, "/etc/profile", v.Destination)
	assert.False(t, v.Backup)
}

func TestValidate_PartialEncoding(t *testing.T) {
	v, err := params.Validate(params.Params{
		Destination: "/etc/profile",
		Line:        domain.String("x"),
		Encoding:    &domain.Encoding{To: "UTF-8"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Encoding{From: "IBM-1047", To: "UTF-8"}, v.Encoding)
}

func TestValidate_Errors(t *testing.T) {
	line := domain.String("x")
	tests := []struct {
		name   string
		in     params.Params
		field  string
		target error
	}{
		{name: "no destination", in: params.Params{Line: line}, field: "destination"},
		{name: "relative path", in: params.Params{Destination: "etc/profile", Line: line}, field: "destination"},
		{name: "bad dataset", in: params.Params{Destination: "SYS1.9BAD", Line: line}, field: "destination"},
		{name: "bad state", in: params.Params{Destination: "/f", State: "latest", Line: line}, field: "state"},
		{name: "bad dialect", in: params.Params{Destination: "/f", Dialect: "pcre", Line: line}, field: "dialect"},
		{
			name:   "present without line",
			in:     params.Params{Destination: "/f"},
			field:  "line",
			target: domain.ErrMissingLine,
		},
		{
			name:   "absent without criterion",
			in:     params.Params{Destination: "/f", State: "absent"},
			field:  "regexp",
			target: domain.ErrMissingCriterion,
		},
		{
			name:   "backrefs without regexp",
			in:     params.Params{Destination: "/f", Line: line, Backrefs: true},
			field:  "backrefs",
			target: domain.ErrInvalidPattern,
		},
		{
			name:   "both placements",
			in:     params.Params{Destination: "/f", Line: line, InsertAfter: domain.String("a"), InsertBefore: domain.String("b")},
			field:  "insertbefore",
			target: domain.ErrConflictingPlacement,
		},
		{
			name:   "both placements with backrefs",
			in:     params.Params{Destination: "/f", Regexp: domain.String(`^a=(\d)`), Line: domain.String(`b=\1`), Backrefs: true, InsertAfter: domain.String("x"), InsertBefore: domain.String("y")},
			field:  "insertbefore",
			target: domain.ErrConflictingPlacement,
		},
		{
			name:  "malformed encoding",
			in:    params.Params{Destination: "/f", Line: line, Encoding: &domain.Encoding{From: "IBM_1047"}},
			field: "encoding.from",
		},
		{
			name:   "unknown encoding",
			in:     params.Params{Destination: "/f", Line: line, Encoding: &domain.Encoding{To: "KLINGON"}},
			field:  "encoding.to",
			target: codepage.ErrUnknownEncoding,
		},
		{
			name:  "backupdest without backup",
			in:    params.Params{Destination: "/f", Line: line, BackupDest: "/f.bak"},
			field: "backupdest",
		},
		{
			name:  "relative backupdest for file",
			in:    params.Params{Destination: "/f", Line: line, Backup: true, BackupDest: "f.bak"},
			field: "backupdest",
		},
		{
			name:  "path backupdest for dataset",
			in:    params.Params{Destination: "USER.CONF", Line: line, Backup: true, BackupDest: "/tmp/x"},
			field: "backupdest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := params.Validate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, params.ErrValidation)

			var vErr *params.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestValidate_BackrefsWithoutLine(t *testing.T) {
	// A non-matching backrefs edit is a no-op, so the line is checked only on match.
	v, err := params.Validate(params.Params{Destination: "/f", Regexp: domain.String("^a"), Backrefs: true})
	require.NoError(t, err)
	assert.True(t, v.Request.Backrefs)
}

func TestValidate_EmptyLineIsAllowed(t *testing.T) {
	v, err := params.Validate(params.Params{Destination: "/f", Line: domain.String("")})
	require.NoError(t, err)
	assert.True(t, v.Request.HasLine())
}
