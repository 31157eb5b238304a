package params_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/params"
)

func TestValidate_TextChecks(t *testing.T) {
	tests := []struct {
		name  string
		p     params.Params
		field string
		err   error
	}{
		{
			name:  "newline in line",
			p:     params.Params{Destination: "/etc/profile", Line: domain.String("a\nb")},
			field: "line",
			err:   params.ErrLineSeparator,
		},
		{
			name:  "invalid utf-8 pattern",
			p:     params.Params{Destination: "/etc/profile", Regexp: domain.String("\xff"), Line: domain.String("x")},
			field: "regexp",
			err:   params.ErrInvalidUTF8,
		},
		{
			name:  "oversized placement",
			p:     params.Params{Destination: "/etc/profile", Line: domain.String("x"), InsertAfter: domain.String(strings.Repeat("a", params.DefaultMaxTextSize+1))},
			field: "insertafter",
			err:   params.ErrTextTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := params.Validate(tt.p)
			var verr *params.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, params.ErrValidation)
		})
	}
}

func TestValidate_MaxTextSizeFromEnv(t *testing.T) {
	t.Setenv(params.EnvMaxTextSize, "4")
	_, err := params.Validate(params.Params{Destination: "/etc/profile", Line: domain.String("12345")})
	assert.ErrorIs(t, err, params.ErrTextTooLarge)

	_, err = params.Validate(params.Params{Destination: "/etc/profile", Line: domain.String("1234")})
	assert.NoError(t, err)
}

func TestValidate_CarriageReturnIsContent(t *testing.T) {
	_, err := params.Validate(params.Params{Destination: "/etc/profile", Line: domain.String("crlf\r")})
	assert.NoError(t, err)
}
