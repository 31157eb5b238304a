package dsname_test

import (
	"strings"
	"testing"

	"github.com/aretw0/ensureline/pkg/dsname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    dsname.Name
		wantErr bool
	}{
		{in: "SYS1.PARMLIB", want: dsname.Name{Dataset: "SYS1.PARMLIB"}},
		{in: "sys1.parmlib(ieasys00)", want: dsname.Name{Dataset: "SYS1.PARMLIB", Member: "IEASYS00"}},
		{in: "USER.#TEST.@DATA$", want: dsname.Name{Dataset: "USER.#TEST.@DATA$"}},
		{in: "SINGLE", wantErr: true},
		{in: "USER.1BAD", wantErr: true},
		{in: "USER.TOOLONGQUAL", wantErr: true},
		{in: "USER.DATA(TOOLONGMEM)", wantErr: true},
		{in: "USER..DATA", wantErr: true},
		{in: "USER.DATA(", wantErr: true},
		{in: "/etc/profile", wantErr: true},
		{in: strings.Repeat("ABCDEFG.", 6) + "X", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dsname.Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, dsname.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestName_String(t *testing.T) {
	assert.Equal(t, "A.B(M)", dsname.Name{Dataset: "A.B", Member: "M"}.String())
	assert.Equal(t, "A.B", dsname.Name{Dataset: "A.B"}.String())
}

func TestName_WithSuffix(t *testing.T) {
	n, err := dsname.Parse("USER.CONFIG(PROD)")
	require.NoError(t, err)
	got := n.WithSuffix("B26292", "T101500")
	assert.Equal(t, "USER.CONFIG.B26292.T101500", got.Dataset)
	assert.Equal(t, "PROD", got.Member)

	long, err := dsname.Parse("HLQ.QUALONE1.QUALTWO2.QUALTHR3.QUALFOU4")
	require.NoError(t, err)
	trimmed := long.WithSuffix("B26292", "T101500")
	assert.LessOrEqual(t, len(trimmed.Dataset), dsname.MaxLength)
	assert.True(t, strings.HasPrefix(trimmed.Dataset, "HLQ."))
	assert.True(t, strings.HasSuffix(trimmed.Dataset, ".B26292.T101500"))
	assert.True(t, dsname.Valid(trimmed.String()))
}
