package tui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ensureline/internal/presentation/tui"
)

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintStatus(&buf, "/etc/profile", true, false, nil)
	tui.PrintStatus(&buf, "SYS1.PARMLIB(X)", false, true, nil)
	assert.Equal(t, "changed: /etc/profile\nok: SYS1.PARMLIB(X) (check mode)\n", buf.String())
}

func TestProfile_NotTerminal(t *testing.T) {
	assert.Nil(t, tui.Profile(&bytes.Buffer{}))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	tui.RenderSummary(&buf, []tui.TaskRow{
		{Destination: "/etc/profile", Action: "inserted", Changed: true},
		{Destination: "SYS1.PARMLIB(X)", Action: "none"},
		{Destination: "/missing", Err: errors.New("not found")},
	})
	out := buf.String()
	assert.Contains(t, out, "/etc/profile")
	assert.Contains(t, out, "failed: not found")
	assert.Contains(t, out, "1 changed, 1 failed")
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(60)
	require.NoError(t, err)
	out, err := render("# Title\n\nSome *text*.")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
