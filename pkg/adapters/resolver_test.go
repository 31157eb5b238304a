package adapters_test

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/ensureline/pkg/adapters"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver(t *testing.T) {
	r := adapters.NewResolver(t.TempDir())
	enc := domain.DefaultEncoding()

	path := filepath.Join(t.TempDir(), "etc", "profile")
	res, err := r.Resolve(path, enc)
	require.NoError(t, err)
	assert.Equal(t, domain.KindUSS, res.Kind())
	assert.Equal(t, path, res.Name())

	res, err = r.Resolve("SYS1.PARMLIB(IEASYS00)", enc)
	require.NoError(t, err)
	assert.Equal(t, domain.KindDataset, res.Kind())

	_, err = r.Resolve("relative/path", enc)
	assert.Error(t, err)

	_, err = r.Resolve(path, domain.Encoding{From: "BOGUS", To: "UTF-8"})
	assert.Error(t, err)
}
