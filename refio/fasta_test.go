package refio_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/hybridgenomics/varcall/refio"
	"github.com/hybridgenomics/varcall/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesMultiContigFasta(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	path := filepath.Join(tmpdir, "ref.fa")
	require.NoError(t, os.WriteFile(path, []byte(">chr1\nACGTACGTAC\n>chr2\nTTTTGGGGCC\n"), 0644))

	ref, err := refio.Load(context.Background(), path)
	require.NoError(t, err)

	w, err := ref.Window(context.Background(), region.New("chr1", 0, 4))
	require.NoError(t, err)
	assert.Equal(t, "ACGT", w.Bases.String())

	w2, err := ref.Window(context.Background(), region.New("chr2", 4, 10))
	require.NoError(t, err)
	assert.Equal(t, "GGGGCC", w2.Bases.String())
}
