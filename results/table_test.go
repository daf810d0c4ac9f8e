package results

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slide.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeTable(t, `minx,miny,width,height,prob_notumor,prob_tumor,prob_lymphocyte
0,0,350,350,0.1,0.84,0.06
350,0,350,350,0.92,0.05,0.03
`)

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"notumor", "tumor", "lymphocyte"}, table.Classes())

	first := table.Patches()[0]
	assert.Equal(t, 0.0, first.MinX)
	assert.Equal(t, 350.0, first.Width)
	assert.Equal(t, 0.84, first.Probs["tumor"])
	assert.Equal(t, 0.06, first.Probs["lymphocyte"])

	second := table.Patches()[1]
	assert.Equal(t, 350.0, second.MinX)
	assert.Equal(t, 0.92, second.Probs["notumor"])
}

func TestReadTableIgnoresExtraColumns(t *testing.T) {
	path := writeTable(t, `slide,minx,miny,width,height,prob_tumor,model
a.svs,1,2,3,4,0.5,hovernet
`)

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tumor"}, table.Classes())
	assert.Equal(t, 1.0, table.Patches()[0].MinX)
	assert.Equal(t, 4.0, table.Patches()[0].Height)
}

func TestReadTableMissingColumns(t *testing.T) {
	path := writeTable(t, `minx,miny,width,prob_tumor
0,0,350,0.5
`)

	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "height")
	assert.Contains(t, err.Error(), path)
}

func TestReadTableNoProbColumns(t *testing.T) {
	path := writeTable(t, `minx,miny,width,height
0,0,350,350
`)

	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prob_")
}

func TestReadTableBadNumeric(t *testing.T) {
	path := writeTable(t, `minx,miny,width,height,prob_tumor
0,0,350,350,0.5
oops,0,350,350,0.5
`)

	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "minx")
}

func TestReadTableEmptyFile(t *testing.T) {
	path := writeTable(t, "")

	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty prediction table")
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestClassesReturnsCopy(t *testing.T) {
	path := writeTable(t, `minx,miny,width,height,prob_tumor
0,0,350,350,0.5
`)

	table, err := ReadTable(path)
	require.NoError(t, err)

	table.Classes()[0] = "mutated"
	assert.Equal(t, []string{"tumor"}, table.Classes())
}

func TestReadTableWhitespaceTolerant(t *testing.T) {
	path := writeTable(t, `minx, miny, width, height, prob_tumor
0, 10, 350, 350, 0.75
`)

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, table.Patches()[0].MinY)
	assert.Equal(t, 0.75, table.Patches()[0].Probs["tumor"])
}
