package nfe_test

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
)

func TestXMLFileName(t *testing.T) {
	assert.Equal(t, "NFe_123456.xml", nfe.XMLFileName("123456"))
	assert.Equal(t, "NFe_42.xml", nfe.XMLFileName(" 42 "))
}

func TestExportZip(t *testing.T) {
	data, err := nfe.ExportZip([]nfe.ExportFile{
		{Number: "1", XML: "<a/>"},
		{Number: "2", XML: "<b/>"},
		{Number: "1", XML: "<c/>"},
	})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	names := make([]string, 0, 3)
	contents := make([]string, 0, 3)
	for _, f := range zr.File {
		names = append(names, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents = append(contents, string(b))
	}
	assert.Equal(t, []string{"NFe_1.xml", "NFe_2.xml", "NFe_1_2.xml"}, names)
	assert.Equal(t, []string{"<a/>", "<b/>", "<c/>"}, contents)
}
