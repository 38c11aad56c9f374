package nfe

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// XMLFileName nombre de descarga del documento: NFe_<numero>.xml.
func XMLFileName(number string) string {
	return "NFe_" + strings.TrimSpace(number) + ".xml"
}

// ExportFile documento fiscal a incluir en un lote de exportación.
type ExportFile struct {
	Number string
	XML    string
}

// ExportZip empaqueta los XML firmados en un ZIP en memoria, un archivo NFe_<numero>.xml
// por documento. Números repetidos se desambiguan con sufijo.
func ExportZip(files []ExportFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	used := make(map[string]int, len(files))
	for _, f := range files {
		name := XMLFileName(f.Number)
		if n := used[name]; n > 0 {
			name = fmt.Sprintf("NFe_%s_%d.xml", strings.TrimSpace(f.Number), n+1)
		}
		used[XMLFileName(f.Number)]++

		fw, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if _, err := fw.Write([]byte(f.XML)); err != nil {
			return nil, fmt.Errorf("zip: escribir XML %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return buf.Bytes(), nil
}
