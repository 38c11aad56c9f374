// seed_ibge genera el script SQL que puebla la tabla municipalities a partir del
// listado oficial de municipios del IBGE (texto separado por ';', ISO-8859-1):
//
//	codigo;nome;uf
//	3550308;São Paulo;SP
//
// Uso: go run ./cmd/seed_ibge [ruta/municipios.csv]
// Por defecto busca municipios.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_municipalities.sql
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type municipality struct {
	code, name, state string
}

func main() {
	path := "municipios.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	list, err := parseMunicipalities(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer municipios: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_municipalities.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, list); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d municipios\n", outPath, len(list))
}

// parseMunicipalities decodifica ISO-8859-1 y devuelve los municipios válidos ordenados por código.
// Se ignoran la cabecera y las líneas con código distinto de 7 dígitos.
func parseMunicipalities(r io.Reader) ([]municipality, error) {
	sc := bufio.NewScanner(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	seen := make(map[string]bool)
	var list []municipality
	for sc.Scan() {
		fields := strings.Split(sc.Text(), ";")
		if len(fields) < 3 {
			continue
		}
		m := municipality{
			code:  strings.TrimSpace(fields[0]),
			name:  strings.TrimSpace(fields[1]),
			state: strings.ToUpper(strings.TrimSpace(fields[2])),
		}
		if !isIBGECode(m.code) || m.name == "" || len(m.state) != 2 || seen[m.code] {
			continue
		}
		seen[m.code] = true
		list = append(list, m)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].code < list[j].code })
	return list, nil
}

func writeSQL(w io.Writer, list []municipality) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("-- Municipios Brasil (código IBGE)\n")
	bw.WriteString("-- Generado por cmd/seed_ibge\n\n")
	for _, m := range list {
		fmt.Fprintf(bw, "INSERT INTO municipalities (code, name, state) VALUES ('%s', '%s', '%s') ON CONFLICT (code) DO NOTHING;\n",
			m.code, escapeSQL(m.name), m.state)
	}
	return bw.Flush()
}

func isIBGECode(s string) bool {
	if len(s) != 7 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
