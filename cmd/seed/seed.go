package main

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/franquicias-api/internal/application/dto"
)

//go:embed seed.schema.json
var seedSchema string

// seedFile formato del archivo de carga.
type seedFile struct {
	Franchises []dto.CreateFranchiseRequest `yaml:"franchises"`
}

// decodeReader aplica la conversión de charset; los archivos exportados de hojas de cálculo
// suelen venir en ISO-8859-1.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
		return r, nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// parseSeed valida el documento contra el esquema y lo decodifica.
func parseSeed(r io.Reader) (*seedFile, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("YAML inválido: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return nil, fmt.Errorf("validar esquema: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("archivo no cumple el esquema: %s", strings.Join(errs, "; "))
	}

	var out seedFile
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decodificar franquicias: %w", err)
	}
	return &out, nil
}
