package visualization

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/robo"
)

// Format names an output format of the visualization package.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatDOT, FormatMermaid, FormatYAML, FormatJSON}
}

// ExportYAML writes def as YAML.
func ExportYAML(w io.Writer, def robo.Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ImportYAML reads a definition written by ExportYAML.
func ImportYAML(r io.Reader) (robo.Definition, error) {
	var def robo.Definition
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return robo.Definition{}, fmt.Errorf("decode yaml: %w", err)
	}
	return def, nil
}

// ExportJSON writes def as indented JSON.
func ExportJSON(w io.Writer, def robo.Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(def); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// Render writes def in the given format.
func Render(w io.Writer, def robo.Definition, format Format) error {
	switch format {
	case FormatDOT:
		out, err := NewDOTGenerator(def).Generate()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatMermaid:
		_, err := io.WriteString(w, GenerateMermaid(def, nil))
		return err
	case FormatYAML:
		return ExportYAML(w, def)
	case FormatJSON:
		return ExportJSON(w, def)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
