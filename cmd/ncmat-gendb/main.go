// ncmat-gendb regenerates the embedded builtin element table wrapper from
// an element table YAML source, validating it parses before writing.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
)

func main() {
	src := flag.String("elements", "", "path to the element table YAML source")
	out := flag.String("output", "", "path to write the generated Go wrapper")
	embedName := flag.String("embed-name", "elements.yaml", "basename passed to go:embed, relative to -output's directory")
	flag.Parse()

	if *src == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: ncmat-gendb -elements <path.yaml> -output <path.go> [-embed-name name]")
		os.Exit(1)
	}

	if err := run(*src, *out, *embedName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(src, out, embedName string) error {
	table, err := atomdata.LoadElementTable(src)
	if err != nil {
		return fmt.Errorf("validating element table: %w", err)
	}
	if len(table.Elements) == 0 {
		return fmt.Errorf("element table %s has no entries", src)
	}
	seenZ := make(map[int]bool, len(table.Elements))
	for _, e := range table.Elements {
		if e.Symbol == "" {
			return fmt.Errorf("element table entry with z=%d has an empty symbol", e.Z)
		}
		if e.A == 0 && seenZ[e.Z] {
			return fmt.Errorf("duplicate natural-abundance entry for z=%d", e.Z)
		}
		if e.A == 0 {
			seenZ[e.Z] = true
		}
	}

	code := generateWrapper(table, embedName)
	formatted, err := imports.Process(out, []byte(code), nil)
	if err != nil {
		_ = os.WriteFile(out+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(out), err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, formatted, 0o644); err != nil {
		return err
	}
	fmt.Printf("generated %s from %s (%d elements, table version %s)\n", out, src, len(table.Elements), table.Version)
	return nil
}

func generateWrapper(table *atomdata.RawElementTable, embedName string) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by cmd/ncmat-gendb from " + embedName + ". DO NOT EDIT.\n\n")
	sb.WriteString("package atomdata\n\n")
	sb.WriteString("import (\n\t_ \"embed\"\n)\n\n")
	sb.WriteString("//go:embed " + embedName + "\n")
	sb.WriteString("var embeddedElementTableYAML []byte\n\n")
	sb.WriteString("// builtinElementCount is the number of entries in the source table at\n")
	sb.WriteString("// generation time (" + strconv.Itoa(len(table.Elements)) + "), checked against the parsed count at init.\n")
	sb.WriteString("const builtinElementCount = " + strconv.Itoa(len(table.Elements)) + "\n\n")
	sb.WriteString("var builtinElements = mustLoadBuiltinElements()\n\n")
	sb.WriteString("func mustLoadBuiltinElements() []AtomData {\n")
	sb.WriteString("\ttable, err := ParseElementTable(embeddedElementTableYAML)\n")
	sb.WriteString("\tif err != nil {\n\t\tpanic(\"atomdata: embedded element table is invalid: \" + err.Error())\n\t}\n")
	sb.WriteString("\tif len(table.Elements) != builtinElementCount {\n")
	sb.WriteString("\t\tpanic(\"atomdata: embedded element table entry count drifted from generation time\")\n\t}\n")
	sb.WriteString("\treturn table.ToAtomData()\n}\n")
	return sb.String()
}
