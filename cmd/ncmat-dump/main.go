// ncmat-dump parses a material description file and a configuration
// string, and prints the resulting Material Info summary.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/cfgstr"
	"github.com/ncrystal-go/ncmat/pkg/matfmt"
	"github.com/ncrystal-go/ncmat/pkg/matinfo"
	"github.com/ncrystal-go/ncmat/pkg/ncerr"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
	"github.com/ncrystal-go/ncmat/pkg/tracelog"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitParseError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ncmat-dump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log operational detail to stderr")
	cfgStr := fs.String("cfg", "", "configuration string extras appended after the file path (e.g. \"temp=300K;packfact=0.95\")")
	if err := fs.Parse(args); err != nil {
		return exitCommandError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: ncmat-dump [-v] [-cfg key=value;...] <file.ncmat>")
		return exitCommandError
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	trace := tracelog.FromEnv()

	source := fs.Arg(0)
	cfgStringFull := source
	if *cfgStr != "" {
		cfgStringFull = source + ";" + *cfgStr
	}

	mi, err := dump(cfgStringFull, logger, trace)
	if err != nil {
		logger.Error("failed to build material info", "error", err, "kind", ncerr.KindOf(err).String())
		return exitParseError
	}
	printSummary(stdout, mi)
	return exitSuccess
}

func dump(cfgString string, logger *slog.Logger, trace tracelog.Logger) (*matinfo.MaterialInfo, error) {
	cfg, err := cfgstr.Parse(cfgString)
	if err != nil {
		return nil, err
	}

	stream, err := textinput.CreateStream(cfg.SourceName())
	if err != nil {
		return nil, err
	}
	content := strings.Join(textinput.ReadAll(stream), "\n")
	if err := cfgstr.ApplyEmbeddedConfig(cfg, content); err != nil {
		return nil, err
	}

	if err := cfg.CheckConsistency(); err != nil {
		return nil, err
	}
	logger.Info("resolved configuration", "source", cfg.SourceName())

	traceID := uuid.NewString()
	raw, err := matfmt.ParseAndValidate(textinput.NewBufferStream(stream.Description(), content))
	if err != nil {
		return nil, err
	}
	trace.Log(tracelog.Event{TraceID: traceID, Kind: tracelog.KindRawDataParsed, Subject: cfg.SourceName(), Detail: "parsed raw material data"})

	b := matinfo.NewBuilder().WithTrace(trace, traceID)
	if err := b.LoadRaw(raw, cfg); err != nil {
		return nil, err
	}
	mi := b.Seal()
	trace.Log(tracelog.Event{TraceID: traceID, Kind: tracelog.KindMaterialInfoSealed, Subject: cfg.SourceName(), Detail: fmt.Sprintf("unique_id=%d", mi.UniqueID())})
	return mi, nil
}

func printSummary(w io.Writer, mi *matinfo.MaterialInfo) {
	fmt.Fprintf(w, "unique_id: %d\n", mi.UniqueID())
	if si := mi.StructureInfo(); si != nil {
		fmt.Fprintf(w, "space_group: %d\n", si.SpaceGroup)
		fmt.Fprintf(w, "cell: a=%.5f b=%.5f c=%.5f alpha=%.3f beta=%.3f gamma=%.3f volume=%.5f\n",
			si.A, si.B, si.C, si.Alpha, si.Beta, si.Gamma, si.Volume)
	}
	fmt.Fprintf(w, "temperature: %.3f K\n", mi.Temperature())
	fmt.Fprintf(w, "density: %.5f g/cm3 (%.6f atoms/Aa3)\n", mi.Density(), mi.NumberDensity())
	fmt.Fprintln(w, "atoms:")
	for _, e := range mi.AtomList() {
		fmt.Fprintf(w, "  %-6s n=%-3d debye_temp=%.2fK %s\n",
			e.Atom.DisplayLabel, e.NumberPerUnitCell, e.DebyeTemp, atomdata.Describe(e.Atom.Data))
	}
	fmt.Fprintln(w, "dyninfo:")
	for _, d := range mi.DynInfoList() {
		fmt.Fprintf(w, "  %-6s fraction=%.4f type=%s\n", d.Atom.DisplayLabel, d.Fraction, d.Kind)
	}
}
