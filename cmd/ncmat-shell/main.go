// ncmat-shell is an interactive command-line shell for resolving
// configuration strings and inspecting the resulting material data
// without re-invoking a one-shot CLI for every trial.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ncrystal-go/ncmat/pkg/atomdata"
	"github.com/ncrystal-go/ncmat/pkg/cfgstr"
	"github.com/ncrystal-go/ncmat/pkg/matfmt"
	"github.com/ncrystal-go/ncmat/pkg/matinfo"
	"github.com/ncrystal-go/ncmat/pkg/textinput"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Shell holds the currently loaded material and drives the readline loop.
type Shell struct {
	rl      *readline.Instance
	current *matinfo.MaterialInfo
	cfg     *cfgstr.Configuration
}

func run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ncmat> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     historyFilePath(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	s := &Shell{rl: rl}
	s.Run()
	return nil
}

func historyFilePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.ncmat_shell_history"
	}
	return ""
}

func (s *Shell) Run() {
	defer s.rl.Close()
	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "bye")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()
		case "load", "l":
			s.cmdLoad(args)
		case "show", "s":
			s.cmdShow()
		case "atoms", "a":
			s.cmdAtoms()
		case "cfg":
			s.cmdCfg()
		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "bye")
			return
		default:
			fmt.Fprintf(s.rl.Stderr(), "unknown command %q, type \"help\"\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `commands:
  load <cfgstring>   parse and resolve a configuration string
  show                print a summary of the loaded material
  atoms               list resolved atom roles and display labels
  cfg                  print the loaded configuration's canonical string form
  help                 show this text
  quit                 exit the shell`)
}

func (s *Shell) cmdLoad(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.rl.Stderr(), "usage: load <cfgstring>")
		return
	}
	cfgString := strings.Join(args, " ")
	cfg, err := cfgstr.Parse(cfgString)
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "parse error: %v\n", err)
		return
	}

	stream, err := textinput.CreateStream(cfg.SourceName())
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "resolve error: %v\n", err)
		return
	}
	content := strings.Join(textinput.ReadAll(stream), "\n")
	if err := cfgstr.ApplyEmbeddedConfig(cfg, content); err != nil {
		fmt.Fprintf(s.rl.Stderr(), "embedded config error: %v\n", err)
		return
	}

	if err := cfg.CheckConsistency(); err != nil {
		fmt.Fprintf(s.rl.Stderr(), "consistency error: %v\n", err)
		return
	}
	raw, err := matfmt.ParseAndValidate(textinput.NewBufferStream(stream.Description(), content))
	if err != nil {
		fmt.Fprintf(s.rl.Stderr(), "format error: %v\n", err)
		return
	}
	b := matinfo.NewBuilder()
	if err := b.LoadRaw(raw, cfg); err != nil {
		fmt.Fprintf(s.rl.Stderr(), "build error: %v\n", err)
		return
	}
	s.current = b.Seal()
	s.cfg = cfg
	fmt.Fprintf(s.rl.Stdout(), "loaded %s (unique_id=%d)\n", cfg.SourceName(), s.current.UniqueID())
}

func (s *Shell) cmdShow() {
	if s.current == nil {
		fmt.Fprintln(s.rl.Stderr(), "nothing loaded, use \"load\"")
		return
	}
	mi := s.current
	fmt.Fprintf(s.rl.Stdout(), "temperature: %.3f K\n", mi.Temperature())
	fmt.Fprintf(s.rl.Stdout(), "density: %.5f g/cm3\n", mi.Density())
	if si := mi.StructureInfo(); si != nil {
		fmt.Fprintf(s.rl.Stdout(), "space_group: %d volume: %.5f\n", si.SpaceGroup, si.Volume)
	}
}

func (s *Shell) cmdAtoms() {
	if s.current == nil {
		fmt.Fprintln(s.rl.Stderr(), "nothing loaded, use \"load\"")
		return
	}
	for _, e := range s.current.AtomRegistry() {
		fmt.Fprintf(s.rl.Stdout(), "  %-6s %s\n", e.DisplayLabel, atomdata.Describe(e.Data))
	}
}

func (s *Shell) cmdCfg() {
	if s.cfg == nil {
		fmt.Fprintln(s.rl.Stderr(), "nothing loaded, use \"load\"")
		return
	}
	fmt.Fprintln(s.rl.Stdout(), s.cfg.ToStrCfg())
}
