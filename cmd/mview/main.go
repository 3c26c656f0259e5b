package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/TimelordUK/mview/internal/config"
	"github.com/TimelordUK/mview/internal/discover"
	"github.com/TimelordUK/mview/internal/ui"
)

func main() {
	discoverFlag := flag.String("d", "", "Discover log files under a directory and open the first four")
	pollFlag := flag.Int("i", 0, "Poll interval in milliseconds (0 uses config default)")
	followFlag := flag.Bool("f", false, "Start in follow mode")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mview [-d dir] [-i ms] [-f] <file> [file ...]\n")
		fmt.Fprintf(os.Stderr, "  -d\tDiscover log files under directory\n")
		fmt.Fprintf(os.Stderr, "  -i\tPoll interval in milliseconds\n")
		fmt.Fprintf(os.Stderr, "  -f\tStart in follow mode\n")
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *pollFlag > 0 {
		cfg.Watch.PollIntervalMs = *pollFlag
	}
	if *followFlag {
		cfg.Display.Follow = true
	}

	paths := flag.Args()
	if *discoverFlag != "" {
		found := discover.FindLogFiles(*discoverFlag, ui.MaxPanes)
		if len(found) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no log files found under %s\n", *discoverFlag)
			os.Exit(1)
		}
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if os.Getenv("MVIEW_DEBUG") != "" {
		f, err := tea.LogToFile("mview-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	model, err := ui.NewModel(paths, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
