package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"golang.org/x/term"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/reshape/config"
	"github.com/dhamidi/reshape/edit"
	"github.com/dhamidi/reshape/formatter"
)

var log = commonlog.GetLogger("reshape.cli")

// app carries the state shared by all subcommands once the persistent flags are parsed.
type app struct {
	cfg     config.Config
	cfgPath string
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Root().PersistentFlags()
	path, _ := flags.GetString("config")
	verbose, _ := flags.GetCount("verbose")
	colorFlag, _ := flags.GetString("color")

	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color %q: want auto, on or off", colorFlag)
	}

	cfg, found, err := loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg, a.cfgPath = cfg, found

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity+verbose, logFile)

	if found != "" {
		log.Debugf("using config %s", found)
	}
	return nil
}

func loadConfig(path string) (config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		return cfg, path, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("get working directory: %w", err)
	}
	return config.Discover(wd)
}

// runner returns a runner with the configured formatter, if any. The formatter runs in the
// directory of the config file so relative paths in its command resolve against it.
func (a *app) runner() *edit.Runner {
	r := edit.NewRunner(nil)
	if f := formatter.New(a.cfg.Format.Command); f != nil {
		if a.cfgPath != "" {
			f.Dir = filepath.Dir(a.cfgPath)
		}
		r.Formatter = f
	}
	return r
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
