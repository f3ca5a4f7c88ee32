// Command ls-natal casts and draws natal charts in the terminal, as SVG
// or over HTTP.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/version"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	loader   *config.Loader
	settings config.Settings
	log      *logging.Logger
	provider ephem.Provider
}

// annotationLenient marks commands that fall back to the defaults when
// the config file is invalid.
const annotationLenient = "lenient-config"

// flagKeys maps command-line flags to config keys. Flags only override
// the config when set explicitly.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"log-file":     "log_file",
	"ephemeris":    "ephemeris",
	"horizons-url": "horizons_url",
	"date":         "date",
	"lat":          "lat",
	"lon":          "lon",
	"size":         "size",
	"glyphs":       "glyphs",
	"addr":         "server.addr",
	"rate-limit":   "server.rate_limit",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "ls-natal",
		Short:   "Natal chart calculator and renderer",
		Long:    "ls-natal computes Placidus houses, planetary positions, dignities and aspects for a moment and place, and draws the chart wheel.",
		Version: version.Version,
		// TUI on a terminal, help otherwise
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cmd.Help()
			}
			return runTUI(cmd, a)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default "+config.DefaultPath()+")")
	pf.String("env-file", ".env", "dotenv file loaded before the config")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "write logs to a rotated file instead of stderr")
	pf.String("ephemeris", "meeus", "ephemeris source (meeus, horizons, auto)")
	pf.String("horizons-url", "", "JPL Horizons API endpoint")

	root.AddCommand(
		newRenderCmd(a),
		newServeCmd(a),
		newTUICmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads settings and builds the logger and ephemeris provider.
func (a *app) setup(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	a.loader = config.NewLoader(path)

	v := a.loader.Viper()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return bindErr
	}

	s, err := a.loader.Load()
	if err != nil {
		// commands that rewrite the file must still run on a broken one
		if cmd.Annotations[annotationLenient] == "" {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v; using defaults\n", err)
		s = config.Defaults()
	}
	a.settings = s

	level := logging.ParseLevel(s.LogLevel)
	if s.LogFile != "" {
		a.log = logging.NewFile(level, s.LogFile)
	} else {
		a.log = logging.New(level)
	}

	a.provider = ephem.NewProvider(ephem.ParseMode(s.Ephemeris), s.HorizonsURL, a.log.Named("ephem"))
	a.log.Debug("using %s ephemeris, config %s", a.provider.Name(), a.loader.Path())
	return nil
}

// output opens the -o destination, or stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
