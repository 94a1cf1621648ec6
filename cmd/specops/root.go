package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-spectra/spectrum"
)

// errMismatch is returned by commands whose comparison failed.
var errMismatch = errors.New("specops: spectra differ")

type app struct {
	out        io.Writer
	tolerance  float64
	logLevel   string
	logFormat  string
	recipePath string

	logger *zap.Logger
	recipe Recipe
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}
	env, envErr := loadEnv()

	root := &cobra.Command{
		Use:   "specops",
		Short: "Unit-aware spectrum algebra on synthetic bands",
		Long: `specops crops, splits and recombines, convolves and compares a synthetic
absorption/emission band to exercise the spectrum algebra end to end.

Examples:
  specops units
  specops info --unit nm
  specops crop 2100 2200 cm-1
  specops split 4600 nm
  specops identity`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.Float64Var(&a.tolerance, "tolerance", env.Tolerance, "absolute/relative comparison tolerance")
	flags.StringVar(&a.logLevel, "log-level", env.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", env.LogFormat, "log format (console, json)")
	flags.StringVar(&a.recipePath, "recipe", "", "YAML recipe of the synthetic band (default: built-in CO band)")

	root.AddCommand(
		a.unitsCmd(),
		a.infoCmd(),
		a.cropCmd(),
		a.splitCmd(),
		a.identityCmd(),
		a.slitCmd(),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	logger, err := newLogger(a.logLevel, a.logFormat, logOut)
	if err != nil {
		return err
	}
	a.logger = logger

	a.recipe, err = loadRecipe(a.recipePath)
	if err != nil {
		return err
	}
	a.logger.Debug("recipe",
		zap.String("name", a.recipe.Name),
		zap.String("unit", a.recipe.Unit),
		zap.Int("points", a.recipe.Points),
		zap.Float64("tolerance", a.tolerance),
	)
	return nil
}

// band builds a fresh copy of the recipe spectrum.
func (a *app) band() (*spectrum.Spectrum, error) {
	return a.recipe.Build()
}
