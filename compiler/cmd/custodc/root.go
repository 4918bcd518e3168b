package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/var-che/custod-lang-sub000/compiler/internal/build"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
	"github.com/var-che/custod-lang-sub000/compiler/internal/version"
)

var colorMode string

var rootCmd = &cobra.Command{
	Use:              "custodc",
	Short:            "custodc - permission-checking compiler for the custod language",
	TraverseChildren: true,
	SilenceUsage:     true,
	SilenceErrors:    true,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// `custodc file.custod ...` behaves like the check subcommand.
		checkCmd.Run(checkCmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the compiler version",
	Run: func(cmd *cobra.Command, args []string) {
		term.Println(version.String())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "diagnostic coloring: auto, always or never")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(hirCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// applyColor resolves the effective color mode: the flag wins over the
// project config, which defaults to auto (fatih/color's own tty detection).
func applyColor(cfg build.Config) {
	mode := cfg.Color
	if colorMode != "" {
		mode = colorMode
	}
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
}
