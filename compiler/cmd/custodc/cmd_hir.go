package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/var-che/custod-lang-sub000/compiler/internal/build"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

var (
	hirShowAliases bool
	hirShowMIR     bool
)

var hirCmd = &cobra.Command{
	Use:   "hir <file>",
	Short: "Inspect a program's lowered form and alias history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		cfg, err := build.LoadConfig(filepath.Dir(path))
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
		applyColor(cfg)

		res, err := build.CheckFile(path)
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
		if !res.Clean() {
			term.Eprintf("%s", res.Diagnostics(cfg))
		}

		if hirShowAliases {
			term.Printf("%s", res.Checker.Table().Visualize())
		}
		if hirShowMIR || !hirShowAliases {
			prog, err := res.Lower()
			if err != nil {
				term.Eprintln("error:", err)
				os.Exit(1)
			}
			term.Printf("%s", prog.Dump())
		}
	},
}

func init() {
	hirCmd.Flags().BoolVar(&hirShowAliases, "aliases", false, "print the alias table access history")
	hirCmd.Flags().BoolVar(&hirShowMIR, "mir", false, "print the MIR instruction stream")
}
