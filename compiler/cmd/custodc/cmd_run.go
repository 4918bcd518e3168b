package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/var-che/custod-lang-sub000/compiler/internal/build"
	"github.com/var-che/custod-lang-sub000/compiler/internal/interp"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Check a program and interpret it",
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
			os.Exit(1)
		}

		prog, err := res.Lower()
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
		m := interp.New(os.Stdout)
		if err := m.Run(prog); err != nil {
			term.Eprintln("runtime error:", err)
			os.Exit(1)
		}
	},
}
