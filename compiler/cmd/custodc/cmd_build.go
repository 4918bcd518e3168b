package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/var-che/custod-lang-sub000/compiler/internal/build"
	"github.com/var-che/custod-lang-sub000/compiler/internal/cgen"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

var (
	buildOut   string
	buildEmitC bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a program to a native executable via C",
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
		csrc, err := cgen.Emit(prog)
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}

		cPath := strings.TrimSuffix(path, sourceExt) + ".c"
		if err := os.WriteFile(cPath, []byte(csrc), 0o644); err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
		if buildEmitC {
			term.Println("wrote", cPath)
			return
		}

		err = cgen.CompileC(cgen.CCOptions{CSource: cPath, Out: buildOut})
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "executable output path")
	buildCmd.Flags().BoolVar(&buildEmitC, "emit-c", false, "stop after writing the generated C file")
}
