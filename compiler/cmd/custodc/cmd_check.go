package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/var-che/custod-lang-sub000/compiler/internal/build"
	"github.com/var-che/custod-lang-sub000/compiler/internal/term"
)

const sourceExt = ".custod"

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Run the permission checker over files or directories",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			term.Eprintln("error: provide file or directory paths")
			os.Exit(1)
		}

		files, err := collectSources(args)
		if err != nil {
			term.Eprintln("error:", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			term.Eprintln("error: no", sourceExt, "files found")
			os.Exit(1)
		}

		var bar *progressbar.ProgressBar
		if len(files) > 1 {
			bar = progressbar.NewOptions(len(files),
				progressbar.OptionSetDescription("checking"),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}))
		}

		failed := 0
		for _, f := range files {
			if checkOne(f) > 0 {
				failed++
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if bar != nil {
			term.Eprintln()
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

// checkOne checks a single file and prints its diagnostics; returns the
// number of permission errors.
func checkOne(path string) int {
	cfg, err := build.LoadConfig(filepath.Dir(path))
	if err != nil {
		term.Eprintln("error:", err)
		return 1
	}
	applyColor(cfg)

	res, err := build.CheckFile(path)
	if err != nil {
		term.Eprintln("error:", err)
		return 1
	}
	if !res.Clean() {
		term.Eprintf("%s", res.Diagnostics(cfg))
	}
	if cfg.AliasDump != "" {
		if err := os.WriteFile(cfg.AliasDump, []byte(res.Checker.Table().Visualize()), 0o644); err != nil {
			term.Eprintln("error: write alias dump:", err)
		}
	}
	return len(res.Errors)
}

// collectSources expands directories into their .custod files, recursively.
func collectSources(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.Walk(p, func(fp string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && strings.HasSuffix(fp, sourceExt) {
				files = append(files, fp)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
