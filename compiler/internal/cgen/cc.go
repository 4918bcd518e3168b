package cgen

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

type CCOptions struct {
	// CSource is the path to the emitted C file.
	CSource string

	// Out is the desired executable path. If empty, derived from CSource by
	// dropping the extension.
	Out string

	// CCBin is an optional explicit compiler (e.g. "clang", "gcc", "cl").
	// If empty, one is detected per-OS.
	CCBin string

	// ExtraArgs lets callers pass additional flags.
	ExtraArgs []string

	// DryRun validates and returns without invoking the compiler.
	DryRun bool
}

// CompileC compiles an emitted C file into a native executable. The output is
// self-contained, so no runtime library or include path is needed.
func CompileC(opts CCOptions) error {
	if opts.CSource == "" {
		return errors.New("cc: CSource must be set")
	}
	srcAbs, err := filepath.Abs(opts.CSource)
	if err != nil {
		return fmt.Errorf("cc: resolve CSource: %w", err)
	}
	if _, err := os.Stat(srcAbs); err != nil {
		return fmt.Errorf("cc: source does not exist: %s", srcAbs)
	}

	out := opts.Out
	if out == "" {
		out = strings.TrimSuffix(srcAbs, filepath.Ext(srcAbs))
	}
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(out), ".exe") {
		out = out + ".exe"
	}
	outAbs, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("cc: resolve Out: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outAbs), 0o755); err != nil {
		return fmt.Errorf("cc: create out dir: %w", err)
	}

	cc := opts.CCBin
	if cc == "" {
		cc, err = pickCompiler()
		if err != nil {
			return err
		}
	}

	args := constructArgs(cc, srcAbs, outAbs, opts.ExtraArgs)
	if opts.DryRun {
		return nil
	}

	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cc: compilation failed: %w", err)
	}
	return nil
}

func pickCompiler() (string, error) {
	// Allow env override
	if v := os.Getenv("CUSTOD_CC"); v != "" {
		if _, err := exec.LookPath(v); err == nil {
			return v, nil
		}
	}

	if runtime.GOOS == "windows" {
		if hasCmd("clang") {
			return "clang", nil
		}
		if hasCmd("cl") {
			return "cl", nil
		}
		if hasCmd("gcc") {
			return "gcc", nil
		}
		return "", errors.New("cc: no compiler found (tried clang, cl, gcc)")
	}

	// POSIX: prefer clang then gcc
	if hasCmd("clang") {
		return "clang", nil
	}
	if hasCmd("gcc") {
		return "gcc", nil
	}
	// Some systems alias cc -> clang or gcc
	if hasCmd("cc") {
		return "cc", nil
	}
	return "", errors.New("cc: no compiler found (need clang or gcc)")
}

func hasCmd(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func constructArgs(cc, srcAbs, outAbs string, extra []string) []string {
	if strings.EqualFold(cc, "cl") {
		args := []string{"/nologo", srcAbs, "/Fe:" + outAbs}
		return append(args, extra...)
	}
	args := []string{srcAbs, "-o", outAbs}
	return append(args, extra...)
}
