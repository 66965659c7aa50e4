//go:build stave

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/thresh"
	mainPkg = "./cmd/thresh"
)

var Default = All

var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"c": Clean,
}

// All lints, tests and builds.
func All() error {
	st.SerialDeps(Check, Build)
	return nil
}

// Check runs go vet, golangci-lint and the race-enabled test suite.
func Check() error {
	st.Deps(Vet, Lint, Test)
	return nil
}

// Build compiles bin/thresh when any Go source or go.mod changed.
func Build() error {
	rebuild, err := target.Glob(binary, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Println(binary, "is up to date")
		}
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Install puts thresh in GOBIN with version information.
func Install() error {
	return sh.RunV(st.GoCmd(), "install", "-ldflags", ldflags(), mainPkg)
}

// ldflags stamps version, commit and build date into cmd/thresh.
func ldflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")

	vars := map[string]string{
		"main.version": strings.TrimSpace(version),
		"main.commit":  strings.TrimSpace(commit),
		"main.date":    time.Now().UTC().Format(time.RFC3339),
	}
	flags := make([]string, 0, len(vars))
	for name, value := range vars {
		if value == "" {
			continue
		}
		flags = append(flags, fmt.Sprintf("-X %s=%s", name, value))
	}
	return strings.Join(flags, " ")
}

// Test runs every package with the race detector. ONNX tests run only when
// THRESH_MODEL_PATH points at a model.
func Test() error {
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

// Demo runs thresh against the bundled sample data.
type Demo st.Namespace

// Sanity prints the three MCC reference reports.
func (Demo) Sanity() error {
	st.Deps(Build)
	return sh.RunV(binary, "sanity")
}

// Sweep sweeps the iris sample scores. With THRESH_MODEL set, the iris
// features are scored by that ONNX model first.
func (Demo) Sweep() error {
	st.Deps(Build)
	if model := os.Getenv("THRESH_MODEL"); model != "" {
		return sh.RunV(binary, "sweep", "testdata/iris_features.csv", "--model", model)
	}
	return sh.RunV(binary, "sweep", "testdata/iris_scores.csv", "--min-recall", "0.9")
}

// Spread summarizes accuracy across the per-seed prediction files.
func (Demo) Spread() error {
	st.Deps(Build)
	return sh.RunV(binary, "spread", "testdata/seeds", "--metric", "accuracy")
}
