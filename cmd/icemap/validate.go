package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/ice-climatology-map/internal/domain"
	"github.com/couchcryptid/ice-climatology-map/internal/pipeline"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd(flags *globalFlags) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every expected shapefile exists, decodes, and carries known codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modes, err := parseModes(mode)
			if err != nil {
				return err
			}
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck // best-effort flush

			if !runValidate(cmd.Context(), cmd.OutOrStdout(), a.dispatcher.Layout(), a.source, modes) {
				return errors.New("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "all", "combined, individual, or all")
	return cmd
}

// validationTarget is one shapefile and the variables it must carry.
type validationTarget struct {
	path string
	mode domain.Mode
	vars []domain.Variable
}

func validationTargets(layout domain.Layout, modes []domain.Mode) []validationTarget {
	var targets []validationTarget
	for _, m := range modes {
		for _, d := range domain.DateIDs() {
			if m == domain.ModeCombined {
				sel := domain.Selection{Mode: m, Variable: domain.CTMed, Date: d}
				targets = append(targets, validationTarget{path: layout.ShapefilePath(sel), mode: m, vars: domain.Variables})
				continue
			}
			for _, v := range domain.Variables {
				sel := domain.Selection{Mode: m, Variable: v, Date: d}
				targets = append(targets, validationTarget{path: layout.ShapefilePath(sel), mode: m, vars: []domain.Variable{v}})
			}
		}
	}
	return targets
}

// runValidate prints a PASS/FAIL report and returns whether every phase passed.
func runValidate(ctx context.Context, out io.Writer, layout domain.Layout, source pipeline.FeatureSource, modes []domain.Mode) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	targets := validationTargets(layout, modes)

	fmt.Fprintln(out, "=== Ice Climatology Dataset Validation ===")
	fmt.Fprintf(out, "Data dir: %s\n\n", layout.DataDir)

	present := &phase{name: "Shapefiles present"}
	columns := &phase{name: "Attribute columns"}
	codes := &phase{name: "Attribute codes (strict)"}

	features := 0
	for _, t := range targets {
		if ctx.Err() != nil {
			present.errorf("interrupted: %v", ctx.Err())
			break
		}
		if _, err := os.Stat(t.path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				present.errorf("%s: missing", t.path)
			} else {
				present.errorf("%s: %v", t.path, err)
			}
			continue
		}

		fc, err := source.Load(ctx, t.path)
		if err != nil {
			present.errorf("%s: %v", t.path, err)
			continue
		}
		features += fc.Len()

		missing := false
		for _, v := range t.vars {
			if !fc.HasColumn(v.Column()) {
				columns.errorf("%s: missing column %q", t.path, v.Column())
				missing = true
			}
		}
		if missing {
			continue
		}

		for _, v := range t.vars {
			if _, err := domain.Preprocess(fc, t.mode, v, domain.Strict); err != nil {
				codes.errorf("%s: %v", t.path, err)
				break
			}
		}
	}

	phases := []*phase{present, columns, codes}
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintf(out, "\nShapefiles: %d expected, %d features decoded\n", len(targets), features)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return true
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return false
}
