package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"weft/internal/diag"
	"weft/internal/driver"
	"weft/internal/source"
	"weft/internal/ui"
)

const cacheAppName = "weft"

var (
	resolveJobs    int
	resolveNoCache bool
)

func init() {
	resolveCmd.Flags().IntVar(&resolveJobs, "jobs", 0, "fixtures resolved in parallel (0 = GOMAXPROCS)")
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false, "ignore cached fixture outcomes")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [fixtures...]",
	Short: "Resolve fixture object graphs into typed IR",
	Long: `Resolve loads fixture files, deduplicates the instance shapes they
declare, and lowers their operations into typed IR, reporting every
resolution diagnostic. Without arguments the fixtures directory comes
from weft.toml.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyColorMode(cmd)
		maxDiagnostics, _ := cmd.Flags().GetInt("max-diagnostics")
		quiet, _ := cmd.Flags().GetBool("quiet")

		jobs := resolveJobs
		noCache := resolveNoCache

		paths := args
		if len(paths) == 0 {
			manifest, ok, err := loadProjectManifest(".")
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(noWeftTomlMessage)
			}
			if paths, err = listFixtureFiles(filepath.Join(manifest.Root, manifest.Config.Fixtures.Dir)); err != nil {
				return err
			}
			// Manifest defaults apply where the flag was not given.
			if !cmd.Flags().Changed("jobs") {
				jobs = manifest.Config.Resolve.Jobs
			}
			if !cmd.Flags().Changed("no-cache") {
				noCache = manifest.Config.Cache.Disabled
			}
		}
		if len(paths) == 0 {
			return errors.New("no fixture files to resolve")
		}

		fileSet, _, results, err := driver.ResolveFixtures(cmd.Context(), paths, driver.Options{
			Jobs:           jobs,
			MaxDiagnostics: maxDiagnostics,
			NoCache:        noCache,
			CacheApp:       cacheAppName,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !quiet {
			fmt.Fprint(out, ui.RenderSummary("weft resolve", results))
		}

		broken := 0
		for _, r := range results {
			if r.Bag == nil || r.Bag.Len() == 0 {
				continue
			}
			if r.Bag.HasErrors() {
				broken++
			}
			r.Bag.Sort()
			r.Bag.Dedup()
			printDiagnostics(out, fileSet, r.Path, r.Bag)
		}
		if broken > 0 {
			return fmt.Errorf("%d fixture(s) failed to resolve", broken)
		}
		return nil
	},
}

func printDiagnostics(out io.Writer, fileSet *source.FileSet, path string, bag *diag.Bag) {
	errColor := color.New(color.FgRed, color.Bold)
	warnColor := color.New(color.FgYellow, color.Bold)
	noteColor := color.New(color.FgCyan)

	for _, d := range bag.Items() {
		start, _ := fileSet.Resolve(d.Primary)
		label := errColor.Sprint(d.Code.ID())
		if d.Severity < diag.SevError {
			label = warnColor.Sprint(d.Code.ID())
		}
		fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, label, d.Message)
		for _, n := range d.Notes {
			fmt.Fprintf(out, "  %s %s\n", noteColor.Sprint("note:"), n.Msg)
		}
	}
}
