package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"component-group/internal/scan"
)

var errDiagnostics = errors.New("schema problems found")

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Classify the fields of component group structs in Go source files",
	Long: `Scan parses the given Go source files and reports how every struct's
fields classify: required fields map to their declared component type,
Option[T] fields are optional with payload T. Files may also come from a
groupcheck.toml manifest instead of the argument list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		targets, err := resolveTargets(args)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return errors.New("nothing to scan: pass files or a --manifest")
		}

		var reports []*scan.Report
		dirty := false
		for _, t := range targets {
			log.Debug().Str("file", t.File).Str("type", t.Type).Msg("scanning")
			rep, err := scan.File(t.File)
			if err != nil {
				return err
			}
			if t.Type != "" {
				rep = filterReport(rep, t.Type)
			}
			if viper.GetBool("debug") {
				spew.Fdump(os.Stderr, rep)
			}
			if len(rep.Diagnostics) > 0 {
				dirty = true
			}
			reports = append(reports, rep)
		}

		if viper.GetBool("json") {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(reports); err != nil {
				return err
			}
		} else {
			for _, rep := range reports {
				printReport(cmd, rep)
			}
		}

		if dirty {
			return errDiagnostics
		}
		return nil
	},
}

// target is one file to scan, optionally narrowed to a single struct.
type target struct {
	File string
	Type string
}

// resolveTargets merges positional arguments with the manifest, if any.
// The --type flag narrows positional targets only; manifest entries carry
// their own type filter.
func resolveTargets(args []string) ([]target, error) {
	var targets []target
	for _, a := range args {
		targets = append(targets, target{File: a, Type: viper.GetString("type")})
	}

	if path := viper.GetString("manifest"); path != "" {
		m, err := loadManifest(path)
		if err != nil {
			return nil, err
		}
		for _, g := range m.Groups {
			targets = append(targets, target{File: g.File, Type: g.Type})
		}
	}
	return targets, nil
}

func filterReport(rep *scan.Report, name string) *scan.Report {
	out := &scan.Report{File: rep.File}
	if rec, ok := rep.Record(name); ok {
		out.Records = append(out.Records, rec)
	}
	for _, d := range rep.Diagnostics {
		if d.Record == name {
			out.Diagnostics = append(out.Diagnostics, d)
		}
	}
	return out
}

func printReport(cmd *cobra.Command, rep *scan.Report) {
	w := cmd.OutOrStdout()
	for _, rec := range rep.Records {
		fmt.Fprintf(w, "%s:%d %s\n", rep.File, rec.Line, rec.Name)
		for _, f := range rec.Fields {
			fmt.Fprintf(w, "  %-16s %-13s %s\n", f.Name, f.Class, f.Payload)
		}
	}
	for _, d := range rep.Diagnostics {
		log.Error().Str("file", rep.File).Int("line", d.Line).Str("record", d.Record).Msg(d.Message)
	}
}
