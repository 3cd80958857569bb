package main

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/datatypes/pkg/compression"
	"github.com/ajitpratap0/datatypes/pkg/config"
	"github.com/ajitpratap0/datatypes/pkg/exporter"
	"github.com/ajitpratap0/datatypes/pkg/formats"
	"github.com/ajitpratap0/datatypes/pkg/harness"
	"github.com/ajitpratap0/datatypes/pkg/sink"
	"github.com/ajitpratap0/datatypes/pkg/table/check"
	"github.com/ajitpratap0/datatypes/pkg/table/convert"
	"github.com/ajitpratap0/datatypes/pkg/table/examples"
	"github.com/ajitpratap0/datatypes/pkg/table/mtype"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "datatypes v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *app) mtypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mtypes",
		Short: "List registered mtypes",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := mtype.Register()
			if a.output == "json" {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "MTYPE\tSCITYPE\tLABELS\tUNIVARIATE\tDESCRIPTION")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%s\n",
					info.MType, info.SciType, info.KeepsLabels, info.Univariate, info.Description)
			}
			return tw.Flush()
		},
	}
}

type keyEntry struct {
	Key           string             `json:"key"`
	MType         mtype.MType        `json:"mtype"`
	SciType       mtype.SciType      `json:"scitype"`
	Index         int                `json:"index"`
	Representable bool               `json:"representable"`
	Lossiness     examples.Lossiness `json:"lossiness"`
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered examples and their lossiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []keyEntry
			for _, k := range examples.Keys() {
				ex, _ := examples.Get(k)
				flag, _ := examples.LossyFlag(k)
				entries = append(entries, keyEntry{
					Key:           k.String(),
					MType:         k.MType,
					SciType:       k.SciType,
					Index:         k.Index,
					Representable: ex.Representable(),
					Lossiness:     flag,
				})
			}
			if a.output == "json" {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "SCITYPE\tINDEX\tMTYPE\tLOSSINESS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.SciType, e.Index, e.MType, e.Lossiness)
			}
			return tw.Flush()
		},
	}
}

// parseKey reads <mtype> <index> arguments
func parseKey(scitype string, args []string) (examples.Key, error) {
	m, err := mtype.Parse(args[0])
	if err != nil {
		return examples.Key{}, err
	}
	s, err := mtype.ParseSciType(scitype)
	if err != nil {
		return examples.Key{}, err
	}
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return examples.Key{}, fmt.Errorf("invalid index %q: %w", args[1], err)
	}
	return examples.Key{MType: m, SciType: s, Index: index}, nil
}

func (a *app) showCmd() *cobra.Command {
	var scitype string
	cmd := &cobra.Command{
		Use:   "show <mtype> <index>",
		Short: "Print a registered example",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKey(scitype, args)
			if err != nil {
				return err
			}
			data, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(data)

			flag, _ := examples.LossyFlag(k)
			if a.output == "json" {
				obj, err := newObjectJSON(k.MType, data)
				if err != nil {
					return err
				}
				obj.Lossiness = &flag
				return writeJSON(cmd.OutOrStdout(), obj)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", k, flag)
			return renderObject(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVar(&scitype, "scitype", string(mtype.SciTypeTable), "Scientific type of the example")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	var scitype string
	cmd := &cobra.Command{
		Use:   "check <mtype> <index>",
		Short: "Check a registered example against its mtype and print its metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKey(scitype, args)
			if err != nil {
				return err
			}
			data, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(data)

			meta, err := check.Check(data, k.MType)
			if err != nil {
				return err
			}
			if a.output == "json" {
				return writeJSON(cmd.OutOrStdout(), meta)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(tw, "mtype\t%s\n", meta.MType)
			fmt.Fprintf(tw, "is_univariate\t%t\n", meta.IsUnivariate)
			fmt.Fprintf(tw, "is_empty\t%t\n", meta.IsEmpty)
			fmt.Fprintf(tw, "has_nans\t%t\n", meta.HasNaNs)
			fmt.Fprintf(tw, "n_instances\t%d\n", meta.NumInstances)
			fmt.Fprintf(tw, "n_features\t%d\n", meta.NumFeatures)
			if meta.FeatureNames != nil {
				fmt.Fprintf(tw, "feature_names\t%s\n", strings.Join(meta.FeatureNames, ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&scitype, "scitype", string(mtype.SciTypeTable), "Scientific type of the example")
	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	var scitype string
	cmd := &cobra.Command{
		Use:   "convert <from-mtype> <to-mtype> <index>",
		Short: "Convert a registered example to another mtype",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKey(scitype, []string{args[0], args[2]})
			if err != nil {
				return err
			}
			to, err := mtype.Parse(args[1])
			if err != nil {
				return err
			}
			data, err := examples.Lookup(k)
			if err != nil {
				return err
			}
			defer convert.Release(data)

			out, err := convert.Convert(data, k.MType, to)
			if err != nil {
				return err
			}
			defer convert.Release(out)

			if a.output == "json" {
				obj, err := newObjectJSON(to, out)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), obj)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", k, to)
			return renderObject(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&scitype, "scitype", string(mtype.SciTypeTable), "Scientific type of the example")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var (
		workers  int
		failFast bool
		kinds    []string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run every example through the checks and conversions",
		Long: `verify runs the conversion harness: every example must pass its mtype check,
lossless examples must convert exactly to each other mtype's example, round
trips through lossy mtypes must lose information and absence markers must
never hold data. The command fails when any case fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hcfg := a.cfg.Harness
			if cmd.Flags().Changed("workers") {
				hcfg.Workers = workers
			}
			if cmd.Flags().Changed("fail-fast") {
				hcfg.FailFast = failFast
			}
			if len(kinds) > 0 {
				hcfg.Kinds = nil
				for _, k := range kinds {
					hcfg.Kinds = append(hcfg.Kinds, harness.Kind(k))
				}
			}

			report, runErr := harness.New(hcfg).Run(cmd.Context())
			if a.output == "json" {
				if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
					return err
				}
			} else {
				renderReport(cmd.OutOrStdout(), report)
			}

			if runErr != nil {
				return runErr
			}
			if !report.OK() {
				return fmt.Errorf("%d of %d cases failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of cases run concurrently")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop after the first failing case")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Only run these case kinds (check, conversion, lossiness, roundtrip, absent)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var dest, format, algo string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every example to files",
		Long: `export writes one file per example index, in the configured format and
compression, plus a manifest.json. The destination may be a directory,
a file:// URL, s3://bucket/prefix or gs://bucket/prefix.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ecfg := a.cfg.Export
			if dest != "" {
				ecfg.Destination = dest
			}
			if format != "" {
				f, err := formats.ParseFormat(format)
				if err != nil {
					return err
				}
				ecfg.Format = f
			}
			if algo != "" {
				c, err := compression.ParseAlgorithm(algo)
				if err != nil {
					return err
				}
				ecfg.Compression = c
			}

			s, err := sink.Open(cmd.Context(), ecfg.Destination, ecfg.Sink)
			if err != nil {
				return err
			}
			defer s.Close()

			exp, err := exporter.New(ecfg.Config, s)
			if err != nil {
				return err
			}
			manifest, err := exp.Export(cmd.Context())
			if err != nil {
				return err
			}

			if a.output == "json" {
				return writeJSON(cmd.OutOrStdout(), manifest)
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FILE\tSOURCE\tROWS\tBYTES")
			for _, f := range manifest.Files {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", f.Location, f.Source, f.Rows, f.Bytes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination directory or URL; overrides export.destination")
	cmd.Flags().StringVarP(&format, "format", "f", "", "File format (parquet, arrow, avro, csv, json)")
	cmd.Flags().StringVar(&algo, "compression", "", "File compression (none, gzip, snappy, lz4, zstd, s2, deflate)")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "datatypes.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := config.Save(path, config.NewConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
