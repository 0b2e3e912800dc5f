package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdfgraph/rdf"
)

func convertCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert one document",
		Long: `Convert reads input (or stdin for "-") and writes output (or stdout
when output is omitted or "-").`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := "-"
			if len(args) == 2 {
				output = args[1]
			}
			return a.convert(args[0], output, from, to)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (detected when omitted)")
	cmd.Flags().StringVar(&to, "to", "", "Output format (from the output extension when omitted)")
	return cmd
}

func (a *app) convert(input, output, from, to string) error {
	g, err := a.read(input, from)
	if err != nil {
		return err
	}
	target, err := resolveFormat(to, output, a.defaultFormat())
	if err != nil {
		return err
	}
	return a.write(g, output, target)
}

// read parses input, detecting the format from the content when neither the
// flag nor the extension names one.
func (a *app) read(input, from string) (*rdf.Graph, error) {
	var r io.Reader
	if input == "-" {
		r = bufio.NewReader(os.Stdin)
	} else {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	format, err := resolveFormat(from, input, "")
	if err != nil {
		detected, replay, ok := rdf.DetectFormat(r)
		if !ok {
			return nil, err
		}
		format, r = detected, replay
	}
	codec, err := a.codec(format)
	if err != nil {
		return nil, err
	}
	g, err := codec.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	a.logger.Info("read graph", "path", input, "format", format, "triples", g.Len())
	return g, nil
}

func (a *app) write(g *rdf.Graph, output string, format rdf.Format) error {
	codec, err := a.codec(format)
	if err != nil {
		return err
	}
	if output == "-" {
		return codec.Serialize(a.stdout, g)
	}
	var buf bytes.Buffer
	if err := codec.Serialize(&buf, g); err != nil {
		return fmt.Errorf("%s: %w", output, err)
	}
	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return err
	}
	a.logger.Info("wrote graph", "path", output, "format", format, "triples", g.Len())
	return nil
}

func batchCmd(a *app) *cobra.Command {
	var pattern, to, outDir string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every file matching a glob pattern",
		Example: `  rdfconv batch --pattern 'data/**/*.ttl' --to rdfxml --out-dir build`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveFormat(to, "", a.defaultFormat())
			if err != nil {
				return err
			}
			return a.batch(pattern, target, outDir)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "**/*.ttl", "Glob pattern (supports **)")
	cmd.Flags().StringVar(&to, "to", "", "Output format")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (next to the input when empty)")
	return cmd
}

func (a *app) batch(pattern string, target rdf.Format, outDir string) error {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("glob error: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no files match pattern: %s", pattern)
	}
	var failed []string
	for _, input := range matches {
		output := outputPath(input, outDir, target)
		if outDir != "" {
			if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
				return err
			}
		}
		if err := a.convert(input, output, "", string(target)); err != nil {
			a.logger.Error("conversion failed", "path", input, "error", err)
			failed = append(failed, input)
		}
	}
	a.logger.Info("batch finished", "files", len(matches), "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %s", len(failed), len(matches), strings.Join(failed, ", "))
	}
	return nil
}

// outputPath swaps the extension of input for the target format's, placing
// the result under outDir when given.
func outputPath(input, outDir string, target rdf.Format) string {
	name := strings.TrimSuffix(input, filepath.Ext(input)) + target.Extension()
	if outDir == "" {
		return name
	}
	return filepath.Join(outDir, filepath.Base(name))
}

func validateCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse documents and report their triple counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, path := range args {
				g, err := a.read(path, from)
				if err != nil {
					invalid++
					fmt.Fprintf(a.stdout, "%s: invalid (%s): %v\n", path, rdf.Code(err), err)
					continue
				}
				fmt.Fprintf(a.stdout, "%s: ok, %d triples, context %s\n", path, g.Len(), g.Context().Value)
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d documents are invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Input format (detected when omitted)")
	return cmd
}

func formatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, format := range rdf.Formats() {
				fmt.Fprintf(a.stdout, "%-9s %-6s %s\n", format, format.Extension(), format.ContentType())
			}
		},
	}
}
