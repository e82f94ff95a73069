package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/btkit/btdiff"
	"github.com/btkit/btdiff/internal/config"
	"github.com/btkit/btdiff/internal/gitsrc"
	"github.com/btkit/btdiff/internal/logging"
	"github.com/btkit/btdiff/internal/presentation/tui"
	"github.com/btkit/btdiff/internal/report"
	"github.com/btkit/btdiff/pkg/domain"
)

var compareCmd = &cobra.Command{
	Use:   "compare <old.xml> <new.xml> | compare --git <old-rev> <new-rev> <path>",
	Short: "Compare two behavior-tree versions",
	Long: `Compares two versions of a behavior-tree document and prints the
classified structural diff. With --git, both versions of a single path are
read from the repository at the given revisions instead of from disk.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Bool("git", false, "Treat arguments as <old-rev> <new-rev> <path>")
	compareCmd.Flags().String("repo", ".", "Repository directory for --git")
	compareCmd.Flags().String("tree", "", "Named tree to compare (defaults to MainTree)")
	compareCmd.Flags().Float64("threshold", 0, "Similarity threshold for move detection")
	compareCmd.Flags().Int("max-depth", 0, "Maximum subtree expansion depth")
	compareCmd.Flags().StringP("format", "f", "report", "Output format: report, json, tree, mermaid")
	compareCmd.Flags().String("html", "", "Also write a standalone HTML report to this path")
}

func runCompare(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	analyzer := btdiff.New(analyzerOptions(opts, verbose)...)

	useGit, _ := cmd.Flags().GetBool("git")

	var res *domain.DiffResult
	var newDoc btdiff.Document
	if useGit {
		if len(args) != 3 {
			return fmt.Errorf("--git requires <old-rev> <new-rev> <path>")
		}
		repo, _ := cmd.Flags().GetString("repo")
		src := gitsrc.New(repo)
		res, err = analyzer.CompareRevisions(cmd.Context(), src, args[2], args[0], args[1])
		if err != nil {
			return err
		}
		text, readErr := src.Read(cmd.Context(), args[2], args[1])
		if readErr == nil {
			newDoc = btdiff.Document{Text: text, Source: fmt.Sprintf("%s@%s", args[2], args[1])}
		}
	} else {
		if len(args) != 2 {
			return fmt.Errorf("compare requires <old.xml> <new.xml>")
		}
		res, err = analyzer.CompareFiles(args[0], args[1])
		if err != nil {
			return err
		}
		if text, readErr := os.ReadFile(args[1]); readErr == nil {
			newDoc = btdiff.Document{Text: text, Source: args[1]}
		}
	}

	if htmlPath, _ := cmd.Flags().GetString("html"); htmlPath != "" {
		if err := writeHTMLReport(htmlPath, analyzer, res, newDoc); err != nil {
			return err
		}
	}

	format, _ := cmd.Flags().GetString("format")
	return printResult(cmd, analyzer, res, newDoc, format)
}

func analyzerOptions(opts config.Options, verbose bool) []btdiff.Option {
	out := []btdiff.Option{
		btdiff.WithLogger(logging.New(logging.FromVerbosity(verbose))),
	}
	if opts.Tree != "" {
		out = append(out, btdiff.WithTree(opts.Tree))
	}
	if opts.SimilarityThreshold > 0 {
		out = append(out, btdiff.WithSimilarityThreshold(opts.SimilarityThreshold))
	}
	if opts.MaxExpansionDepth > 0 {
		out = append(out, btdiff.WithMaxExpansionDepth(opts.MaxExpansionDepth))
	}
	if len(opts.IgnoreAttributes) > 0 {
		out = append(out, btdiff.WithIgnoredAttributes(opts.IgnoreAttributes...))
	}
	return out
}

func printResult(cmd *cobra.Command, analyzer *btdiff.Analyzer, res *domain.DiffResult, newDoc btdiff.Document, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)

	case "tree":
		expanded, err := expandForRendering(analyzer, newDoc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.RenderTree(expanded.Root, res))
		return nil

	case "mermaid":
		expanded, err := expandForRendering(analyzer, newDoc)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.GenerateMermaid(expanded.Root, res))
		return nil

	case "report":
		markdown := report.RenderMarkdown(res)
		if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
			width, _, err := term.GetSize(fd)
			if err != nil || width <= 0 {
				width = 100
			}
			render := tui.NewRenderer(width)
			if out, err := render(markdown); err == nil {
				fmt.Fprint(cmd.OutOrStdout(), out)
				fmt.Fprintln(cmd.OutOrStdout(), tui.FormatSummary(res.Summary))
				return nil
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), markdown)
		return nil

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func expandForRendering(analyzer *btdiff.Analyzer, doc btdiff.Document) (*domain.ExpandedTree, error) {
	if doc.Text == nil {
		return nil, fmt.Errorf("new document unavailable for tree rendering")
	}
	return analyzer.ParseDocument(doc)
}

func writeHTMLReport(path string, analyzer *btdiff.Analyzer, res *domain.DiffResult, newDoc btdiff.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer f.Close()

	data := report.HTMLData{Result: res}
	if expanded, err := expandForRendering(analyzer, newDoc); err == nil {
		data.NewTree = report.RenderTree(expanded.Root, res)
	}
	return report.WriteHTML(f, data)
}
