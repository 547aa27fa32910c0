// Command annodex compiles annotation graphs into positional token streams
// for a search index.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/annodex/core/cache"
	"github.com/FocuswithJustin/annodex/core/catalog"
	"github.com/FocuswithJustin/annodex/core/codec"
	"github.com/FocuswithJustin/annodex/core/compiler"
	apperrors "github.com/FocuswithJustin/annodex/core/errors"
	"github.com/FocuswithJustin/annodex/core/sqlite"
	"github.com/FocuswithJustin/annodex/internal/batch"
	"github.com/FocuswithJustin/annodex/internal/formats"
	"github.com/FocuswithJustin/annodex/internal/logging"
	"github.com/FocuswithJustin/annodex/internal/metrics"
	"github.com/FocuswithJustin/annodex/internal/sink"
	"github.com/FocuswithJustin/annodex/internal/validation"

	// Register the document input formats.
	_ "github.com/FocuswithJustin/annodex/internal/formats/json"
	_ "github.com/FocuswithJustin/annodex/internal/formats/xml"
)

const version = "0.1.0"

// stdout receives command output. Logs go to stderr.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for annodex.
type CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" help:"Log format (text, json)"`

	Compile CompileCmd   `cmd:"" help:"Compile documents and write the token streams to an index"`
	Catalog CatalogGroup `cmd:"" help:"Layer catalog operations"`
	Digest  DigestCmd    `cmd:"" help:"Print the stream digest of every document"`
	Inspect InspectCmd   `cmd:"" help:"Print the token stream of documents as a table"`
	Version VersionCmd   `cmd:"" help:"Print version information"`
}

// AfterApply configures logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// CatalogGroup contains catalog operations.
type CatalogGroup struct {
	Check CatalogCheckCmd `cmd:"" help:"Validate a catalog file and list its layers and tags"`
}

// InputFlags are shared by commands reading documents.
type InputFlags struct {
	Input   string `arg:"" help:"Document file (.json, .jsonl, .xml, optionally .xz/.zst/.lz4/.gz compressed)" type:"existingfile"`
	Catalog string `short:"c" required:"" env:"ANNODEX_CATALOG" help:"Layer catalog (.yaml or .layers)" type:"existingfile"`
	Format  string `short:"f" help:"Input format, overriding detection by extension"`
	MaxSize int64  `name:"max-size" default:"0" help:"Reject input files larger than this many bytes (0 = 4 GiB)"`
}

func (f *InputFlags) compiler() (*compiler.Compiler, error) {
	cat, err := catalog.Load(f.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return compiler.New(cat, compiler.WithLogger(logging.GetLogger()))
}

func (f *InputFlags) open() (*formats.File, error) {
	if err := validation.ValidateInput(f.Input, f.MaxSize); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}
	src, err := formats.Open(f.Input, f.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return src, nil
}

// CompileCmd compiles an input file into an index.
type CompileCmd struct {
	InputFlags

	Out       string `short:"o" required:"" help:"Output index (.db/.sqlite for SQLite, otherwise JSON lines; .xz/.zst/.lz4/.gz compress)" type:"path"`
	Workers   int    `short:"w" env:"ANNODEX_WORKERS" default:"0" help:"Parallel compilations (0 = GOMAXPROCS)"`
	FailFast  bool   `name:"fail-fast" help:"Stop at the first document that fails to compile"`
	Metrics   string `help:"Write Prometheus metrics to this textfile after the run" type:"path"`
	CacheSize int    `name:"cache-size" default:"0" help:"Reuse results for up to N repeated documents (0 disables)"`
}

func (c *CompileCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	comp, err := c.compiler()
	if err != nil {
		return err
	}
	src, err := c.open()
	if err != nil {
		return err
	}
	defer src.Close()

	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	w, err := sink.Open(ctx, c.Out)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	var m *metrics.Metrics
	if c.Metrics != "" {
		m = metrics.New()
	}
	var streams *cache.Streams
	if c.CacheSize > 0 {
		streams = cache.NewStreams(cache.Config{MaxSize: c.CacheSize})
	}

	rep, runErr := batch.Run(ctx, comp, src, w, batch.Options{
		Workers:  c.Workers,
		FailFast: c.FailFast,
		Metrics:  m,
		Cache:    streams,
	})
	closeErr := w.Close()

	fmt.Fprintf(stdout, "Run: %s\n", rep.RunID)
	fmt.Fprintf(stdout, "  Compiled: %d\n", rep.Compiled)
	fmt.Fprintf(stdout, "  Positions: %d\n", rep.Stats.Positions)
	fmt.Fprintf(stdout, "  Tokens: %d\n", rep.Stats.Tokens())
	fmt.Fprintf(stdout, "  Failed: %d\n", len(rep.Failed))
	for _, f := range rep.Failed {
		fmt.Fprintf(stdout, "    [FAIL] %s (%s): %v\n", f.DocumentID, f.Reason, f.Err)
	}
	fmt.Fprintf(stdout, "  Output: %s\n", c.Out)

	if m != nil {
		if err := m.WriteTextfile(c.Metrics); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	return closeErr
}

// CatalogCheckCmd validates a catalog file.
type CatalogCheckCmd struct {
	Path string `arg:"" help:"Catalog file (.yaml or .layers)" type:"existingfile"`
}

func (c *CatalogCheckCmd) Run() error {
	cat, err := catalog.Load(c.Path)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Catalog: %s\n", c.Path)
	fmt.Fprintf(stdout, "  Base: %s\n", cat.Base)
	fmt.Fprintf(stdout, "  Segment: %s\n", cat.Segment)
	for _, l := range cat.Layers {
		surface := ""
		if l.Surface {
			surface = " (surface)"
		}
		fmt.Fprintf(stdout, "  Layer %s -> %s%s\n", l.Name, l.Tag(), surface)
		for _, f := range l.Features {
			fmt.Fprintf(stdout, "    %s -> %s [%s]\n", f.Name, l.FeatureTag(f.Name), f.Kind)
		}
	}

	if errs := cat.CheckKinds(codec.Default); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(stdout, "  [FAIL] %v\n", err)
		}
		return fmt.Errorf("catalog declares %d unsupported feature kind(s): %w", len(errs), errors.Join(errs...))
	}
	fmt.Fprintln(stdout, "  OK")
	return nil
}

// DigestCmd prints one digest line per document.
type DigestCmd struct {
	InputFlags
}

func (c *DigestCmd) Run() error {
	comp, err := c.compiler()
	if err != nil {
		return err
	}
	src, err := c.open()
	if err != nil {
		return err
	}
	defer src.Close()

	failed := 0
	for {
		doc, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		id := doc.EnsureID()
		s, err := comp.Compile(doc)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "%s\tERROR\t%s\n", id, apperrors.Reason(err))
			logging.DocumentFailed(context.Background(), id, apperrors.Reason(err), err)
			continue
		}
		fmt.Fprintf(stdout, "%s\t%d\t%d\t%s\n", id, s.PositionCount(), s.Len(), s.Digest())
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed to compile", failed)
	}
	return nil
}

// InspectCmd prints compiled streams as tables.
type InspectCmd struct {
	InputFlags

	Prefix   string `short:"p" help:"Only show tokens whose prefix starts with this"`
	Document string `short:"d" help:"Only show the document with this ID"`
}

func (c *InspectCmd) Run() error {
	comp, err := c.compiler()
	if err != nil {
		return err
	}
	src, err := c.open()
	if err != nil {
		return err
	}
	defer src.Close()

	shown := 0
	for {
		doc, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		id := doc.EnsureID()
		if c.Document != "" && id != c.Document {
			continue
		}
		s, err := comp.Compile(doc)
		if err != nil {
			return err
		}
		shown++

		fmt.Fprintf(stdout, "Document: %s (%d positions, %d tokens)\n", id, s.PositionCount(), s.Len())
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "START\tEND\tPREFIX\tPOSTFIX")
		for t := range s.All() {
			if !strings.HasPrefix(t.Prefix, c.Prefix) {
				continue
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%q\n", t.Start, t.End, t.Prefix, t.Postfix)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if c.Document != "" && shown == 0 {
		return apperrors.NewNotFound("document", c.Document)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "annodex version %s\n", version)
	fmt.Fprintf(stdout, "  SQLite driver: %s (%s)\n", info.DriverName, info.DriverType)
	fmt.Fprintf(stdout, "  Input formats: %s\n", strings.Join(formats.Names(), ", "))
	fmt.Fprintf(stdout, "  Feature kinds: %s\n", joinKinds(codec.Default.Kinds()))
	return nil
}

func joinKinds(kinds []codec.Kind) string {
	s := make([]string, len(kinds))
	for i, k := range kinds {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("annodex"),
		kong.Description("Compile annotation graphs into positional token streams"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
