package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform"
	"github.com/goliatone/go-genform/internal/site"
	"github.com/goliatone/go-genform/pkg/formconfig"
	"github.com/goliatone/go-genform/pkg/model"
	pkgopenapi "github.com/goliatone/go-genform/pkg/openapi"
	"github.com/goliatone/go-genform/pkg/orchestrator"
	"github.com/goliatone/go-genform/pkg/render"
	"github.com/goliatone/go-genform/pkg/renderers/tui"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla"
)

type options struct {
	form      string
	file      string
	source    string
	operation string
	list      bool
	renderer  string
	format    string
	preset    string
	data      string
	output    string
	timeout   time.Duration
	logLevel  string
}

func main() {
	var opts options
	flag.StringVar(&opts.form, "form", "basic", "Embedded demo form to render (basic, submit-handler, custom-slots)")
	flag.StringVar(&opts.file, "file", "", "YAML or JSON form definition file")
	flag.StringVar(&opts.source, "source", "", "OpenAPI document path or URL")
	flag.StringVar(&opts.operation, "operation", "", "OpenAPI operation ID to turn into a form")
	flag.BoolVar(&opts.list, "list", false, "List the forms or operations available and exit")
	flag.StringVar(&opts.renderer, "renderer", vanilla.Name, "Renderer to use (vanilla, tui)")
	flag.StringVar(&opts.format, "format", string(tui.OutputFormatJSON), "TUI output format (json, form, pretty)")
	flag.StringVar(&opts.preset, "preset", "", "JSON preset applied to the form before rendering")
	flag.StringVar(&opts.data, "data", "", "JSON object of initial values")
	flag.StringVar(&opts.output, "output", "", "Output file (stdout when empty)")
	flag.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Timeout for loading remote documents")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "Log level")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.SetLevel(level)

	if err := run(opts, logger, os.Stdout); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			logger.Warn("aborted")
			os.Exit(130)
		}
		logger.WithError(err).Error("genform-cli failed")
		os.Exit(1)
	}
}

func run(opts options, logger *logrus.Logger, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	formLoader := formconfig.NewLoader(formconfig.WithLogger(logger))
	registry, err := genform.NewRenderRegistry(tui.WithOutputFormat(tui.OutputFormat(opts.format)))
	if err != nil {
		return err
	}

	orchOptions := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefinitionLoader(formLoader),
		orchestrator.WithLoader(genform.NewLoader(pkgopenapi.WithHTTPClient(&http.Client{Timeout: opts.timeout}))),
		orchestrator.WithImporter(genform.NewImporter(pkgopenapi.WithValidatorRegistry(formLoader.Registry()))),
	}
	if opts.preset != "" {
		raw, err := os.ReadFile(opts.preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(raw)
		if err != nil {
			return err
		}
		orchOptions = append(orchOptions, orchestrator.WithSchemaTransformer(preset))
	}
	gen := genform.NewOrchestrator(orchOptions...)

	req, err := buildRequest(ctx, opts, formLoader, gen, stdout)
	if err != nil || req == nil {
		return err
	}

	output, err := gen.Generate(ctx, *req)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"renderer": req.Renderer, "bytes": len(output)}).Debug("form rendered")

	if opts.output != "" {
		if err := os.WriteFile(opts.output, output, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		logger.WithField("path", opts.output).Info("output written")
		return nil
	}
	_, err = stdout.Write(output)
	return err
}

// buildRequest resolves the form source. A nil request means the command has
// already been served (listing).
func buildRequest(ctx context.Context, opts options, loader *formconfig.Loader, gen *orchestrator.Orchestrator, stdout io.Writer) (*orchestrator.Request, error) {
	req := &orchestrator.Request{Renderer: opts.renderer}

	switch {
	case opts.source != "":
		req.Source = parseSource(opts.source)
		if opts.list || opts.operation == "" {
			loadCtx, cancel := context.WithTimeout(ctx, opts.timeout)
			defer cancel()
			ops, err := gen.Operations(loadCtx, *req)
			if err != nil {
				return nil, err
			}
			return nil, printOperations(stdout, ops)
		}
		req.OperationID = opts.operation
		doc, err := loadDocument(ctx, opts)
		if err != nil {
			return nil, err
		}
		req.Document = &doc
	case opts.file != "":
		raw, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("read definition: %w", err)
		}
		req.Definition = raw
	default:
		forms, err := site.LoadDemoForms(loader, nil)
		if err != nil {
			return nil, err
		}
		if opts.list {
			return nil, printForms(stdout, forms)
		}
		form, ok := forms[opts.form]
		if !ok {
			return nil, fmt.Errorf("unknown demo form %q", opts.form)
		}
		req.Form = &form
	}

	if opts.data != "" {
		values := map[string]any{}
		if err := json.Unmarshal([]byte(opts.data), &values); err != nil {
			return nil, fmt.Errorf("parse -data: %w", err)
		}
		form, err := gen.Form(ctx, *req)
		if err != nil {
			return nil, err
		}
		req.RenderOptions = render.RenderOptions{Data: model.NewFormData(form, values)}
	}
	return req, nil
}

func loadDocument(ctx context.Context, opts options) (pkgopenapi.Document, error) {
	loadCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	loader := genform.NewLoader(pkgopenapi.WithHTTPClient(&http.Client{Timeout: opts.timeout}))
	return loader.Load(loadCtx, parseSource(opts.source))
}

func printOperations(w io.Writer, ops []pkgopenapi.Operation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tMETHOD\tPATH\tSUMMARY")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.ID, op.Method, op.Path, op.Summary)
	}
	return tw.Flush()
}

func printForms(w io.Writer, forms map[string]model.Form) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FORM\tFIELDS\tTITLE")
	for _, route := range site.Routes() {
		form, ok := forms[route.Form]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", form.Name, len(form.Fields), form.Title)
	}
	return tw.Flush()
}

func parseSource(raw string) pkgopenapi.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path)
}
