// Command constraintcheck validates submitted values against
// declared forms and prints a report.
//
// Exit status is 0 when every form is valid, 1 when at least one
// form is invalid and 2 on usage or setup errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"digital.vasic.constraints/pkg/binding"
	"digital.vasic.constraints/pkg/config"
	"digital.vasic.constraints/pkg/form"
	"digital.vasic.constraints/pkg/logging"
	"digital.vasic.constraints/pkg/metrics"
	"digital.vasic.constraints/pkg/monitor"
	"digital.vasic.constraints/pkg/plugin"
	"digital.vasic.constraints/pkg/remote"
	"digital.vasic.constraints/pkg/report"
	"digital.vasic.constraints/pkg/rule"

	"gopkg.in/yaml.v3"
)

const (
	exitValid   = 0
	exitInvalid = 1
	exitError   = 2
)

var errUsage = errors.New("usage")

type options struct {
	decl      string
	formName  string
	openapi   string
	operation string
	values    string
	format    string
	envFile   string
	history   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("constraintcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.decl, "decl", "", "form declaration file (YAML or JSON)")
	fs.StringVar(&o.formName, "form", "", "validate only this form")
	fs.StringVar(&o.openapi, "openapi", "", "OpenAPI document to derive a form from")
	fs.StringVar(&o.operation, "operation", "", "operation ID of the OpenAPI request body")
	fs.StringVar(&o.values, "values", "", "submitted values file (YAML or JSON map)")
	fs.StringVar(&o.format, "format", "markdown", "report format: json, markdown or html")
	fs.StringVar(&o.envFile, "env", "", ".env file to load")
	fs.StringVar(&o.history, "history", "", "append a JSON line per form to this file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.decl == "" && o.openapi == "" {
		return o, fmt.Errorf("%w: one of -decl or -openapi is required", errUsage)
	}
	if o.openapi != "" && o.operation == "" {
		return o, fmt.Errorf("%w: -openapi requires -operation", errUsage)
	}
	if reporterFor(o.format) == nil {
		return o, fmt.Errorf("%w: unknown format %q", errUsage, o.format)
	}
	return o, nil
}

func reporterFor(format string) report.Reporter {
	switch format {
	case "json":
		return report.NewJSONReporter(true)
	case "markdown":
		return report.NewMarkdownReporter()
	case "html":
		return report.NewHTMLReporter()
	default:
		return nil
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitError
	}

	var envFiles []string
	if o.envFile != "" {
		envFiles = append(envFiles, o.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer func() { _ = logger.Close() }()

	reports, err := validate(ctx, o, cfg, logger)
	if err != nil {
		logger.Error("validation failed", logging.ErrorField(err))
		return exitError
	}

	reporter := reporterFor(o.format)
	for _, r := range reports {
		if err := reporter.WriteReport(stdout, r); err != nil {
			logger.Error("write report", logging.ErrorField(err))
			return exitError
		}
		fmt.Fprintln(stdout)
		if o.history != "" {
			if err := report.AppendToHistory(o.history, r); err != nil {
				logger.Warn("append history", logging.ErrorField(err))
			}
		}
	}

	for _, r := range reports {
		if !r.Valid() {
			return exitInvalid
		}
	}
	return exitValid
}

func validate(
	ctx context.Context,
	o options,
	cfg config.Config,
	logger logging.Logger,
) ([]*report.Report, error) {
	reg := rule.NewRegistry()
	closeRules, err := loadPlugins(ctx, cfg, reg, logger)
	if err != nil {
		return nil, err
	}
	defer closeRules()

	decls, err := loadDeclarations(ctx, o)
	if err != nil {
		return nil, err
	}
	sub, err := loadValues(o.values)
	if err != nil {
		return nil, err
	}

	var collector *monitor.Collector
	if cfg.MonitorAddr != "" {
		collector = monitor.NewCollector()
		srv := monitor.NewServer(
			cfg.MonitorAddr, collector, monitor.NewDashboard(), logger,
		)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("monitor stopped", logging.ErrorField(err))
			}
		}()
		defer func() {
			stopCtx, cancel := context.WithTimeout(
				context.Background(), 5*time.Second,
			)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	formOpts := []form.Option{form.WithConcurrency(cfg.Concurrency)}
	if cfg.FailFast {
		formOpts = append(formOpts, form.WithFailFast())
	}
	counters := metrics.NewCounterMetrics()

	reports := make([]*report.Report, 0, len(decls))
	for _, decl := range decls {
		frm, err := binding.Build(decl, reg, sub,
			binding.WithDefaults(cfg.FieldOptions()),
			binding.WithLogger(logger),
			binding.WithMetrics(counters),
			binding.WithFormOptions(formOpts...),
		)
		if err != nil {
			return nil, err
		}
		if collector != nil {
			collector.Attach(frm)
		}

		start := time.Now()
		res, err := frm.Validate(ctx)
		if err != nil {
			return nil, fmt.Errorf("form %s: %w", decl.Name, err)
		}
		elapsed := time.Since(start)
		logger.Info("form validated",
			logging.StringField("form", decl.Name),
			logging.StringField("status", res.Status.String()),
			logging.DurationField("duration_ms", elapsed),
		)
		reports = append(reports, report.BuildReport(frm, res, elapsed))
	}
	return reports, nil
}

// loadPlugins registers the remote rule pack. The unique rule
// is available only when a Redis address is configured.
func loadPlugins(
	ctx context.Context,
	cfg config.Config,
	reg *rule.Registry,
	logger logging.Logger,
) (func(), error) {
	closer := func() {}
	checker := remote.NewHTTPChecker(
		remote.WithTimeout(cfg.RemoteTimeout),
		remote.WithLogger(logger),
	)

	var sets remote.SetChecker
	if cfg.RedisAddr != "" {
		client, err := remote.Connect(ctx, remote.DefaultRedisConfig(cfg.RedisAddr))
		if err != nil {
			return nil, err
		}
		sets = remote.NewRedisSet(client)
		closer = func() { _ = client.Close() }
	}

	loader := plugin.NewLoader(
		plugin.NewRegistry(),
		&plugin.PluginContext{Rules: reg, Logger: logger},
	)
	if err := loader.Load(remote.Pack(checker, sets, logger)); err != nil {
		closer()
		return nil, err
	}
	return closer, nil
}

func loadDeclarations(ctx context.Context, o options) ([]binding.FormDeclaration, error) {
	bank := binding.NewBank()
	if o.decl != "" {
		if err := bank.LoadFile(o.decl); err != nil {
			return nil, err
		}
	}
	if o.openapi != "" {
		data, err := os.ReadFile(o.openapi)
		if err != nil {
			return nil, fmt.Errorf("read openapi document: %w", err)
		}
		decl, err := binding.FromOpenAPI(ctx, data, o.operation)
		if err != nil {
			return nil, err
		}
		bank.Add(decl)
	}

	if o.formName != "" {
		decl, ok := bank.Get(o.formName)
		if !ok {
			return nil, fmt.Errorf("form %q is not declared", o.formName)
		}
		return []binding.FormDeclaration{decl}, nil
	}
	return bank.All(), nil
}

func loadValues(path string) (binding.Submission, error) {
	if path == "" {
		return binding.Submission{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return binding.FromMap(m), nil
}
