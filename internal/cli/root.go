package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/logging"
	"github.com/cloud-ru/mcp-mortgage-go/internal/report"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tracing"
)

// app хранит общее состояние команд
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	tracer   trace.Tracer
	shutdown tracing.ShutdownFunc
	registry map[string]tools.Tool
	closers  []io.Closer
	out      io.Writer
	reporter *report.Reporter

	asJSON   bool
	currency string
}

// NewRootCmd создает корневую команду mortgage
func NewRootCmd(out io.Writer) *cobra.Command {
	if out == nil {
		out = os.Stdout
	}
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "mortgage",
		Short:         "Mortgage amortization and rent vs buy calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	root.SetOut(out)

	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print raw JSON instead of a report")
	root.PersistentFlags().StringVar(&a.currency, "currency", "AED", "Currency label for reports")

	root.AddCommand(
		newServeCmd(a),
		newScheduleCmd(a),
		newCostsCmd(a),
		newCompareCmd(a),
		newSensitivityCmd(a),
		newReviewsCmd(a),
	)
	return root
}

// close освобождает ресурсы, открытые командой
func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	if a.shutdown != nil {
		if err := a.shutdown(context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Execute запускает CLI и возвращает код завершения
func Execute() int {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.LogLevel, cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = a.logger.WithContext(ctx)
	cmd.SetContext(ctx)

	tracer, shutdown, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	a.tracer = tracer
	a.shutdown = shutdown
	a.registry = tools.Registry(cfg, tracer)
	a.reporter = report.NewReporter(a.out, a.currency)
	return nil
}

// call выполняет инструмент по имени
func (a *app) call(ctx context.Context, name string, params map[string]interface{}) (interface{}, error) {
	tool, ok := a.registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	return tool.Handler(ctx, params)
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
