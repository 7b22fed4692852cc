package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/validators"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// Tool описывает зарегистрированный инструмент
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     ToolHandler `json:"-"`
}

// PaymentResult представляет результат расчета аннуитетного платежа
type PaymentResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPaid      float64 `json:"total_paid"`
	TotalInterest  float64 `json:"total_interest"`
}

// ScheduleResult представляет график платежей с расходами по месяцам
type ScheduleResult struct {
	LoanAmount      float64                       `json:"loan_amount"`
	FixedPayment    float64                       `json:"fixed_payment"`
	FloatingPayment float64                       `json:"floating_payment"`
	Yearly          []calculations.YearlyRollup   `json:"yearly"`
	Rows            []calculations.MonthlyCostRow `json:"rows,omitempty"`
}

// Registry возвращает все инструменты сервера по имени
func Registry(cfg *config.Config, tracer trace.Tracer) map[string]Tool {
	list := []Tool{
		{"periodic_payment", "Аннуитетный платеж по сумме, ставке и сроку", PeriodicPaymentHandler(cfg, tracer)},
		{"amortization_schedule", "График ипотеки с фиксированной и плавающей ставкой", AmortizationScheduleHandler(cfg, tracer)},
		{"mortgage_costs", "Полные расходы по ипотеке за весь срок", MortgageCostsHandler(cfg, tracer)},
		{"upfront_costs", "Разовые расходы при покупке", UpfrontCostsHandler(cfg, tracer)},
		{"rent_vs_buy", "Сравнение покупки и аренды с точкой безубыточности", RentVsBuyHandler(cfg, tracer)},
		{"rate_sensitivity", "Пересчет сравнения для набора плавающих ставок", RateSensitivityHandler(cfg, tracer)},
	}

	registry := make(map[string]Tool, len(list))
	for _, tool := range list {
		registry[tool.Name] = tool
	}
	return registry
}

// call хранит состояние одного вызова инструмента для метрик и трейсинга
type call struct {
	toolName string
	span     trace.Span
	logger   *zerolog.Logger
	started  time.Time
}

func begin(ctx context.Context, tracer trace.Tracer, toolName string) (context.Context, *call) {
	ctx, span := tracer.Start(ctx, toolName)
	metrics.APICalls.WithLabelValues("mcp", toolName, "started").Inc()

	logger := zerolog.Ctx(ctx).With().Str("tool_name", toolName).Logger()
	return ctx, &call{
		toolName: toolName,
		span:     span,
		logger:   &logger,
		started:  time.Now(),
	}
}

func (c *call) end() {
	metrics.CalculationDuration.WithLabelValues(c.toolName).Observe(time.Since(c.started).Seconds())
	c.span.End()
}

func (c *call) validationFailed(err error) error {
	c.span.SetAttributes(attribute.String("error", "validation_error"))
	metrics.ToolCalls.WithLabelValues(c.toolName, "validation_error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.toolName, "validation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "error").Inc()
	c.logger.Warn().Err(err).Msg("неверные параметры")
	return fmt.Errorf("неверные параметры: %w", err)
}

func (c *call) calculationFailed(err error) error {
	c.span.SetAttributes(attribute.String("error", "calculation_error"))
	metrics.ToolCalls.WithLabelValues(c.toolName, "error").Inc()
	metrics.CalculationErrors.WithLabelValues(c.toolName, "calculation").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "error").Inc()
	c.logger.Error().Err(err).Msg("ошибка при выполнении расчета")
	return fmt.Errorf("ошибка при выполнении расчета: %w", err)
}

func (c *call) succeeded(attrs ...attribute.KeyValue) {
	c.span.SetAttributes(append(attrs, attribute.Bool("success", true))...)
	metrics.ToolCalls.WithLabelValues(c.toolName, "success").Inc()
	metrics.APICalls.WithLabelValues("mcp", c.toolName, "success").Inc()
	c.logger.Debug().Dur("elapsed", time.Since(c.started)).Msg("расчет выполнен")
}

func loanAttributes(loan calculations.LoanParameters) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Float64("property_price", loan.PropertyPrice),
		attribute.Float64("down_payment_pct", loan.DownPaymentPct),
		attribute.Int("mortgage_years", loan.MortgageYears),
		attribute.Int("fixed_years", loan.FixedYears),
		attribute.Float64("fixed_rate_pct", loan.FixedRatePct),
		attribute.Float64("floating_rate_pct", loan.FloatingRatePct()),
	}
}

// PeriodicPaymentHandler обрабатывает запрос на расчет аннуитетного платежа
func PeriodicPaymentHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "periodic_payment")
		defer c.end()

		d := config.Defaults()
		principal, err := floatParam(params, "principal", d.Loan.LoanAmount())
		if err != nil {
			return nil, c.validationFailed(err)
		}
		annualRatePercent, err := floatParam(params, "annual_rate_percent", d.Loan.FixedRatePct)
		if err != nil {
			return nil, c.validationFailed(err)
		}
		termYears, err := floatParam(params, "term_years", float64(d.Loan.MortgageYears))
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(
			attribute.Float64("principal", principal),
			attribute.Float64("annual_rate_percent", annualRatePercent),
			attribute.Float64("term_years", termYears),
		)

		if err := validators.ValidateNumber("principal", principal, 0, cfg.MaxPrincipal); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.CheckRate(cfg, "annual_rate_percent", annualRatePercent); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.ValidateNumber("term_years", termYears, 1.0/12.0, float64(cfg.MaxYears)); err != nil {
			return nil, c.validationFailed(err)
		}

		payment, err := calculations.PeriodicPayment(principal, annualRatePercent, termYears)
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		totalPaid := payment * termYears * 12.0
		c.succeeded(attribute.Float64("monthly_payment", utils.Round2(payment)))

		return PaymentResult{
			MonthlyPayment: payment,
			TotalPaid:      totalPaid,
			TotalInterest:  totalPaid - principal,
		}, nil
	}
}

// AmortizationScheduleHandler обрабатывает запрос на построение графика платежей
func AmortizationScheduleHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "amortization_schedule")
		defer c.end()

		s, err := scenarioFromParams(params)
		if err != nil {
			return nil, c.validationFailed(err)
		}
		yearlyOnly, err := boolParam(params, "yearly_only", false)
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(loanAttributes(s.Loan)...)

		if err := validators.CheckLoan(cfg, s.Loan); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.CheckRecurring(cfg, s.Rates); err != nil {
			return nil, c.validationFailed(err)
		}

		loanAmount := s.Loan.LoanAmount()
		schedule, err := calculations.BuildAmortizationSchedule(loanAmount, s.Loan.FixedYears, s.Loan.MortgageYears,
			s.Loan.FixedRatePct, s.Loan.FloatingRatePct())
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		result := ScheduleResult{
			LoanAmount:      loanAmount,
			FixedPayment:    schedule.FixedPayment,
			FloatingPayment: schedule.FloatingPayment,
			Yearly:          schedule.Yearly,
		}
		if !yearlyOnly {
			result.Rows = calculations.MonthlyCostRows(schedule, s.Loan, s.Rates)
		}

		c.succeeded(
			attribute.Int("months", len(schedule.Rows)),
			attribute.Float64("fixed_payment", utils.Round2(schedule.FixedPayment)),
			attribute.Float64("floating_payment", utils.Round2(schedule.FloatingPayment)),
		)
		return result, nil
	}
}

// MortgageCostsHandler обрабатывает запрос на расчет полных расходов по ипотеке
func MortgageCostsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "mortgage_costs")
		defer c.end()

		s, err := scenarioFromParams(params)
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(loanAttributes(s.Loan)...)

		if err := validators.CheckLoan(cfg, s.Loan); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.CheckRecurring(cfg, s.Rates); err != nil {
			return nil, c.validationFailed(err)
		}

		costs, err := calculations.ComputeMortgageCosts(s.Loan, s.Rates)
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		c.succeeded(
			attribute.Float64("total_interest", utils.Round2(costs.TotalInterest)),
			attribute.Float64("total_payment", utils.Round2(costs.TotalPayment)),
		)
		return costs, nil
	}
}

// UpfrontCostsHandler обрабатывает запрос на расчет разовых расходов
func UpfrontCostsHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "upfront_costs")
		defer c.end()

		s, err := scenarioFromParams(params)
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(loanAttributes(s.Loan)...)

		if err := validators.CheckLoan(cfg, s.Loan); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.CheckFees(cfg, s.Fees); err != nil {
			return nil, c.validationFailed(err)
		}

		upfront, err := calculations.ComputeUpfrontCosts(s.Loan.PropertyPrice, s.Loan.LoanAmount(), s.Loan.DownPayment(), s.Fees)
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		c.succeeded(attribute.Float64("upfront_total", utils.Round2(upfront.Total)))
		return upfront, nil
	}
}

// RentVsBuyHandler обрабатывает запрос на сравнение покупки и аренды
func RentVsBuyHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "rent_vs_buy")
		defer c.end()

		s, err := scenarioFromParams(params)
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(loanAttributes(s.Loan)...)
		c.span.SetAttributes(
			attribute.Float64("monthly_rent", s.Rent.MonthlyRent),
			attribute.Int("compare_years", s.Rent.CompareYears),
		)

		if err := validateScenario(cfg, s); err != nil {
			return nil, c.validationFailed(err)
		}

		result, err := calculations.RunComparison(s.Loan, s.Fees, s.Rates, s.Rent, s.Options)
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		c.succeeded(
			attribute.Bool("break_even_found", result.BreakEvenFound),
			attribute.Int("break_even_year", result.BreakEvenYear),
			attribute.Float64("final_net_position", utils.Round2(result.FinalNetPosition)),
		)
		return result, nil
	}
}

// RateSensitivityHandler обрабатывает запрос на пересчет при разных плавающих ставках
func RateSensitivityHandler(cfg *config.Config, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		ctx, c := begin(ctx, tracer, "rate_sensitivity")
		defer c.end()

		s, err := scenarioFromParams(params)
		if err != nil {
			return nil, c.validationFailed(err)
		}
		base := s.Loan.FloatingRatePct()
		floatingRates, err := floatListParam(params, "floating_rates", sensitivityRates(base))
		if err != nil {
			return nil, c.validationFailed(err)
		}

		c.span.SetAttributes(loanAttributes(s.Loan)...)
		c.span.SetAttributes(attribute.Float64Slice("floating_rates", floatingRates))

		if err := validateScenario(cfg, s); err != nil {
			return nil, c.validationFailed(err)
		}
		if err := validators.ValidateIntRange("floating_rates", len(floatingRates), 1, 50); err != nil {
			return nil, c.validationFailed(err)
		}
		for _, rate := range floatingRates {
			if err := validators.CheckRate(cfg, "floating_rates", rate); err != nil {
				return nil, c.validationFailed(err)
			}
		}

		points, err := calculations.RateSensitivity(ctx, s.Loan, s.Fees, s.Rates, s.Rent, s.Options, floatingRates)
		if err != nil {
			return nil, c.calculationFailed(err)
		}

		c.succeeded(attribute.Int("points", len(points)))
		return points, nil
	}
}

// sensitivityRates возвращает ставки вокруг текущей плавающей с шагом 1%
func sensitivityRates(base float64) []float64 {
	rates := make([]float64, 0, 5)
	for delta := -2.0; delta <= 2.0; delta++ {
		if rate := base + delta; rate >= 0 {
			rates = append(rates, rate)
		}
	}
	return rates
}

func validateScenario(cfg *config.Config, s config.Scenario) error {
	if err := validators.CheckLoan(cfg, s.Loan); err != nil {
		return err
	}
	if err := validators.CheckFees(cfg, s.Fees); err != nil {
		return err
	}
	if err := validators.CheckRecurring(cfg, s.Rates); err != nil {
		return err
	}
	if err := validators.CheckRent(cfg, s.Rent); err != nil {
		return err
	}
	return validators.CheckOptions(cfg, s.Options)
}
