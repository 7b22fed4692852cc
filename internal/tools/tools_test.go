package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/config"
)

func testRegistry(t *testing.T) map[string]Tool {
	t.Helper()
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	return Registry(cfg, noop.NewTracerProvider().Tracer("test"))
}

func invoke(t *testing.T, name string, params map[string]interface{}) (interface{}, error) {
	t.Helper()
	tool, ok := testRegistry(t)[name]
	require.True(t, ok, "tool %s is not registered", name)
	return tool.Handler(context.Background(), params)
}

func TestRegistry(t *testing.T) {
	registry := testRegistry(t)

	for _, name := range []string{
		"periodic_payment", "amortization_schedule", "mortgage_costs",
		"upfront_costs", "rent_vs_buy", "rate_sensitivity",
	} {
		tool, ok := registry[name]
		require.True(t, ok, name)
		assert.Equal(t, name, tool.Name)
		assert.NotEmpty(t, tool.Description)
		assert.NotNil(t, tool.Handler)
	}
}

func TestPeriodicPaymentHandler(t *testing.T) {
	result, err := invoke(t, "periodic_payment", map[string]interface{}{
		"principal":           120000.0,
		"annual_rate_percent": 0.0,
		"term_years":          10.0,
	})
	require.NoError(t, err)

	payment := result.(PaymentResult)
	assert.Equal(t, 1000.0, payment.MonthlyPayment)
	assert.Equal(t, 120000.0, payment.TotalPaid)
	assert.Equal(t, 0.0, payment.TotalInterest)
}

func TestPeriodicPaymentHandlerDefaults(t *testing.T) {
	result, err := invoke(t, "periodic_payment", map[string]interface{}{})
	require.NoError(t, err)
	assert.InDelta(t, 8436.56, result.(PaymentResult).MonthlyPayment, 0.01)
}

func TestAmortizationScheduleHandler(t *testing.T) {
	result, err := invoke(t, "amortization_schedule", map[string]interface{}{})
	require.NoError(t, err)

	schedule := result.(ScheduleResult)
	assert.Equal(t, 1600000.0, schedule.LoanAmount)
	assert.Len(t, schedule.Rows, 300)
	assert.Len(t, schedule.Yearly, 25)
	assert.InDelta(t, 9260.55, schedule.FloatingPayment, 0.01)
	assert.InDelta(t, 1875.0, schedule.Rows[0].ServiceCharge, 1e-9)

	result, err = invoke(t, "amortization_schedule", map[string]interface{}{"yearly_only": true})
	require.NoError(t, err)
	assert.Empty(t, result.(ScheduleResult).Rows)
}

func TestMortgageCostsHandler(t *testing.T) {
	result, err := invoke(t, "mortgage_costs", map[string]interface{}{
		"down_payment_pct": 20.0,
		"mortgage_years":   25.0,
	})
	require.NoError(t, err)

	costs := result.(*calculations.MortgageCosts)
	assert.InDelta(t, 3529860.89, costs.TotalPayment, 0.01)
	assert.InDelta(t, 1148501.11, costs.TotalInterest, 0.01)
}

func TestUpfrontCostsHandler(t *testing.T) {
	result, err := invoke(t, "upfront_costs", map[string]interface{}{"processing_vat_pct": 5.0})
	require.NoError(t, err)

	upfront := result.(*calculations.UpfrontCosts)
	assert.InDelta(t, 547000.0, upfront.Total, 1e-6)
	assert.InDelta(t, 16800.0, upfront.ArrangementFee, 1e-6)
}

func TestRentVsBuyHandler(t *testing.T) {
	result, err := invoke(t, "rent_vs_buy", map[string]interface{}{
		"appreciation_pct": 3.0,
		"compare_years":    20.0,
	})
	require.NoError(t, err)

	cmp := result.(*calculations.ComparisonResult)
	assert.True(t, cmp.BreakEvenFound)
	assert.Equal(t, 3, cmp.BreakEvenYear)
	assert.InDelta(t, -296443.82, cmp.FinalNetPosition, 0.01)
	assert.Len(t, cmp.Years, 20)
}

func TestRentVsBuyHandlerOpportunityCost(t *testing.T) {
	result, err := invoke(t, "rent_vs_buy", map[string]interface{}{
		"include_opportunity_cost": true,
		"investment_return_pct":    6.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.(*calculations.ComparisonResult).BreakEvenYear)
}

func TestRateSensitivityHandler(t *testing.T) {
	result, err := invoke(t, "rate_sensitivity", map[string]interface{}{
		"floating_rates": []interface{}{4.0, 5.0, 6.0},
	})
	require.NoError(t, err)

	points := result.([]calculations.SensitivityPoint)
	require.Len(t, points, 3)
	assert.Equal(t, []float64{4, 5, 6}, []float64{
		points[0].FloatingRatePct, points[1].FloatingRatePct, points[2].FloatingRatePct,
	})
	assert.Equal(t, 3, points[1].BreakEvenYear)

	result, err = invoke(t, "rate_sensitivity", map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, result.([]calculations.SensitivityPoint), 5)
}

func TestHandlersRejectInvalidInput(t *testing.T) {
	tests := []struct {
		tool   string
		params map[string]interface{}
		param  string
	}{
		{"periodic_payment", map[string]interface{}{"term_years": 0.0}, "term_years"},
		{"periodic_payment", map[string]interface{}{"principal": "lots"}, "principal"},
		{"amortization_schedule", map[string]interface{}{"fixed_years": 12.0}, "fixed_years"},
		{"amortization_schedule", map[string]interface{}{"mortgage_years": 2.5}, "mortgage_years"},
		{"mortgage_costs", map[string]interface{}{"life_insurance_pct": -1.0}, "life_insurance_pct"},
		{"upfront_costs", map[string]interface{}{"trustee_fee": -10.0}, "trustee_fee"},
		{"rent_vs_buy", map[string]interface{}{"compare_years": 0.0}, "compare_years"},
		{"rent_vs_buy", map[string]interface{}{"include_opportunity_cost": "yes"}, "include_opportunity_cost"},
		{"rate_sensitivity", map[string]interface{}{"floating_rates": []interface{}{}}, "floating_rates"},
		{"rate_sensitivity", map[string]interface{}{"floating_rates": []interface{}{-1.0}}, "floating_rates"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+"/"+tt.param, func(t *testing.T) {
			_, err := invoke(t, tt.tool, tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, calculations.ErrInvalidInput), "got %v", err)

			var inputErr *calculations.InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.param, inputErr.Param)
		})
	}
}
