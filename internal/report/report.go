package report

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/reviews"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// Reporter выводит результаты расчетов в консоль в текстовом виде
type Reporter struct {
	writer   io.Writer
	currency string
}

// NewReporter создает консольный репортер
func NewReporter(writer io.Writer, currency string) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	if currency == "" {
		currency = "AED"
	}
	return &Reporter{writer: writer, currency: currency}
}

const scheduleTmpl = `
Amortization schedule
Loan amount: {{cur}} {{money .LoanAmount}}
Fixed payment: {{cur}} {{money .FixedPayment}} / month
{{- if gt .FloatingPayment 0.0}}
Floating payment: {{cur}} {{money .FloatingPayment}} / month
{{- end}}

Year      Principal       Interest   Cum. principal    Cum. interest
{{- range .Yearly}}
{{printf "%4d" .Year}} {{printf "%14s" (money .Principal)}} {{printf "%14s" (money .Interest)}} {{printf "%16s" (money .CumulativePrincipal)}} {{printf "%16s" (money .CumulativeInterest)}}
{{- end}}
`

const costsTmpl = `
Mortgage costs
Monthly payment (fixed): {{cur}} {{money .Costs.MonthlyFixed}}
Monthly payment (floating): {{cur}} {{money .Costs.MonthlyFloating}}
Total interest: {{cur}} {{money .Costs.TotalInterest}}
Service charge: {{cur}} {{money .Costs.AnnualServiceCharge}} / year, {{cur}} {{money .Costs.TotalServiceCharge}} total
Home insurance: {{cur}} {{money .Costs.TotalHomeInsurance}}
Life insurance: {{cur}} {{money .Costs.TotalLifeInsurance}}
Total payment: {{cur}} {{money .Costs.TotalPayment}}
{{with .Upfront}}
Upfront costs
Down payment: {{cur}} {{money .DownPayment}}
Transfer fee: {{cur}} {{money .TransferFee}}
Agent fee: {{cur}} {{money .AgentFee}}
Arrangement fee: {{cur}} {{money .ArrangementFee}}
Other fees: {{cur}} {{money .FlatFees}}
Total upfront: {{cur}} {{money .Total}}
{{- end}}
`

const comparisonTmpl = `
Rent vs buy over {{len .Years}} years

Year   Property value   Cum. rent      Cum. ownership   Net position     Advantage
{{- range .Years}}
{{printf "%4d" .Year}} {{printf "%16s" (money .PropertyValue)}} {{printf "%14s" (money .CumulativeRent)}} {{printf "%16s" (money .CumulativeOwnershipCost)}} {{printf "%16s" (money .NetPosition)}} {{printf "%13s" (money .Advantage)}}
{{- end}}

Upfront cost: {{cur}} {{money .UpfrontCost}}
Total cost of buying: {{cur}} {{money .TotalBuyingCost}}
Final property value: {{cur}} {{money .FinalPropertyValue}}
Final net position: {{cur}} {{money .FinalNetPosition}}
{{if .BreakEvenFound -}}
Break-even year: {{.BreakEvenYear}}{{if not .BreakEvenWithinHorizon}} (beyond the comparison horizon){{end}}
{{- else -}}
Break-even year: not reached within {{maxYear}} years
{{- end}}
{{if .BuyingBetter}}Buying is better than renting{{else}}Renting is better than buying{{end}}
`

const sensitivityTmpl = `
Floating rate sensitivity

Rate    Floating payment   Total interest     Net position  Break-even
{{- range .}}
{{printf "%-7s" (percent .FloatingRatePct)}} {{printf "%16s" (money .MonthlyFloating)}} {{printf "%16s" (money .TotalInterest)}} {{printf "%16s" (money .FinalNetPosition)}}  {{if .BreakEvenFound}}{{.BreakEvenYear}}{{else}}-{{end}}
{{- end}}
`

const reviewsTmpl = `
{{.Name}} ({{printf "%.1f" .Rating}}/5, {{.Total}} reviews)
{{- template "group" (group "Good reviews" .Good)}}
{{- template "group" (group "Neutral reviews" .Neutral)}}
{{- template "group" (group "Bad reviews" .Bad)}}
{{define "group"}}{{if .Reviews}}

=== {{.Title}} ===
{{- range .Reviews}}
- {{.AuthorName}} ({{.Rating}}/5): {{.Text}}
{{- end}}{{end}}{{end}}
`

type reviewGroup struct {
	Title   string
	Reviews []reviews.Review
}

func (r *Reporter) render(name, tmpl string, data interface{}) error {
	funcs := template.FuncMap{
		"money":   utils.Money,
		"percent": utils.Percent,
		"cur":     func() string { return r.currency },
		"maxYear": func() int { return calculations.MaxBreakEvenYear },
		"group": func(title string, list []reviews.Review) reviewGroup {
			return reviewGroup{Title: title, Reviews: list}
		},
	}

	t, err := template.New(name).Funcs(funcs).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(r.writer, data)
}

// Schedule выводит годовую сводку графика платежей
func (r *Reporter) Schedule(loanAmount float64, schedule *calculations.Schedule) error {
	return r.render("schedule", scheduleTmpl, struct {
		LoanAmount float64
		*calculations.Schedule
	}{loanAmount, schedule})
}

// Costs выводит полные и разовые расходы. upfront может быть nil.
func (r *Reporter) Costs(costs *calculations.MortgageCosts, upfront *calculations.UpfrontCosts) error {
	return r.render("costs", costsTmpl, struct {
		Costs   *calculations.MortgageCosts
		Upfront *calculations.UpfrontCosts
	}{costs, upfront})
}

// Comparison выводит сравнение покупки и аренды
func (r *Reporter) Comparison(result *calculations.ComparisonResult) error {
	return r.render("comparison", comparisonTmpl, result)
}

// Sensitivity выводит пересчет по плавающим ставкам
func (r *Reporter) Sensitivity(points []calculations.SensitivityPoint) error {
	return r.render("sensitivity", sensitivityTmpl, points)
}

// Reviews выводит отзывы о здании по группам
func (r *Reporter) Reviews(result *reviews.BuildingReviews) error {
	return r.render("reviews", reviewsTmpl, result)
}
