package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port            int
	MaxPrincipal    float64
	MaxRate         float64
	MaxYears        int
	MaxFixedYears   int
	MaxCompareYears int
	MaxFee          float64
	OTELEndpoint    string
	OTELServiceName string
	LogLevel        string
	RedisAddr       string
	ReviewsCacheTTL time.Duration
	PlacesAPIKey    string
	PlacesBaseURL   string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		MaxPrincipal:    getEnvFloat("MAX_PRINCIPAL", 1e9),
		MaxRate:         getEnvFloat("MAX_RATE", 50),
		MaxYears:        getEnvInt("MAX_YEARS", 30),
		MaxFixedYears:   getEnvInt("MAX_FIXED_YEARS", 10),
		MaxCompareYears: getEnvInt("MAX_COMPARE_YEARS", 30),
		MaxFee:          getEnvFloat("MAX_FEE", 1e7),
		OTELEndpoint:    getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName: getEnvString("OTEL_SERVICE_NAME", "mcp-mortgage-server"),
		LogLevel:        getEnvString("LOG_LEVEL", "INFO"),
		RedisAddr:       getEnvString("REDIS_ADDR", ""),
		ReviewsCacheTTL: getEnvDuration("REVIEWS_CACHE_TTL", 24*time.Hour),
		PlacesAPIKey:    getEnvString("PLACES_API_KEY", ""),
		PlacesBaseURL:   getEnvString("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
	}

	return cfg, nil
}

// Scenario содержит полный набор входных параметров калькулятора
type Scenario struct {
	Loan    calculations.LoanParameters
	Fees    calculations.FeeSchedule
	Rates   calculations.RecurringCostRates
	Rent    calculations.RentParameters
	Options calculations.AdvancedOptions
}

// Defaults возвращает параметры калькулятора по умолчанию (квартира в Дубае)
func Defaults() Scenario {
	return Scenario{
		Loan: calculations.LoanParameters{
			PropertyPrice:    2000000,
			DownPaymentPct:   20,
			MortgageYears:    25,
			FixedYears:       3,
			FixedRatePct:     3.99,
			ReferenceRatePct: 3.5,
			BankMarginPct:    1.5,
		},
		Fees: calculations.FeeSchedule{
			TransferFeePct:   4,
			AgentFeePct:      2,
			TrusteeFee:       4200,
			ValuationFee:     3000,
			ConnectionFee:    2000,
			InspectionFee:    1000,
			ProcessingFeePct: 1,
		},
		Rates: calculations.RecurringCostRates{
			BuiltUpArea:       1500,
			ServiceChargeRate: 15,
			HomeInsurancePct:  0.2,
			LifeInsurancePct:  0.5,
		},
		Rent: calculations.RentParameters{
			MonthlyRent:     8000,
			RentGrowthPct:   5,
			AppreciationPct: 3,
			CompareYears:    20,
		},
		Options: calculations.AdvancedOptions{
			InvestmentReturnPct: 6,
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
