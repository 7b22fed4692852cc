package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/reviews"
	"github.com/cloud-ru/mcp-mortgage-go/internal/server"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server with calculation tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = fmt.Sprintf(":%d", a.cfg.Port)
			}

			api := server.NewWebAPI(a.logger, server.Config{
				Addr: addr,
				Dependencies: server.Dependencies{
					Tools:   a.registry,
					Reviews: a.reviewsProvider(cmd),
				},
			})
			return api.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default is :$PORT)")
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	var monthly bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization schedule",
	}
	s := bindScenario(cmd.Flags())
	cmd.Flags().BoolVar(&monthly, "monthly", false, "Include monthly rows (JSON output only)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params := s.params()
		params["yearly_only"] = !monthly

		result, err := a.call(cmd.Context(), "amortization_schedule", params)
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.printJSON(result)
		}

		res := result.(tools.ScheduleResult)
		return a.reporter.Schedule(res.LoanAmount, &calculations.Schedule{
			FixedPayment:    res.FixedPayment,
			FloatingPayment: res.FloatingPayment,
			Yearly:          res.Yearly,
		})
	}
	return cmd
}

func newCostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Print total mortgage and upfront costs",
	}
	s := bindScenario(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params := s.params()

		costs, err := a.call(cmd.Context(), "mortgage_costs", params)
		if err != nil {
			return err
		}
		upfront, err := a.call(cmd.Context(), "upfront_costs", params)
		if err != nil {
			return err
		}

		if a.asJSON {
			return a.printJSON(map[string]interface{}{
				"mortgage": costs,
				"upfront":  upfront,
			})
		}
		return a.reporter.Costs(costs.(*calculations.MortgageCosts), upfront.(*calculations.UpfrontCosts))
	}
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare buying with renting and find the break-even year",
	}
	s := bindScenario(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		result, err := a.call(cmd.Context(), "rent_vs_buy", s.params())
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.printJSON(result)
		}
		return a.reporter.Comparison(result.(*calculations.ComparisonResult))
	}
	return cmd
}

func newSensitivityCmd(a *app) *cobra.Command {
	var rates []float64

	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Recalculate the comparison for several floating rates",
	}
	s := bindScenario(cmd.Flags())
	cmd.Flags().Float64SliceVar(&rates, "rates", nil, "Floating rates to scan, % (default: current rate ±2%)")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params := s.params()
		if len(rates) > 0 {
			list := make([]interface{}, 0, len(rates))
			for _, r := range rates {
				list = append(list, r)
			}
			params["floating_rates"] = list
		}

		result, err := a.call(cmd.Context(), "rate_sensitivity", params)
		if err != nil {
			return err
		}
		if a.asJSON {
			return a.printJSON(result)
		}
		return a.reporter.Sensitivity(result.([]calculations.SensitivityPoint))
	}
	return cmd
}

func newReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <building>",
		Short: "Look up reviews of a building",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := a.reviewsProvider(cmd)
			if provider == nil {
				return fmt.Errorf("PLACES_API_KEY is not set")
			}

			result, err := provider.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(result)
			}
			return a.reporter.Reviews(result)
		},
	}
}

// reviewsProvider собирает Places клиента с кешем в Redis или в памяти
func (a *app) reviewsProvider(cmd *cobra.Command) reviews.Provider {
	if a.cfg.PlacesAPIKey == "" {
		return nil
	}
	places := reviews.NewPlacesClient(a.cfg.PlacesBaseURL, a.cfg.PlacesAPIKey)

	var cache reviews.Cache = reviews.NewMemoryCache()
	if a.cfg.RedisAddr != "" {
		redisCache := reviews.NewRedisCache(a.cfg.RedisAddr)
		if err := redisCache.Ping(cmd.Context()); err != nil {
			a.logger.Warn().Err(err).Str("addr", a.cfg.RedisAddr).Msg("redis unavailable, using in-memory cache")
			_ = redisCache.Close()
		} else {
			cache = redisCache
			a.closers = append(a.closers, redisCache)
		}
	}
	return reviews.NewCachedProvider(places, cache, a.cfg.ReviewsCacheTTL)
}
