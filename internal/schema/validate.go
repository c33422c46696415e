package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bobmcallan/quill/internal/models"
)

var structValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate applies all document rules to a draft. It returns either a
// validated document or a non-empty list of human-readable errors, never
// both. Structural and required-combination failures short-circuit; content
// and numeric checks accumulate.
func Validate(d *Draft) (*models.MarketContext, []string) {
	// 1. Structural/type validation fails fast, downstream checks need a
	// well-formed draft.
	if errs := structuralErrors(d); len(errs) > 0 {
		return nil, errs
	}

	// 2. Required combination, also fail fast.
	if d.BenchmarkReturnPct == nil && d.QualitativeMarketMove == "" {
		return nil, []string{"required: at least one of benchmark_return_total_pct or qualitative_market_move"}
	}

	// Remaining checks accumulate.
	var errs []string
	errs = append(errs, forbiddenTermErrors(d)...)

	for i, ev := range d.IndexLevelEvents {
		if ev.OneDayMovePct != nil && (*ev.OneDayMovePct < -100.0 || *ev.OneDayMovePct > 100.0) {
			errs = append(errs, fmt.Sprintf("index_level_events[%d].one_day_move_pct must be between -100 and 100", i))
		}
	}

	errs = append(errs, periodErrors(d.Period)...)

	if len(errs) > 0 {
		return nil, errs
	}
	return d.toMarketContext(), nil
}

// structuralErrors runs tag-based struct validation and maps the field
// errors to readable messages.
func structuralErrors(d *Draft) []string {
	err := structValidate.Struct(d)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	var out []string
	for _, fe := range verrs {
		out = append(out, describeFieldError(fe))
	}
	return out
}

func describeFieldError(fe validator.FieldError) string {
	field := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("required: %s", field)
	case "gte", "lte":
		return fmt.Sprintf("%s must be between -100 and 100", field)
	case "datetime":
		return fmt.Sprintf("%s must be ISO format YYYY-MM-DD", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// fieldName maps a validator namespace to the document's JSON field naming.
func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Period":
		return "period"
	case "MarketRegion":
		return "market_region"
	case "Benchmark":
		return "benchmark"
	case "BenchmarkReturnPct":
		return "benchmark_return_total_pct"
	case "Date":
		return "index_level_events date"
	case "Description":
		return "index_level_events description"
	default:
		return fe.Field()
	}
}

// periodErrors checks the period format and, for explicit ranges, ordering.
func periodErrors(period string) []string {
	if models.PeriodQuarterRe.MatchString(period) {
		return nil
	}
	if !models.PeriodRangeRe.MatchString(period) {
		return []string{"period must be 'Q# YYYY' or 'YYYY-MM-DD to YYYY-MM-DD'"}
	}

	start, end, err := models.PeriodBounds(period)
	if err != nil {
		return []string{err.Error()}
	}
	if start.After(end) {
		return []string{"period range start must be <= end"}
	}
	return nil
}
