package narrative

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/quill/internal/models"
	"github.com/bobmcallan/quill/internal/schema"
)

var (
	wordRe        = regexp.MustCompile(`\b\w[\w%\-/.]*\b`)
	paragraphRe   = regexp.MustCompile(`\n\s*\n`)
	placeholderRe = regexp.MustCompile(`\[.+?\]`)
	percentRe     = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	numberRe      = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

const (
	wordMin = 150
	wordMax = 300
)

// WordCount counts tokens the way the output policy does.
func WordCount(text string) int {
	return len(wordRe.FindAllString(text, -1))
}

// ParagraphCount counts non-empty blocks separated by blank lines.
func ParagraphCount(text string) int {
	n := 0
	for _, p := range paragraphRe.Split(strings.TrimSpace(text), -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// basicChecks runs the deterministic output policy against a draft and
// returns every violation found.
func basicChecks(text string, payload *models.MarketContext, events []models.DetectedEvent, paraMin, paraMax int) []string {
	var errs []string

	if !strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), "## Market Context") {
		errs = append(errs, "must start with '## Market Context'")
	}
	if schema.ContainsForbiddenTerm(text) {
		errs = append(errs, "contains forbidden fund/attribution terms")
	}
	if n := WordCount(text); n < wordMin || n > wordMax {
		errs = append(errs, fmt.Sprintf("word count %d not in [150,250]", n))
	}
	if n := ParagraphCount(text); n < paraMin || n > paraMax {
		errs = append(errs, fmt.Sprintf("paragraphs not in [%d,%d]", paraMin, paraMax))
	}
	if placeholderRe.MatchString(text) {
		errs = append(errs, "found bracketed placeholder")
	}
	errs = append(errs, percentFidelityErrors(text, payload, events)...)

	return errs
}

// percentFidelityErrors flags percentage figures in the draft that do not
// appear anywhere in the source payload or detected events.
func percentFidelityErrors(text string, payload *models.MarketContext, events []models.DetectedEvent) []string {
	allowed := sourceNumbers(payload, events)
	var errs []string
	seen := map[string]bool{}
	for _, m := range percentRe.FindAllStringSubmatch(text, -1) {
		lit := m[1]
		if seen[lit] {
			continue
		}
		seen[lit] = true
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			continue
		}
		if !containsNumber(allowed, v) {
			errs = append(errs, fmt.Sprintf("number %s%% not present in input data", lit))
		}
	}
	return errs
}

// sourceNumbers collects every numeric literal from the payload document
// and the detected events, as absolute values.
func sourceNumbers(payload *models.MarketContext, events []models.DetectedEvent) []float64 {
	var out []float64
	if payload != nil {
		if compact, err := json.Marshal(payload); err == nil {
			for _, lit := range numberRe.FindAllString(string(compact), -1) {
				if v, err := strconv.ParseFloat(lit, 64); err == nil {
					out = append(out, math.Abs(v))
				}
			}
		}
	}
	for _, ev := range events {
		out = append(out, math.Abs(ev.Pct))
		for _, lit := range numberRe.FindAllString(ev.Date, -1) {
			if v, err := strconv.ParseFloat(lit, 64); err == nil {
				out = append(out, math.Abs(v))
			}
		}
	}
	return out
}

func containsNumber(allowed []float64, v float64) bool {
	v = math.Abs(v)
	for _, a := range allowed {
		if math.Abs(a-v) < 1e-9 {
			return true
		}
	}
	return false
}
