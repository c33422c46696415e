// Package narrative turns a validated market context payload into prose
// via the text-generation backend, enforcing the output policy with a
// bounded critique loop.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/bobmcallan/quill/internal/common"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
)

// DefaultMaxRetries is the critique budget after the initial attempt.
const DefaultMaxRetries = 2

var eventLineSplitRe = regexp.MustCompile(`[;\n]+`)

// Service generates market context narratives
type Service struct {
	backend interfaces.TextGenerator
	logger  *common.Logger
}

// NewService creates a new narrative service
func NewService(backend interfaces.TextGenerator, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{backend: backend, logger: logger}
}

// GenerateMarketContext produces the final markdown narrative for a
// validated payload. It narrates detected events, composes the prompt,
// and runs the generate/check/critique loop until the draft passes or
// the retry budget is exhausted.
func (s *Service) GenerateMarketContext(ctx context.Context, payload *models.MarketContext, events []models.DetectedEvent, calendarHints []string, opts interfaces.NarrativeOptions) (string, error) {
	if opts.ParaMin <= 0 {
		opts.ParaMin = 2
	}
	if opts.ParaMax <= 0 {
		opts.ParaMax = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = DefaultMaxRetries
	}

	var genOpts []interfaces.GenerateOption
	if opts.Model != "" {
		genOpts = append(genOpts, interfaces.WithModel(opts.Model))
	}

	eventsNarr, err := s.narrateEvents(ctx, events, calendarHints, payload.MarketRegion, payload.Benchmark, genOpts)
	if err != nil {
		return "", err
	}

	messages, err := composeMessages(payload, eventsNarr, opts.ParaMin, opts.ParaMax)
	if err != nil {
		return "", err
	}

	attempts := 0
	for {
		attempts++
		text, err := s.backend.Generate(ctx, messages, genOpts...)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrBackend, err)
		}
		text = strings.TrimSpace(text)

		violations := basicChecks(text, payload, events, opts.ParaMin, opts.ParaMax)
		if len(violations) == 0 {
			s.logger.Debug().Int("attempts", attempts).Msg("Narrative accepted")
			return text, nil
		}
		if attempts > opts.MaxRetries {
			s.logger.Warn().Int("attempts", attempts).Strs("violations", violations).Msg("Narrative rejected")
			return "", &PolicyError{Violations: violations, Attempts: attempts}
		}

		s.logger.Debug().Int("attempt", attempts).Strs("violations", violations).Msg("Narrative failed checks, critiquing")
		messages = append(messages, interfaces.Message{
			Role:    interfaces.RoleSystem,
			Content: makeCritique(violations),
		})
	}
}

// narrateEvents converts detected moves into short neutral narrative lines
// serialized as a JSON string array. Empty input short-circuits to the "[]"
// marker without a backend call.
func (s *Service) narrateEvents(ctx context.Context, events []models.DetectedEvent, calendarHints []string, marketRegion, benchmark string, genOpts []interfaces.GenerateOption) (string, error) {
	if len(events) == 0 {
		return "[]", nil
	}

	system := "You convert index move flags into short neutral narratives for a 'notable events' paragraph. " +
		"Avoid fund terms. Do not fabricate causes. If unsure, attribute to 'headline-driven volatility' or 'macro releases'. " +
		"One compact sentence per event; include the date and the magnitude with % sign. Keep region context."

	user, err := json.Marshal(map[string]any{
		"events":         events,
		"calendar_hints": calendarHints,
		"region":         marketRegion,
		"benchmark":      benchmark,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode events: %w", err)
	}

	text, err := s.backend.Generate(ctx, []interfaces.Message{
		{Role: interfaces.RoleSystem, Content: system},
		{Role: interfaces.RoleUser, Content: string(user)},
	}, genOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackend, err)
	}

	var lines []string
	for _, ln := range eventLineSplitRe.Split(text, -1) {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	encoded, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("failed to encode event narratives: %w", err)
	}
	return string(encoded), nil
}

// Ensure Service implements NarrativeService
var _ interfaces.NarrativeService = (*Service)(nil)
