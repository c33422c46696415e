package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quill/internal/common"
	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
)

// fakeBackend replays scripted responses, one per call, repeating the last.
type fakeBackend struct {
	responses []string
	err       error
	calls     [][]interfaces.Message
}

func (f *fakeBackend) Generate(_ context.Context, messages []interfaces.Message, _ ...interfaces.GenerateOption) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	i := len(f.calls) - 1
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

func floatPtr(v float64) *float64 { return &v }

func testPayload() *models.MarketContext {
	return &models.MarketContext{
		Period:             "Q2 2025",
		MarketRegion:       "U.S. equities (small-cap)",
		Benchmark:          "Russell 2000",
		BenchmarkReturnPct: floatPtr(4.25),
	}
}

// cleanDraft builds a policy-conforming narrative: correct heading, three
// blocks, word count inside bounds, no forbidden terms or placeholders.
func cleanDraft() string {
	sentence := "Inflation eased while policy rates held steady and equity benchmarks advanced across most regions during the quarter."
	para := strings.TrimSpace(strings.Repeat(sentence+" ", 5))
	return "## Market Context\n\n" + para + "\n\n" + para
}

func defaultOpts() interfaces.NarrativeOptions {
	return interfaces.NarrativeOptions{ParaMin: 2, ParaMax: 4, MaxRetries: 2}
}

func TestGenerateAcceptsCleanDraft(t *testing.T) {
	backend := &fakeBackend{responses: []string{cleanDraft()}}
	svc := NewService(backend, common.NewSilentLogger())

	text, err := svc.GenerateMarketContext(context.Background(), testPayload(), nil, nil, defaultOpts())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "## Market Context"))

	// no events, so no narration call: exactly one backend round-trip
	require.Len(t, backend.calls, 1)
	assert.Equal(t, interfaces.RoleSystem, backend.calls[0][0].Role)
	assert.Contains(t, backend.calls[0][1].Content, "INPUT JSON:")
	assert.Contains(t, backend.calls[0][1].Content, "EVENTS:\n[]")
	assert.Contains(t, backend.calls[0][1].Content, "Region focus: U.S. equities (small-cap).")
}

func TestGenerateOneCritiqueCycle(t *testing.T) {
	bad := strings.Replace(cleanDraft(), "equity benchmarks", "portfolio holdings", 1)
	backend := &fakeBackend{responses: []string{bad, cleanDraft()}}
	svc := NewService(backend, common.NewSilentLogger())

	text, err := svc.GenerateMarketContext(context.Background(), testPayload(), nil, nil, defaultOpts())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "## Market Context"))
	require.Len(t, backend.calls, 2)

	// second call carries the appended critique instruction
	second := backend.calls[1]
	last := second[len(second)-1]
	assert.Equal(t, interfaces.RoleSystem, last.Role)
	assert.Contains(t, last.Content, "Fix these issues without changing facts: contains forbidden fund/attribution terms")
}

func TestGenerateExhaustsRetries(t *testing.T) {
	backend := &fakeBackend{responses: []string{"too short"}}
	svc := NewService(backend, common.NewSilentLogger())

	_, err := svc.GenerateMarketContext(context.Background(), testPayload(), nil, nil, defaultOpts())
	require.Error(t, err)

	var policyErr *PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, 3, policyErr.Attempts)
	assert.Contains(t, policyErr.Violations, "must start with '## Market Context'")
	assert.Len(t, backend.calls, 3)
}

func TestGenerateBackendFailure(t *testing.T) {
	backend := &fakeBackend{err: errors.New("upstream 500")}
	svc := NewService(backend, common.NewSilentLogger())

	_, err := svc.GenerateMarketContext(context.Background(), testPayload(), nil, nil, defaultOpts())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackend)

	var policyErr *PolicyError
	assert.False(t, errors.As(err, &policyErr))
}

func TestNarrateEventsEmpty(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, common.NewSilentLogger())

	narr, err := svc.narrateEvents(context.Background(), nil, nil, "U.S. equities", "S&P 500", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", narr)
	assert.Empty(t, backend.calls)
}

func TestNarrateEventsSplitsLines(t *testing.T) {
	backend := &fakeBackend{responses: []string{
		"On 2025-04-08 the index rose 3.2% amid headline-driven volatility; On 2025-05-12 the index fell 2.8% around macro releases.\nA third line.",
	}}
	svc := NewService(backend, common.NewSilentLogger())

	events := []models.DetectedEvent{
		{Date: "2025-04-08", Pct: 3.2},
		{Date: "2025-05-12", Pct: -2.8},
	}
	narr, err := svc.narrateEvents(context.Background(), events, []string{"FOMC:Fed funds rate 4.33%"}, "U.S. equities", "S&P 500", nil)
	require.NoError(t, err)

	assert.Equal(t, `["On 2025-04-08 the index rose 3.2% amid headline-driven volatility","On 2025-05-12 the index fell 2.8% around macro releases.","A third line."]`, narr)

	require.Len(t, backend.calls, 1)
	user := backend.calls[0][1].Content
	assert.Contains(t, user, `"calendar_hints":["FOMC:Fed funds rate 4.33%"]`)
	assert.Contains(t, user, `"region":"U.S. equities"`)
}

func TestGenerateEventsFlowThrough(t *testing.T) {
	narration := "On 2025-04-08 the benchmark rose 3.2% amid headline-driven volatility."
	backend := &fakeBackend{responses: []string{narration, cleanDraft()}}
	svc := NewService(backend, common.NewSilentLogger())

	events := []models.DetectedEvent{{Date: "2025-04-08", Pct: 3.2}}
	_, err := svc.GenerateMarketContext(context.Background(), testPayload(), events, nil, defaultOpts())
	require.NoError(t, err)

	// call 1 narrates events, call 2 generates the narrative with them inlined
	require.Len(t, backend.calls, 2)
	assert.Contains(t, backend.calls[1][1].Content, `EVENTS:
["On 2025-04-08 the benchmark rose 3.2% amid headline-driven volatility."]`)
}
