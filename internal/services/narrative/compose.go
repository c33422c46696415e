package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bobmcallan/quill/internal/interfaces"
	"github.com/bobmcallan/quill/internal/models"
)

func systemRules(paraMin, paraMax int) string {
	return "You are an investment commentator. Write the Market Context for the specified period. " +
		"Use only the data in INPUT and EVENTS. No fund/portfolio mentions. " +
		"If a data point is missing, write \"not provided\". Do not invent numbers. " +
		fmt.Sprintf("Deliverable: Begin with '## Market Context'. 150-250 words; %d-%d paragraphs. ", paraMin, paraMax) +
		"Para 1: Macro & policy (inflation, rates, growth, FX/credit, notable policy/geopolitics). " +
		"Para 2: Market behavior (index return, volatility, sector trends, factor/style rotation, breadth/concentration). " +
		"Include an extra paragraph only if EVENTS is non-empty, summarizing the outsized move(s) neutrally. " +
		"Style: factual, concise, client-friendly. Numbers must match INPUT exactly. " +
		"Select the most relevant macro items for the specified market region; less relevant items may be omitted."
}

func salienceHints(marketRegion string) []string {
	mr := strings.ToLower(marketRegion)
	switch {
	case strings.Contains(mr, "emerging"):
		return []string{
			"Prioritize USD vs EM FX changes and commodities.",
			"Use global rates as backdrop; avoid U.S.-centric labor unless explicitly relevant.",
			"If policy_geopolitics keywords exist, reference them generically.",
		}
	case strings.Contains(mr, "europe"):
		return []string{
			"Prioritize EUR/USD and EUR/GBP and changes in rates that affect Europe.",
			"Commodities relevant to Europe can be mentioned briefly.",
		}
	default:
		return []string{
			"Prioritize domestic inflation, policy rate, unemployment, 10y yield.",
			"Include USD FX only as secondary context.",
		}
	}
}

func regionGuard(marketRegion string) string {
	r := strings.TrimSpace(marketRegion)
	return fmt.Sprintf("Region focus: %s. Tailor all context to this region and the stated benchmark. ", r) +
		"Avoid U.S.-centric details if region is not U.S.; if inputs are U.S.-only, treat them as global backdrop and mark local items as 'not provided'. " +
		"Do not generalize across regions."
}

// composeMessages builds the initial system/user conversation for one
// generation attempt.
func composeMessages(payload *models.MarketContext, eventsNarrative string, paraMin, paraMax int) ([]interfaces.Message, error) {
	compact, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	system := systemRules(paraMin, paraMax) +
		" Salience guidance: " + strings.Join(salienceHints(payload.MarketRegion), " ")

	content := fmt.Sprintf("INPUT JSON:\n%s\n\nEVENTS:\n%s\n\n%s",
		compact, eventsNarrative, regionGuard(payload.MarketRegion))

	return []interfaces.Message{
		{Role: interfaces.RoleSystem, Content: system},
		{Role: interfaces.RoleUser, Content: content},
	}, nil
}

func makeCritique(violations []string) string {
	return "Fix these issues without changing facts: " + strings.Join(violations, "; ") + ". Keep 150-250 words."
}
