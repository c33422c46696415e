package assembler

import (
	"sort"
	"strings"

	"github.com/bobmcallan/quill/internal/models"
)

// newsStopwords are common function and market-boilerplate words excluded
// from topic extraction.
var newsStopwords = func() map[string]struct{} {
	words := strings.Fields(`a an the of for to and or in on with by from into over under amid during as at vs versus via
	is are was were be been being this that these those it its their our your his her them they we you
	stocks shares market markets policy economic federal central bank rate rates inflation deflation
	growth recession expansion gdp cpi ppi`)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}()

// newsTopics extracts the most frequent substantive keywords from a news
// feed. Tokens are lowercased, stripped of surrounding punctuation, and
// kept only when longer than three characters and not a stopword. Ties
// break by first appearance.
func newsTopics(articles []models.NewsArticle, top int) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	next := 0

	for _, article := range articles {
		blob := strings.ToLower(article.Title + " " + article.Summary)
		for _, raw := range strings.Fields(blob) {
			token := strings.Trim(raw, `!"#$%&'()*+,-./:;<=>?@[\]^_`+"`"+`{|}~`)
			if len(token) <= 3 {
				continue
			}
			if _, stop := newsStopwords[token]; stop {
				continue
			}
			if _, seen := counts[token]; !seen {
				order[token] = next
				next++
			}
			counts[token]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return order[tokens[i]] < order[tokens[j]]
	})

	if len(tokens) > top {
		tokens = tokens[:top]
	}
	return tokens
}
