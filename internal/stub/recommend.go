package stub

import (
	"sort"
	"strings"
)

// Recommend matches the query text against the keyword rules and returns the
// reply text of the strongest rule plus up to limit distinct products, in
// rule-priority order.
func (c *Catalog) Recommend(text string, limit int) (string, []Product) {
	if limit <= 0 {
		limit = 5
	}

	terms := c.expandTerms(normalize(text))
	matched := c.matchRules(terms)
	if len(matched) == 0 {
		return "", nil
	}

	reply := ""
	seen := make(map[string]bool)
	var products []Product
	for _, rule := range matched {
		if reply == "" && rule.ReplyText != "" {
			reply = rule.ReplyText
		}
		for _, id := range rule.ProductIDs {
			if seen[id] || len(products) == limit {
				continue
			}
			if p, ok := c.FindProduct(id); ok {
				seen[id] = true
				products = append(products, p)
			}
		}
	}
	return reply, products
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// expandTerms adds synonym spellings whose term appears in the text.
func (c *Catalog) expandTerms(text string) []string {
	terms := []string{text}
	for _, syn := range c.synonyms {
		if !strings.Contains(text, strings.ToLower(syn.Term)) {
			continue
		}
		for _, alt := range syn.Variants {
			if alt != "" {
				terms = append(terms, strings.ToLower(alt))
			}
		}
	}
	return terms
}

// matchRules returns active rules matching any term, strongest priority first.
func (c *Catalog) matchRules(terms []string) []KeywordRule {
	var matched []KeywordRule
	for _, rule := range c.rules {
		if !rule.Active || rule.Trigger == "" {
			continue
		}
		trigger := strings.ToLower(rule.Trigger)
		for _, term := range terms {
			if ruleMatches(rule.Match, term, trigger) {
				matched = append(matched, rule)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}

func ruleMatches(match MatchType, text, trigger string) bool {
	switch match {
	case MatchExact:
		return text == trigger
	case MatchPrefix:
		return strings.HasPrefix(text, trigger)
	case MatchContains:
		return strings.Contains(text, trigger)
	default:
		return false
	}
}
