package analytics

import "strings"

// stopwords are frequent English words excluded from keyword ranking.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {},

	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "shall": {}, "can": {},

	"to": {}, "of": {}, "in": {}, "for": {}, "on": {}, "with": {}, "at": {},
	"by": {}, "from": {}, "as": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "between": {},
	"out": {}, "off": {}, "over": {}, "under": {}, "again": {},
	"further": {}, "then": {}, "once": {},

	"that": {}, "this": {}, "these": {}, "those": {}, "it": {}, "its": {},
	"he": {}, "she": {}, "they": {}, "them": {}, "his": {}, "her": {},
	"their": {}, "my": {}, "your": {}, "our": {},

	"who": {}, "which": {}, "what": {}, "where": {}, "when": {}, "how": {},

	"all": {}, "each": {}, "every": {}, "both": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "no": {}, "not": {},
	"only": {}, "than": {}, "too": {}, "very": {}, "just": {},

	"but": {}, "and": {}, "or": {}, "if": {}, "so": {}, "about": {},
	"up": {}, "also": {}, "well": {},
}

// IsStopword reports whether word is a common English stopword.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}
