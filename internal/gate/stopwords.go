// ABOUTME: Spanish stopword list and keyword extraction for the relevance gate
// ABOUTME: Keeps only substantive tokens worth matching against fragment text
package gate

import "strings"

// stopwords contains common Spanish words excluded from keyword matching:
// articles, prepositions, conjunctions, interrogatives, and auxiliaries.
var stopwords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "un": true,
	"una": true, "unos": true, "unas": true, "de": true, "del": true,
	"al": true, "a": true, "en": true, "por": true, "para": true,
	"con": true, "sin": true, "sobre": true, "entre": true, "hasta": true,
	"desde": true, "ante": true, "tras": true, "según": true, "segun": true,
	"y": true, "o": true, "u": true, "e": true, "ni": true,
	"que": true, "qué": true, "como": true, "cómo": true, "cuando": true,
	"cuándo": true, "donde": true, "dónde": true, "cual": true, "cuál": true,
	"cuales": true, "cuáles": true, "quien": true, "quién": true,
	"cuanto": true, "cuánto": true, "cuanta": true, "cuánta": true,
	"cuantos": true, "cuántos": true, "cuantas": true, "cuántas": true,
	"es": true, "son": true, "ser": true, "está": true, "esta": true,
	"están": true, "estan": true, "hay": true, "tiene": true, "tienen": true,
	"debe": true, "deben": true, "puede": true, "pueden": true,
	"se": true, "su": true, "sus": true, "lo": true, "le": true,
	"les": true, "me": true, "mi": true, "mis": true, "no": true,
	"si": true, "sí": true, "este": true, "ese": true, "eso": true,
	"esto": true, "esos": true, "esas": true, "estos": true, "estas": true,
	"pero": true, "más": true, "mas": true, "menos": true, "muy": true,
	"también": true, "tambien": true, "todo": true, "todos": true,
	"toda": true, "todas": true, "otro": true, "otra": true, "otros": true,
	"otras": true, "cada": true, "dicho": true, "dicha": true,
}

// punctuation trimmed from the edges of each token before filtering.
const punctuation = `.,;?!¿¡"()`

// minKeywordLen is the shortest token considered substantive.
const minKeywordLen = 4

// ExtractKeywords tokenizes a question into substantive lowercase
// keywords: whitespace-split, punctuation-trimmed, length >= 4, not a
// stopword, not purely numeric. Duplicates are dropped, order preserved.
func ExtractKeywords(question string) []string {
	words := strings.Fields(strings.ToLower(question))
	seen := make(map[string]bool)
	var keywords []string

	for _, w := range words {
		w = strings.Trim(w, punctuation)
		if len([]rune(w)) < minKeywordLen || stopwords[w] || isNumeric(w) || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// isNumeric reports whether the token is digits only.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
