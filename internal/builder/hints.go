package builder

import (
	"strconv"
	"strings"

	"compass/internal/graph"
)

// uiTerm maps a vocabulary word to the accessibility role and element type
// it implies for the hint bundle.
type uiTerm struct {
	role string
	typ  string
}

var uiTerms = map[string]uiTerm{
	"button":   {role: "button", typ: "button"},
	"link":     {role: "link", typ: "a"},
	"field":    {role: "textbox", typ: "input"},
	"input":    {role: "textbox", typ: "input"},
	"textbox":  {role: "textbox", typ: "input"},
	"textarea": {role: "textbox", typ: "textarea"},
	"checkbox": {role: "checkbox", typ: "input"},
	"dropdown": {role: "combobox", typ: "select"},
	"select":   {role: "combobox", typ: "select"},
	"heading":  {role: "heading", typ: "heading"},
	"tab":      {role: "tab", typ: "button"},
}

// stopwords are skipped when collecting the descriptive words that precede
// a UI term ("the submit button" -> "submit").
var stopwords = map[string]bool{
	"i": true, "the": true, "a": true, "an": true, "my": true, "to": true,
	"in": true, "on": true, "into": true, "for": true, "and": true,
	"then": true, "when": true, "given": true,
}

// verbs are action words that never describe the target element.
var verbs = map[string]bool{
	"click": true, "clicks": true, "press": true, "presses": true,
	"enter": true, "enters": true, "fill": true, "fills": true,
	"type": true, "types": true, "submit": false, // "submit" doubles as a label
	"tap": true, "taps": true, "see": true, "sees": true, "open": true,
	"opens": true, "visit": true, "visits": true,
}

// quotedLiterals returns the double-quoted literals in text and whether the
// quoting is balanced. An unbalanced quote makes the step malformed: the
// value reference cannot be resolved. Single quotes are left alone because
// they collide with apostrophes in prose ("don't").
func quotedLiterals(text string) (literals []string, balanced bool) {
	parts := strings.Split(text, `"`)
	if len(parts)%2 == 0 {
		return nil, false
	}
	for i := 1; i < len(parts); i += 2 {
		literals = append(literals, parts[i])
	}
	return literals, true
}

func tokenize(text string) []string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', ';', ':', '!', '?':
			return ' '
		}
		return r
	}, text)
	return strings.Fields(strings.ToLower(clean))
}

// selectorHints scans for a known UI term and builds the hint bundle from
// it plus the descriptive words immediately preceding it. Returns nil when
// no hints can be extracted.
func selectorHints(text string) *graph.SelectorRef {
	tokens := tokenize(text)
	for i, tok := range tokens {
		term, ok := uiTerms[tok]
		if !ok {
			term, ok = uiTerms[strings.TrimSuffix(tok, "s")]
		}
		if !ok {
			continue
		}
		ref := &graph.SelectorRef{RoleHint: term.role, TypeHint: term.typ}
		var desc []string
		for j := i - 1; j >= 0 && len(desc) < 2; j-- {
			w := tokens[j]
			if stopwords[w] || verbs[w] {
				break
			}
			desc = append([]string{w}, desc...)
		}
		ref.TextHint = strings.Join(desc, " ")
		return ref
	}
	return nil
}

// subjectAndValue splits an input step like "enter email as a@b.com" or
// "fill the name field with \"Ada\"" into the target subject and the value.
func subjectAndValue(text string) (subject, value string) {
	lower := strings.ToLower(text)
	for _, marker := range []string{" as ", " with ", " to "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			subject = text[:idx]
			value = strings.TrimSpace(text[idx+len(marker):])
			break
		}
	}
	if subject == "" {
		subject = text
	}
	value = strings.Trim(value, `"'`)
	return subject, value
}

// subjectNoun returns the last meaningful word of the subject phrase,
// skipping UI vocabulary ("the email field" -> "email").
func subjectNoun(subject string) string {
	tokens := tokenize(subject)
	for i := len(tokens) - 1; i >= 0; i-- {
		w := tokens[i]
		if stopwords[w] || verbs[w] {
			continue
		}
		if _, isTerm := uiTerms[w]; isTerm {
			continue
		}
		return w
	}
	return ""
}

// urlToken returns the first token that looks like a URL or absolute path.
func urlToken(text string) string {
	for _, tok := range strings.Fields(text) {
		trimmed := strings.Trim(tok, `"'`)
		if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
			return trimmed
		}
	}
	return ""
}

/// pageName extracts the symbolic page target from a navigate step:
// "I am on the login page" -> "login".
func pageName(text string) string {
	tokens := tokenize(text)
	var words []string
	for _, w := range tokens {
		if stopwords[w] || verbs[w] || w == "am" || w == "is" || w == "navigate" || w == "go" || w == "goes" {
			continue
		}
		if w == "page" {
			break
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// waitMillis parses the first integer in a wait step as seconds unless an
// "ms" suffix or token follows it. Defaults to one second.
func waitMillis(text string) int {
	tokens := tokenize(text)
	for i, tok := range tokens {
		n, err := strconv.Atoi(strings.TrimSuffix(tok, "ms"))
		if err != nil {
			continue
		}
		if strings.HasSuffix(tok, "ms") || (i+1 < len(tokens) && strings.HasPrefix(tokens[i+1], "millisecond")) {
			return n
		}
		return n * 1000
	}
	return 1000
}
