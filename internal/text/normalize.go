package text

import (
	"regexp"
	"strings"
)

var (
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpace  = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text, strips URLs and punctuation and collapses
// whitespace. Empty input yields an empty string.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	s = urlPattern.ReplaceAllString(s, "")
	s = nonAlphaNum.ReplaceAllString(s, "")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens normalizes text and splits it into tokens
func Tokens(raw string) []string {
	s := Normalize(raw)
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}

// TokensNoStopwords normalizes text into tokens with stopwords removed
func TokensNoStopwords(raw string) []string {
	tokens := Tokens(raw)
	if len(tokens) == 0 {
		return nil
	}
	out := tokens[:0]
	for _, tok := range tokens {
		if _, stop := stopwords[tok]; !stop {
			out = append(out, tok)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// English stopword list matching the common vectorizer default, trimmed to
// the forms that survive normalization (no apostrophes).
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an",
		"and", "any", "are", "arent", "as", "at", "be", "because", "been",
		"before", "being", "below", "between", "both", "but", "by", "cant",
		"cannot", "could", "couldnt", "did", "didnt", "do", "does", "doesnt",
		"doing", "dont", "down", "during", "each", "few", "for", "from",
		"further", "had", "hadnt", "has", "hasnt", "have", "havent", "having",
		"he", "hed", "hell", "hes", "her", "here", "heres", "hers", "herself",
		"him", "himself", "his", "how", "hows", "i", "id", "ill", "im", "ive",
		"if", "in", "into", "is", "isnt", "it", "its", "itself", "lets", "me",
		"more", "most", "mustnt", "my", "myself", "no", "nor", "not", "of",
		"off", "on", "once", "only", "or", "other", "ought", "our", "ours",
		"ourselves", "out", "over", "own", "same", "shant", "she", "shed",
		"shell", "shes", "should", "shouldnt", "so", "some", "such", "than",
		"that", "thats", "the", "their", "theirs", "them", "themselves",
		"then", "there", "theres", "these", "they", "theyd", "theyll",
		"theyre", "theyve", "this", "those", "through", "to", "too", "under",
		"until", "up", "very", "was", "wasnt", "we", "wed", "well", "were",
		"weve", "werent", "what", "whats", "when", "whens", "where", "wheres",
		"which", "while", "who", "whos", "whom", "why", "whys", "with",
		"wont", "would", "wouldnt", "you", "youd", "youll", "youre", "youve",
		"your", "yours", "yourself", "yourselves",
	} {
		stopwords[w] = struct{}{}
	}
}
