package text

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// TfidfOptions bound the vocabulary of a fitted vectorizer
type TfidfOptions struct {
	MaxFeatures int // vocabulary cap, most frequent terms kept
	MinDocFreq  int // terms in fewer documents are dropped
}

// DefaultTfidfOptions mirrors the batch encoder defaults
func DefaultTfidfOptions() TfidfOptions {
	return TfidfOptions{MaxFeatures: 500, MinDocFreq: 2}
}

// TfidfVectorizer builds a bounded unigram+bigram term-weighting space over
// a corpus and encodes documents as L2-normalized tf-idf vectors. The
// vocabulary is fixed at Fit time; Transform ignores unseen terms.
type TfidfVectorizer struct {
	opts  TfidfOptions
	vocab map[string]int
	terms []string
	idf   []float64
	rows  *mat.Dense // normalized document-term matrix from Fit
}

// NewTfidfVectorizer creates an unfitted vectorizer
func NewTfidfVectorizer(opts TfidfOptions) *TfidfVectorizer {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = 500
	}
	if opts.MinDocFreq <= 0 {
		opts.MinDocFreq = 1
	}
	return &TfidfVectorizer{opts: opts}
}

// ngrams returns the unigram and bigram terms of a document
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// Fit builds the vocabulary and idf weights over the corpus and encodes
// every document. Documents are raw strings; normalization and stopword
// removal happen here.
func (v *TfidfVectorizer) Fit(docs []string) {
	docTerms := make([][]string, len(docs))
	docFreq := make(map[string]int)
	for i, doc := range docs {
		terms := ngrams(TokensNoStopwords(doc))
		docTerms[i] = terms
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			docFreq[t]++
		}
	}

	// Vocabulary: min document frequency, then highest-frequency terms up
	// to the cap, ties broken lexicographically for determinism.
	candidates := make([]string, 0, len(docFreq))
	for t, df := range docFreq {
		if df >= v.opts.MinDocFreq {
			candidates = append(candidates, t)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if docFreq[candidates[i]] != docFreq[candidates[j]] {
			return docFreq[candidates[i]] > docFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > v.opts.MaxFeatures {
		candidates = candidates[:v.opts.MaxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.vocab = make(map[string]int, len(candidates))
	for i, t := range candidates {
		v.vocab[t] = i
	}

	// Smooth idf: ln((1+n)/(1+df)) + 1
	n := float64(len(docs))
	v.idf = make([]float64, len(v.terms))
	for i, t := range v.terms {
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	cols := len(v.terms)
	if cols == 0 {
		v.rows = nil
		return
	}
	rows := mat.NewDense(len(docs), cols, nil)
	for i, terms := range docTerms {
		v.encodeInto(rows.RawRowView(i), terms)
	}
	v.rows = rows
}

// encodeInto writes the L2-normalized tf-idf weights of a term list into dst
func (v *TfidfVectorizer) encodeInto(dst []float64, terms []string) {
	for i := range dst {
		dst[i] = 0
	}
	for _, t := range terms {
		if j, ok := v.vocab[t]; ok {
			dst[j]++
		}
	}
	var norm float64
	for j := range dst {
		if dst[j] > 0 {
			dst[j] *= v.idf[j]
			norm += dst[j] * dst[j]
		}
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for j := range dst {
			dst[j] /= norm
		}
	}
}

// Transform encodes one document against the fitted vocabulary. Unseen
// terms contribute zero weight; an unfitted or empty vocabulary yields a
// zero-length vector.
func (v *TfidfVectorizer) Transform(doc string) []float64 {
	if len(v.terms) == 0 {
		return nil
	}
	out := make([]float64, len(v.terms))
	v.encodeInto(out, ngrams(TokensNoStopwords(doc)))
	return out
}

// Matrix returns the normalized document-term matrix of the fitted corpus,
// or nil when the vocabulary is empty
func (v *TfidfVectorizer) Matrix() *mat.Dense {
	return v.rows
}

// Features returns the fitted vocabulary size
func (v *TfidfVectorizer) Features() int {
	return len(v.terms)
}

// Terms returns the fitted vocabulary in column order
func (v *TfidfVectorizer) Terms() []string {
	return v.terms
}
