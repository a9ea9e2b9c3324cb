package search

import (
	"math"

	"github.com/houston-ecosystem/ecomap/internal/domain/search/document"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75

	// missingDF stands in for the document frequency of a query token that no
	// document contains.
	missingDF = 0.5
)

type scored struct {
	doc   document.Document
	score float64
}

// score computes the BM25 score of every document for the query tokens.
// The output has one entry per input document, in input order, including zero scores.
func score(queryTokens []string, docs []document.Document) []scored {
	n := float64(len(docs))
	if n == 0 {
		n = 1
	}

	termFreqs := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	totalLen := 0
	for i := range docs {
		tokens := docs[i].Tokens()
		totalLen += len(tokens)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		termFreqs[i] = tf
		for tok := range tf {
			docFreq[tok]++
		}
	}

	avgDocLen := 0.0
	if len(docs) > 0 {
		avgDocLen = float64(totalLen) / float64(len(docs))
	}

	idf := make(map[string]float64, len(queryTokens))
	for _, tok := range queryTokens {
		if _, ok := idf[tok]; ok {
			continue
		}
		df := missingDF
		if c, ok := docFreq[tok]; ok {
			df = float64(c)
		}
		idf[tok] = math.Log(1 + (n-df+0.5)/(df+0.5))
	}

	out := make([]scored, len(docs))
	for i := range docs {
		docLen := float64(max(docs[i].Len(), 1))
		lengthRatio := 1.0
		if avgDocLen > 0 {
			lengthRatio = docLen / avgDocLen
		}
		norm := bm25K1 * (1 - bm25B + bm25B*lengthRatio)

		var s float64
		for _, tok := range queryTokens {
			tf := float64(termFreqs[i][tok])
			if tf == 0 {
				continue
			}
			s += idf[tok] * (tf * (bm25K1 + 1)) / (tf + norm)
		}
		out[i] = scored{doc: docs[i], score: s}
	}
	return out
}
