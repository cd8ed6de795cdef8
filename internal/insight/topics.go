package insight

import (
	"sort"

	"crisisnet/internal/domain/feed"
	"crisisnet/internal/text"
)

// Topic is one corpus-level topic with its weight
type Topic struct {
	TopicID  int      `json:"topic_id"`
	Keywords []string `json:"keywords"`
	Weight   float64  `json:"weight"`
}

// SentimentSummary aggregates per-record sentiment over the corpus
type SentimentSummary struct {
	AverageCompound float64 `json:"average_compound"`
	Positive        int     `json:"positive"`
	Negative        int     `json:"negative"`
	Neutral         int     `json:"neutral"`
}

// TextInsights bundles the externally supplied text signals for one run
type TextInsights struct {
	Topics           []Topic                   `json:"topics"`
	RecordTopics     map[string]feed.TopicInfo `json:"tweet_topics"`
	RecordSentiments map[string]feed.Sentiment `json:"tweet_sentiments"`
	SentimentSummary SentimentSummary          `json:"sentiment_summary"`
}

// ComputeTextInsights runs the sentiment and topic collaborators over the
// corpus and aggregates their per-record output
func ComputeTextInsights(ids []string, texts []string, scorer feed.SentimentScorer, assigner feed.TopicAssigner) TextInsights {
	out := TextInsights{
		RecordTopics:     make(map[string]feed.TopicInfo),
		RecordSentiments: make(map[string]feed.Sentiment, len(ids)),
	}
	if len(ids) == 0 {
		return out
	}

	if assigner != nil {
		out.RecordTopics = assigner.AssignTopics(ids, texts)
		out.Topics = summarizeTopics(out.RecordTopics)
	}

	var compoundSum float64
	for i, id := range ids {
		s := feed.Sentiment{Label: "neutral"}
		if scorer != nil {
			s = scorer.Score(texts[i])
		}
		out.RecordSentiments[id] = s
		compoundSum += s.Compound
		switch s.Label {
		case "positive":
			out.SentimentSummary.Positive++
		case "negative":
			out.SentimentSummary.Negative++
		default:
			out.SentimentSummary.Neutral++
		}
	}
	out.SentimentSummary.AverageCompound = compoundSum / float64(len(ids))
	return out
}

func summarizeTopics(recordTopics map[string]feed.TopicInfo) []Topic {
	byID := make(map[int]*Topic)
	for _, info := range recordTopics {
		t, ok := byID[info.TopicID]
		if !ok {
			t = &Topic{TopicID: info.TopicID, Keywords: info.Keywords}
			byID[info.TopicID] = t
		}
		t.Weight += info.Confidence
	}
	topics := make([]Topic, 0, len(byID))
	for _, t := range byID {
		topics = append(topics, *t)
	}
	sort.Slice(topics, func(a, b int) bool { return topics[a].TopicID < topics[b].TopicID })
	return topics
}

// FrequencyTopics is a term-frequency pseudo-topic assigner used when no
// external topic model is wired: the top corpus terms become topics and
// each record is assigned its strongest matching term.
type FrequencyTopics struct {
	TopicCount int
}

// AssignTopics implements feed.TopicAssigner
func (f FrequencyTopics) AssignTopics(ids []string, texts []string) map[string]feed.TopicInfo {
	count := f.TopicCount
	if count <= 0 {
		count = 4
	}

	tokenized := make([][]string, len(texts))
	freq := make(map[string]int)
	for i, t := range texts {
		tokens := text.TokensNoStopwords(t)
		tokenized[i] = tokens
		for _, tok := range tokens {
			freq[tok]++
		}
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(a, b int) bool {
		if freq[terms[a]] != freq[terms[b]] {
			return freq[terms[a]] > freq[terms[b]]
		}
		return terms[a] < terms[b]
	})
	if len(terms) > count {
		terms = terms[:count]
	}
	topicOf := make(map[string]int, len(terms))
	for i, t := range terms {
		topicOf[t] = i
	}

	out := make(map[string]feed.TopicInfo, len(ids))
	for i, id := range ids {
		hits := make(map[int]int)
		total := 0
		for _, tok := range tokenized[i] {
			if topic, ok := topicOf[tok]; ok {
				hits[topic]++
				total++
			}
		}
		info := feed.TopicInfo{TopicID: -1}
		if total > 0 {
			best, bestHits := -1, 0
			for topic, h := range hits {
				if h > bestHits || (h == bestHits && (best < 0 || topic < best)) {
					best, bestHits = topic, h
				}
			}
			info = feed.TopicInfo{
				TopicID:    best,
				Confidence: float64(bestHits) / float64(len(tokenized[i])),
				Keywords:   []string{terms[best]},
			}
		}
		out[id] = info
	}
	return out
}
