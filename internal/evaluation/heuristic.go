// Package evaluation scores interview answers, preferring a language model and
// falling back to a deterministic keyword heuristic.
package evaluation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
)

// Signal weights. They sum to 100.
const (
	lengthTierPoints = 5
	relevancePoints  = 20
	structurePoints  = 15
	examplePoints    = 20
	depthPoints      = 15
	impactPoints     = 15
)

var lengthTiers = []int{20, 50, 100}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// Signals records which heuristic criteria an answer satisfied.
type Signals struct {
	Length      int
	Relevant    bool
	Structured  bool
	HasExamples bool
	Technical   bool
	Impact      bool
}

// Analyze computes the heuristic signals for an answer to question.
func Analyze(question, answer string) Signals {
	lower := strings.ToLower(answer)
	return Signals{
		Length:      utf8.RuneCountInString(answer),
		Relevant:    isRelevant(question, lower),
		Structured:  hasStructure(answer),
		HasExamples: containsAny(lower, exampleIndicators),
		Technical:   containsAny(lower, depthIndicators),
		Impact:      containsAny(lower, impactIndicators),
	}
}

// Score converts signals into a 0..100 score.
func (s Signals) Score() int {
	score := 0
	for _, tier := range lengthTiers {
		if s.Length >= tier {
			score += lengthTierPoints
		}
	}
	if s.Relevant {
		score += relevancePoints
	}
	if s.Structured {
		score += structurePoints
	}
	if s.HasExamples {
		score += examplePoints
	}
	if s.Technical {
		score += depthPoints
	}
	if s.Impact {
		score += impactPoints
	}
	return min(score, 100)
}

// Heuristic scores an answer without any external calls. It is pure and total:
// the same inputs always produce the same result and it never fails.
func Heuristic(question, answer string) types.EvaluationResult {
	if types.IsVoiceUnavailable(answer) {
		return types.EvaluationResult{
			Score:        VoiceScore,
			Feedback:     voiceFeedback,
			Improvements: append([]string(nil), voiceImprovements...),
		}
	}

	score := Analyze(question, answer).Score()
	b := bandFor(score)
	return types.EvaluationResult{
		Score:        score,
		Feedback:     b.feedback,
		Improvements: append([]string(nil), b.improvements...),
	}
}

func bandFor(score int) band {
	for _, b := range bands {
		if score >= b.min {
			return b
		}
	}
	return bands[len(bands)-1]
}

// QuestionKeywords returns the distinct lower-cased question tokens longer
// than four characters that are not stop words, in order of appearance.
func QuestionKeywords(question string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(question)) {
		if utf8.RuneCountInString(word) <= 4 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

func isRelevant(question, lowerAnswer string) bool {
	for _, kw := range QuestionKeywords(question) {
		if strings.Contains(lowerAnswer, kw) {
			return true
		}
	}

	hits := 0
	for _, vocab := range [][]string{technicalKeywords, behavioralKeywords} {
		for _, kw := range vocab {
			if strings.Contains(lowerAnswer, kw) {
				hits++
				if hits >= 2 {
					return true
				}
			}
		}
	}
	return false
}

func hasStructure(answer string) bool {
	if utf8.RuneCountInString(answer) <= 20 {
		return false
	}
	sentences := 0
	for _, part := range sentenceSplit.Split(answer, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	return sentences >= 2
}

func containsAny(lower string, indicators []string) bool {
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}
