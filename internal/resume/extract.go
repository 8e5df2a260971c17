// Package resume turns uploaded resumes into plain text and extracts the
// skills, experience and education signals used to tailor questions.
package resume

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

var skillVocabulary = []string{
	"JavaScript", "React", "Node.js", "Python", "Java", "C++", "HTML", "CSS",
	"MongoDB", "PostgreSQL", "MySQL", "AWS", "Docker", "Kubernetes", "Git",
	"TypeScript", "Angular", "Vue.js", "Express", "Django", "Flask", "Spring",
	"REST API", "GraphQL", "Microservices", "CI/CD", "Agile", "Scrum",
	"Machine Learning", "Data Science", "DevOps", "Linux", "Windows",
}

var educationKeywords = []string{
	"bachelor", "master", "phd", "b.s.", "m.s.", "b.tech", "m.tech", "university", "college",
}

var (
	disallowedChars  = regexp.MustCompile(`[^\w\s\-.,;:()@#]`)
	inlineSpace      = regexp.MustCompile(`[^\S\n]+`)
	experiencePhrase = regexp.MustCompile(`(?i)\b(\d+)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp|work|employment)\b`)
)

// Normalize cleans resume text: line endings become \n, characters outside
// word characters, whitespace and - . , ; : ( ) @ # are removed, runs of
// spaces collapse to one and blank lines are dropped. Normalize is idempotent.
func Normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = disallowedChars.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Extract normalizes raw and scans it for skills, experience phrases and
// education lines. Extract(Extract(x).RawText) equals Extract(x).
func Extract(raw string) types.StructuredResumeData {
	text := Normalize(raw)
	lower := strings.ToLower(text)

	skills := make([]string, 0)
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}

	experience := dedupeSorted(experiencePhrase.FindAllString(text, -1))

	var education []string
	for _, line := range strings.Split(text, "\n") {
		lowerLine := strings.ToLower(line)
		for _, kw := range educationKeywords {
			if strings.Contains(lowerLine, kw) {
				education = append(education, line)
				break
			}
		}
	}

	return types.StructuredResumeData{
		Skills:     dedupeSorted(skills),
		Experience: experience,
		Education:  dedupeSorted(education),
		RawText:    text,
	}
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
