// Package analysis scores resume text for ATS compatibility.
package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// Report is the analysis payload persisted as jsonb on the resume row.
type Report struct {
	Score       int             `json:"score"`
	WordCount   int             `json:"word_count"`
	Sections    map[string]bool `json:"sections"`
	HasEmail    bool            `json:"has_email"`
	HasPhone    bool            `json:"has_phone"`
	Keywords    []string        `json:"keywords"`
	Suggestions []string        `json:"suggestions"`
}

// sectionWeights favors the sections recruiters and ATS parsers look for
// first. Weights are fractions of the 60 points allocated to structure.
var sectionWeights = map[string]float64{
	"experience": 1.5,
	"education":  1.0,
	"skills":     1.3,
	"summary":    0.7,
	"projects":   0.5,
}

var sectionAliases = map[string][]string{
	"experience": {"experience", "employment", "work history", "professional background"},
	"education":  {"education", "academic", "qualifications"},
	"skills":     {"skills", "technologies", "competencies", "tech stack"},
	"summary":    {"summary", "objective", "profile", "about"},
	"projects":   {"projects", "portfolio", "publications"},
}

// actionVerbs are the keyword signals counted toward the content score.
var actionVerbs = []string{
	"achieved", "built", "created", "delivered", "designed", "developed",
	"implemented", "improved", "launched", "led", "managed", "optimized",
	"reduced", "shipped",
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d[\d\s\-().]{7,}\d)`)
)

// Analyze computes a 0-100 ATS score from extracted resume text:
// 60 points for structure (sections + contact info), 25 for content
// (action verbs), 15 for length. Missing pieces produce suggestions.
func Analyze(text string) Report {
	lower := strings.ToLower(text)
	words := strings.Fields(text)

	report := Report{
		WordCount: len(words),
		Sections:  make(map[string]bool, len(sectionWeights)),
		HasEmail:  emailRe.MatchString(text),
		HasPhone:  phoneRe.MatchString(text),
	}

	var weightTotal, weightFound float64
	for section, weight := range sectionWeights {
		weightTotal += weight
		found := false
		for _, alias := range sectionAliases[section] {
			if strings.Contains(lower, alias) {
				found = true
				break
			}
		}
		report.Sections[section] = found
		if found {
			weightFound += weight
		} else {
			report.Suggestions = append(report.Suggestions, "Add a "+section+" section")
		}
	}

	structure := 44.0 * weightFound / weightTotal
	if report.HasEmail {
		structure += 10
	} else {
		report.Suggestions = append(report.Suggestions, "Include a contact email address")
	}
	if report.HasPhone {
		structure += 6
	} else {
		report.Suggestions = append(report.Suggestions, "Include a phone number")
	}

	for _, verb := range actionVerbs {
		if strings.Contains(lower, verb) {
			report.Keywords = append(report.Keywords, verb)
		}
	}
	content := 25.0 * float64(len(report.Keywords)) / 8.0
	if content > 25 {
		content = 25
	}
	if len(report.Keywords) < 3 {
		report.Suggestions = append(report.Suggestions, "Use more action verbs to describe accomplishments")
	}

	length := lengthScore(report.WordCount)
	if report.WordCount < 150 {
		report.Suggestions = append(report.Suggestions, "Resume looks short; aim for 300-700 words")
	}

	score := int(structure + content + length)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	report.Score = score

	sort.Strings(report.Suggestions)
	return report
}

// lengthScore gives full marks to the 300-700 word sweet spot and tapers
// off on either side.
func lengthScore(words int) float64 {
	switch {
	case words >= 300 && words <= 700:
		return 15
	case words >= 150 && words < 300:
		return 10
	case words > 700 && words <= 1200:
		return 10
	case words > 0:
		return 4
	default:
		return 0
	}
}
