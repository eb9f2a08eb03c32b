package analysis

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

const strongResume = `
Jane Doe
jane.doe@example.com | +1 (555) 010-2030

Summary
Backend engineer with eight years of experience building payment systems.

Experience
Led a team of five. Designed and implemented a billing pipeline that
reduced settlement latency by 40%. Launched and shipped three services.
Improved deployment tooling and optimized database access.

Education
B.Sc. Computer Science

Skills
Go, PostgreSQL, AWS, Docker

Projects
Open-source contributor, built a popular CLI tool.
`

func TestAnalyzeStrongResume(t *testing.T) {
	c := qt.New(t)

	// Pad into the preferred length band.
	text := strongResume + strings.Repeat("delivered measurable results across teams ", 60)
	report := Analyze(text)

	c.Assert(report.Score >= 80, qt.IsTrue, qt.Commentf("score = %d", report.Score))
	c.Assert(report.Score <= 100, qt.IsTrue)
	c.Assert(report.HasEmail, qt.IsTrue)
	c.Assert(report.HasPhone, qt.IsTrue)
	for _, section := range []string{"experience", "education", "skills", "summary", "projects"} {
		c.Assert(report.Sections[section], qt.IsTrue, qt.Commentf("section %q", section))
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	c := qt.New(t)

	report := Analyze("")
	c.Assert(report.Score >= 0, qt.IsTrue)
	c.Assert(report.WordCount, qt.Equals, 0)
	c.Assert(report.HasEmail, qt.IsFalse)
	c.Assert(len(report.Suggestions) > 0, qt.IsTrue)
}

func TestAnalyzeSuggestsMissingSections(t *testing.T) {
	c := qt.New(t)

	report := Analyze("Just a paragraph about myself with no structure at all.")
	c.Assert(report.Sections["experience"], qt.IsFalse)
	c.Assert(report.Suggestions, qt.Contains, "Add a experience section")
	c.Assert(report.Suggestions, qt.Contains, "Include a contact email address")
}

func TestAnalyzeScoreBounds(t *testing.T) {
	c := qt.New(t)

	// Everything present and over-stuffed must still cap at 100.
	text := strongResume + strings.Repeat(strings.Join(actionVerbs, " ")+" ", 40)
	report := Analyze(text)
	c.Assert(report.Score <= 100, qt.IsTrue)
}

func TestLengthScoreBands(t *testing.T) {
	c := qt.New(t)

	c.Assert(lengthScore(0), qt.Equals, 0.0)
	c.Assert(lengthScore(100), qt.Equals, 4.0)
	c.Assert(lengthScore(200), qt.Equals, 10.0)
	c.Assert(lengthScore(500), qt.Equals, 15.0)
	c.Assert(lengthScore(1000), qt.Equals, 10.0)
	c.Assert(lengthScore(5000), qt.Equals, 4.0)
}
