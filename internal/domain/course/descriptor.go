package course

import (
	"regexp"
	"strings"
	"time"

	"planning/internal/domain/teacher"
)

// AgeCategory classifies a course by audience. The zero value means no category.
type AgeCategory string

// Age categories, in detection priority order.
const (
	AgeNone   AgeCategory = ""
	AgeEnfant AgeCategory = "ENFANT"
	AgeAdulte AgeCategory = "ADULTE"
	AgeAdo    AgeCategory = "ADO"
)

// ageTokens is scanned in order against the first line mentioning any of them.
var ageTokens = []struct {
	token    string
	category AgeCategory
}{
	{"enfant", AgeEnfant},
	{"adulte", AgeAdulte},
	{"ado", AgeAdo},
}

// Markers searched case-insensitively over the whole cell.
const (
	markerComplete    = "complet"
	markerNoSpectacle = "no spectacle"
	markerAudition    = "sur audition"
)

var (
	labelPattern     = regexp.MustCompile(`label="([^"]+)"`)
	labelLinePattern = regexp.MustCompile(`(?i)label="[^"]+"`)
	timeRangePattern = regexp.MustCompile(`(\d{2}:\d{2})\s*à\s*(\d{2}:\d{2})`)
	notLabelPattern  = regexp.MustCompile(`(?i)(à|\d{2}:\d{2}|complet|no spectacle|label=)`)
	keywordPattern   = regexp.MustCompile(`(?i)\b(complet|no spectacle)\b`)
)

// TimeRange is a "HH:MM à HH:MM" range found in a cell.
type TimeRange struct {
	Start string
	End   string
}

// Minutes returns end minus start in minutes, or 0 when either bound is not a valid clock time.
func (r TimeRange) Minutes() int {
	start, err := time.Parse("15:04", r.Start)
	if err != nil {
		return 0
	}
	end, err := time.Parse("15:04", r.End)
	if err != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// String formats the range the way cart items carry it: "de 10:00 à 11:00".
func (r TimeRange) String() string {
	return "de " + r.Start + " à " + r.End
}

// Descriptor is the structured view of a raw course cell.
type Descriptor struct {
	Raw          string
	Label        string
	Age          AgeCategory
	IsComplete   bool
	NoSpectacle  bool
	OnAudition   bool
	Teacher      *teacher.Teacher
	TimeRange    *TimeRange
	DisplayLines []string
}

// TeacherName returns the matched teacher's first name, or "" when none matched.
func (d Descriptor) TeacherName() string {
	if d.Teacher == nil {
		return ""
	}
	return d.Teacher.FirstName
}

// Parse extracts the structured fields of a raw course cell.
// Missing markers degrade to defaults; Parse never fails.
// PRE: roster may be empty
// POST: Returns a Descriptor whose Raw is the input text
func Parse(raw string, roster []teacher.Teacher) Descriptor {
	lower := strings.ToLower(raw)
	d := Descriptor{
		Raw:         raw,
		Label:       ExtractTitle(raw),
		Age:         ParseAgeCategory(raw),
		IsComplete:  strings.Contains(lower, markerComplete),
		NoSpectacle: strings.Contains(lower, markerNoSpectacle),
		OnAudition:  strings.Contains(lower, markerAudition),
	}
	if tr, ok := ParseTimeRange(raw); ok {
		d.TimeRange = &tr
	}
	if t, ok := MatchTeacher(raw, roster); ok {
		d.Teacher = &t
	}
	d.DisplayLines = displayLines(raw, d.TeacherName())
	return d
}

// ExtractTitle returns the label="X" marker value, or the first line trimmed.
func ExtractTitle(raw string) string {
	if m := labelPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	first, _, _ := strings.Cut(raw, "\n")
	return strings.TrimSpace(first)
}

// ParseAgeCategory finds the first line mentioning an age token and classifies it.
// Within that line "enfant" beats "adulte", which beats "ado".
func ParseAgeCategory(raw string) AgeCategory {
	for _, line := range strings.Split(raw, "\n") {
		l := strings.ToLower(line)
		for _, at := range ageTokens {
			if strings.Contains(l, at.token) {
				return categoryInLine(l)
			}
		}
	}
	return AgeNone
}

func categoryInLine(line string) AgeCategory {
	for _, at := range ageTokens {
		if strings.Contains(line, at.token) {
			return at.category
		}
	}
	return AgeNone
}

// ParseTimeRange finds the first "HH:MM à HH:MM" range in text.
func ParseTimeRange(text string) (TimeRange, bool) {
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return TimeRange{}, false
	}
	return TimeRange{Start: m[1], End: m[2]}, true
}

// MatchTeacher returns the first roster teacher whose first name appears in a line.
// Lines are scanned in order; for each line the roster is scanned in order.
// Matching is a case-insensitive substring test, so a first name that is a
// substring of another word also matches.
func MatchTeacher(raw string, roster []teacher.Teacher) (teacher.Teacher, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		for _, t := range roster {
			first := strings.ToLower(strings.TrimSpace(t.FirstName))
			if first == "" {
				continue
			}
			if strings.Contains(line, first) {
				return t, true
			}
		}
	}
	return teacher.Teacher{}, false
}

// OfficialLabel returns the course name written to booking rows and emails:
// the label marker if present, else the lines carrying no time, marker or
// keyword, joined by spaces.
func OfficialLabel(raw string) string {
	if m := labelPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if notLabelPattern.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// displayLines returns the lines shown inside a grid cell.
func displayLines(raw, teacherFirstName string) []string {
	first := strings.ToLower(teacherFirstName)
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = keywordPattern.ReplaceAllString(line, "")
		if first != "" && strings.Contains(strings.ToLower(line), first) {
			continue
		}
		if labelLinePattern.MatchString(line) {
			continue
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
