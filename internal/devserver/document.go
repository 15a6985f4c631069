package devserver

import (
	"fmt"
	"hash/fnv"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rootmind/go-rootmind/internal/api"
)

// maxPlanSections caps the derived study plan.
const maxPlanSections = 5

// maxSources caps the citations on one answer.
const maxSources = 3

var planTemplates = []api.StudyItem{
	{Section: "Introduction to %s", Objective: "Identify the scope and vocabulary of %s."},
	{Section: "Core concepts", Objective: "Explain the fundamental ideas of %s in your own words."},
	{Section: "Key results", Objective: "State the main results of %s and when they apply."},
	{Section: "Worked examples", Objective: "Apply %s to the examples in the document."},
	{Section: "Review", Objective: "Summarize %s and check your understanding."},
}

// document is an ingested upload. Only its size is looked at.
type document struct {
	id       string
	filename string
	bytes    int64
	chunks   int
	meta     *api.StudyMetadata
}

func newDocument(id, filename string, size int64, chunkSize int) *document {
	chunks := int((size + int64(chunkSize) - 1) / int64(chunkSize))
	return &document{id: id, filename: filename, bytes: size, chunks: chunks}
}

// pages estimates the page count from the chunk count.
func (d *document) pages() int {
	return max(1, (d.chunks+1)/2)
}

// title turns "intro_to-thermodynamics.pdf" into "Intro To Thermodynamics".
func (d *document) title() string {
	base := strings.TrimSuffix(filepath.Base(d.filename), filepath.Ext(d.filename))
	base = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == '.' {
			return ' '
		}
		return r
	}, base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return "Study Document"
	}
	return cases.Title(language.English).String(base)
}

// deriveMetadata builds a plan with one section per two chunks, capped.
func (d *document) deriveMetadata() *api.StudyMetadata {
	title := d.title()
	n := min(maxPlanSections, max(1, (d.chunks+1)/2))
	if d.chunks == 0 {
		n = 0
	}
	plan := make([]api.StudyItem, 0, n)
	for _, tmpl := range planTemplates[:n] {
		plan = append(plan, api.StudyItem{
			Section:   strings.ReplaceAll(tmpl.Section, "%s", title),
			Objective: strings.ReplaceAll(tmpl.Objective, "%s", title),
		})
	}
	return &api.StudyMetadata{Title: title, StudyPlan: plan}
}

// answer returns a canned reply citing pages picked from the question, in
// ascending page order with one source per page. An empty document yields an
// empty answer.
func (d *document) answer(question string) api.Answer {
	if d.chunks == 0 {
		return api.Answer{}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(question))))
	seed := int(h.Sum32() >> 1)

	pages := make([]int, 0, maxSources)
	for i := 0; i < maxSources; i++ {
		p := (seed+i*7)%d.pages() + 1
		if !slices.Contains(pages, p) {
			pages = append(pages, p)
		}
	}
	slices.Sort(pages)

	sources := make([]api.Source, len(pages))
	refs := make([]string, len(pages))
	for i, p := range pages {
		sources[i] = api.Source{File: d.filename, Page: api.Page(fmt.Sprint(p))}
		refs[i] = fmt.Sprintf("p. %d", p)
	}

	text := fmt.Sprintf("**%s** covers this question. Start with the fundamentals, then work toward the applications (see %s).\n\n"+
		"What part of %q would you like to go through first?",
		d.title(), strings.Join(refs, ", "), strings.TrimSpace(question))
	return api.Answer{Text: text, Sources: sources}
}
