package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/fastygo/teamtracker/domain"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Randomizer is the source of randomness used for content selection.
// *math/rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

// Content is one reminder voice: a greeting, a body and a sign-off of the same tone.
type Content struct {
	Tone     Tone   `json:"tone"`
	Greeting string `json:"greeting"`
	Body     string `json:"body"`
	SignOff  string `json:"sign_off"`
}

// SummaryVariant names the daily summary layout.
type SummaryVariant string

const (
	VariantCongratulations SummaryVariant = "congratulations"
	VariantPartial         SummaryVariant = "partial"
)

// Generator selects reminder content and renders notification HTML.
// It is safe for concurrent use.
type Generator struct {
	catalog Catalog
	tmpl    *template.Template

	mu  sync.Mutex
	rnd Randomizer
}

// NewGenerator validates the catalog and parses the embedded templates. An
// empty pool is a CONFIGURATION error.
func NewGenerator(catalog Catalog, rnd Randomizer) (*Generator, error) {
	if rnd == nil {
		return nil, domain.NewError(domain.ErrCodeConfiguration, "random source is required")
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeConfiguration, "parse notification templates", err)
	}
	return &Generator{catalog: catalog, tmpl: tmpl, rnd: rnd}, nil
}

func (c Catalog) validate() error {
	if len(c.Tones) == 0 {
		return domain.WrapError(domain.ErrCodeConfiguration, "no reminder tones", domain.ErrEmptyPool)
	}
	for _, pool := range c.Tones {
		if len(pool.Greetings) == 0 || len(pool.Messages) == 0 || len(pool.SignOffs) == 0 {
			return domain.WrapError(domain.ErrCodeConfiguration, fmt.Sprintf("tone %q", pool.Tone), domain.ErrEmptyPool)
		}
	}
	if len(c.CompletedQuotes) == 0 {
		return domain.WrapError(domain.ErrCodeConfiguration, "completed quotes", domain.ErrEmptyPool)
	}
	if len(c.PendingQuotes) == 0 {
		return domain.WrapError(domain.ErrCodeConfiguration, "pending quotes", domain.ErrEmptyPool)
	}
	return nil
}

// SelectReminderContent picks a tone uniformly, then a greeting, a body and a
// sign-off from that tone. The greeting is addressed to userName.
func (g *Generator) SelectReminderContent(userName string) Content {
	g.mu.Lock()
	defer g.mu.Unlock()

	pool := g.catalog.Tones[g.rnd.Intn(len(g.catalog.Tones))]
	greeting := g.pick(pool.Greetings)
	return Content{
		Tone:     pool.Tone,
		Greeting: strings.ReplaceAll(greeting, namePlaceholder, userName),
		Body:     g.pick(pool.Messages),
		SignOff:  g.pick(pool.SignOffs),
	}
}

// RenderReminder renders reminder content as an HTML email body.
func (g *Generator) RenderReminder(content Content, appLink string) (string, error) {
	return g.render("reminder.gohtml", struct {
		Content
		AppLink string
	}{content, appLink})
}

// SummaryVariantFor returns the congratulations variant only when every task of
// the day is completed and there was at least one task.
func SummaryVariantFor(allTasks, completedTasks []domain.Task) SummaryVariant {
	if len(allTasks) > 0 && len(completedTasks) == len(allTasks) {
		return VariantCongratulations
	}
	return VariantPartial
}

type summaryData struct {
	Name      string
	Completed []string
	Pending   []string
	Quote     string
}

// RenderDailySummary renders the nightly summary of userName. With no tasks at
// all the partial variant is rendered with empty lists.
func (g *Generator) RenderDailySummary(userName string, allTasks, completedTasks []domain.Task) (string, error) {
	variant := SummaryVariantFor(allTasks, completedTasks)
	data := summaryData{
		Name:      userName,
		Completed: descriptions(completedTasks),
	}

	g.mu.Lock()
	if variant == VariantCongratulations {
		data.Quote = g.pick(g.catalog.CompletedQuotes)
	} else {
		data.Quote = g.pick(g.catalog.PendingQuotes)
	}
	g.mu.Unlock()

	if variant == VariantPartial {
		data.Pending = descriptions(pendingTasks(allTasks, completedTasks))
	}
	return g.render(string(variant)+".gohtml", data)
}

func (g *Generator) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "render "+name, err)
	}
	return buf.String(), nil
}

// pick must be called with mu held.
func (g *Generator) pick(pool []string) string {
	return pool[g.rnd.Intn(len(pool))]
}

func pendingTasks(allTasks, completedTasks []domain.Task) []domain.Task {
	done := make(map[string]struct{}, len(completedTasks))
	for _, task := range completedTasks {
		done[taskKey(task)] = struct{}{}
	}
	pending := make([]domain.Task, 0, len(allTasks))
	for _, task := range allTasks {
		if _, ok := done[taskKey(task)]; !ok {
			pending = append(pending, task)
		}
	}
	return pending
}

func taskKey(task domain.Task) string {
	if task.ID != "" {
		return task.ID
	}
	return task.Owner + "\x00" + task.Description
}

func descriptions(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Description)
	}
	return out
}
