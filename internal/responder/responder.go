// Package responder answers chat messages from a fixed question table.
// There is no inference: a question either matches exactly or gets the
// fallback reply.
package responder

import (
	"sort"

	"github.com/julianstephens/sutrr/internal/constants"
)

// Responder produces the bot reply for a user message
type Responder interface {
	Reply(text string) string
}

// Table is an exact-match question to answer lookup with a fallback
type Table struct {
	answers  map[string]string
	fallback string
}

// defaultAnswers are the canned wellness answers
var defaultAnswers = map[string]string{
	"What supplements support libido?":                 "Based on clinical evidence, Ashwagandha and Zinc are well-studied for supporting healthy libido. Our Vitality Boost Supplement combines both. However, please consult your doctor before starting any supplement regimen.",
	"How can I improve communication with my partner?": "Research shows that scheduled \"check-in\" conversations and using \"I feel\" statements can significantly improve intimate communication. Our Couples Communication Cards are designed by therapists for this purpose.",
	"Is it normal to have low energy?":                 "Fluctuations in energy are normal and influenced by sleep, stress, hormones, and nutrition. If persistent, consider speaking with one of our verified experts. You can book an anonymous session from the Expert Connect tab.",
	"What are pelvic floor exercises?":                 "Pelvic floor exercises (Kegels) strengthen the muscles supporting your bladder, uterus, and bowel. They can improve sexual function, bladder control, and recovery postpartum. Our Pelvic Floor Trainer offers guided programs.",
}

// SuggestedPrompts are offered on an empty chat
var SuggestedPrompts = []string{
	"😟 I feel anxious today",
	"💤 Tips for better sleep?",
	"❤️ How to improve intimacy?",
	"📅 Tracking my cycle",
}

// New builds a table. An empty fallback uses constants.FallbackReply.
func New(answers map[string]string, fallback string) *Table {
	if fallback == "" {
		fallback = constants.FallbackReply
	}
	t := &Table{answers: make(map[string]string, len(answers)), fallback: fallback}
	for q, a := range answers {
		t.answers[q] = a
	}
	return t
}

// Default returns the built-in wellness table
func Default() *Table {
	return New(defaultAnswers, constants.FallbackReply)
}

// Reply returns the answer for an exact question match, or the fallback
func (t *Table) Reply(text string) string {
	if a, ok := t.answers[text]; ok {
		return a
	}
	return t.fallback
}

// Questions lists the known questions in sorted order
func (t *Table) Questions() []string {
	qs := make([]string, 0, len(t.answers))
	for q := range t.answers {
		qs = append(qs, q)
	}
	sort.Strings(qs)
	return qs
}
