// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package procgraph turns a methodology summary into a linear flowchart.
//
// Sentences naming a process verb or a sequence connective become steps, in
// document order. Steps are chained Start -> S1 -> ... -> End; branching is
// never inferred. Fewer than MinSteps steps yields no graph.
package procgraph

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/paper-summarizer/internal/textutil"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// Terminal node IDs.
const (
	StartID = "Start"
	EndID   = "End"
)

// Node is one step of the process.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Edge is a directed link between node IDs.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is a linear chain of steps between the Start and End terminals.
// Nodes holds only the steps.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

var (
	parenRe   = regexp.MustCompile(`\s*\([^()]*\)`)
	bracketRe = regexp.MustCompile(`\s*\[[^\[\]]*\]`)
)

// Generator detects steps and builds graphs. It is safe for concurrent use.
type Generator struct {
	cfg   types.GraphConfig
	vocab *Vocabulary
}

// New returns a Generator. A nil vocab uses DefaultVocabulary.
func New(cfg types.GraphConfig, vocab *Vocabulary) *Generator {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if cfg.MinSteps < 2 {
		cfg.MinSteps = 2
	}
	if cfg.MaxLabelChars <= 3 {
		cfg.MaxLabelChars = 80
	}
	return &Generator{cfg: cfg, vocab: vocab}
}

// Steps returns the step sentences of text in document order.
func (g *Generator) Steps(text string) []string {
	var steps []string
	for _, sent := range textutil.Sentences(text) {
		if g.vocab.IsStep(textutil.Tokens(sent)) {
			steps = append(steps, sent)
		}
	}
	return steps
}

// Build returns the process graph of text, or false when fewer than
// MinSteps steps are found.
func (g *Generator) Build(text string) (Graph, bool) {
	steps := g.Steps(text)
	if len(steps) < g.cfg.MinSteps {
		return Graph{}, false
	}

	gr := Graph{Nodes: make([]Node, len(steps))}
	prev := StartID
	for i, s := range steps {
		id := fmt.Sprintf("S%d", i+1)
		gr.Nodes[i] = Node{ID: id, Label: g.label(s)}
		gr.Edges = append(gr.Edges, Edge{From: prev, To: id})
		prev = id
	}
	gr.Edges = append(gr.Edges, Edge{From: prev, To: EndID})
	return gr, true
}

// Generate returns the Mermaid flowchart of text, or "" when no process is
// detected.
func (g *Generator) Generate(text string) string {
	gr, ok := g.Build(text)
	if !ok {
		return ""
	}
	return gr.Mermaid()
}

// label strips citations and parenthetical asides and truncates the
// sentence to MaxLabelChars on a word boundary.
func (g *Generator) label(sentence string) string {
	s := textutil.Clean(sentence)
	for {
		next := bracketRe.ReplaceAllString(parenRe.ReplaceAllString(s, ""), "")
		if next == s {
			break
		}
		s = next
	}
	s = textutil.NormalizeSpace(strings.ReplaceAll(s, " .", "."))
	s = strings.ReplaceAll(s, " ,", ",")

	limit := g.cfg.MaxLabelChars
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit-3]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:") + "..."
}

// Mermaid serializes the graph as a top-down Mermaid flowchart.
func (gr Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	fmt.Fprintf(&b, "    %s([Start])\n", StartID)
	for _, n := range gr.Nodes {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", n.ID, escapeLabel(n.Label))
	}
	fmt.Fprintf(&b, "    %s([End])\n", EndID)
	for _, e := range gr.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.To)
	}
	return b.String()
}

func escapeLabel(s string) string {
	return strings.NewReplacer(`"`, "'", "\n", " ").Replace(s)
}
