package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/robo"
)

// DOTGenerator generates Graphviz DOT format representations of machines
type DOTGenerator struct {
	definition robo.Definition
	options    DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowModifiers  bool
	ShowCurrent    bool
	RankDirection  string // "TB", "LR", "BT", "RL"
	NodeShape      string
	ImmediateStyle string
	InvokeShape    string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowModifiers:  true,
		ShowCurrent:    true,
		RankDirection:  "TB",
		NodeShape:      "box",
		ImmediateStyle: "dashed",
		InvokeShape:    "component",
	}
}

// NewDOTGenerator creates a new DOT generator for the given definition
func NewDOTGenerator(def robo.Definition, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		definition: def,
		options:    opts,
	}
}

// Generate creates a DOT representation of the machine
func (g *DOTGenerator) Generate() (string, error) {
	if len(g.definition.States) == 0 {
		return "", fmt.Errorf("machine %q has no states", g.definition.Name)
	}

	var dot strings.Builder

	name := "StateMachine"
	if g.definition.Name != "" {
		name = g.definition.Name
	}
	fmt.Fprintf(&dot, "digraph %q {\n", name)
	fmt.Fprintf(&dot, "  rankdir=%s;\n", g.options.RankDirection)
	fmt.Fprintf(&dot, "  node [shape=%s];\n", g.options.NodeShape)
	dot.WriteString("  edge [fontsize=10];\n\n")

	dot.WriteString("  // States\n")
	for _, state := range g.definition.States {
		g.generateStateNode(&dot, state)
	}

	dot.WriteString("\n  // Transitions\n")
	for _, state := range g.definition.States {
		for _, t := range state.Transitions {
			g.generateEdge(&dot, state.Name, t)
		}
	}

	dot.WriteString("}\n")
	return dot.String(), nil
}

// generateStateNode generates a DOT node for a single state
func (g *DOTGenerator) generateStateNode(dot *strings.Builder, state robo.StateDefinition) {
	shape := g.options.NodeShape
	fillColor := "lightblue"
	label := state.Name
	penWidth := 1

	if state.Name == g.definition.Initial {
		fillColor = "lightgreen"
		label += "\\n(initial)"
	}

	switch {
	case state.Final:
		shape = "doublecircle"
		fillColor = "lightcoral"
	case state.Invoke != "":
		shape = g.options.InvokeShape
		label = fmt.Sprintf("%s\\n[invoke %s]", label, state.Invoke)
	}

	if g.options.ShowCurrent && g.definition.Current != "" && state.Name == g.definition.Current {
		fillColor = "gold"
		penWidth = 3
	}

	fmt.Fprintf(dot, "  %q [shape=%s style=\"filled\" fillcolor=%s penwidth=%d label=\"%s\"];\n",
		state.Name, shape, fillColor, penWidth, label)
}

// generateEdge generates a DOT edge for one candidate
func (g *DOTGenerator) generateEdge(dot *strings.Builder, from string, t robo.TransitionDefinition) {
	label := t.Event
	if t.Immediate {
		label = "ε"
	}
	if g.options.ShowModifiers {
		label += modifierSuffix(t)
	}

	attrs := fmt.Sprintf("label=%q", label)
	if t.Immediate {
		attrs += fmt.Sprintf(" style=%s", g.options.ImmediateStyle)
	}
	fmt.Fprintf(dot, "  %q -> %q [%s];\n", from, t.Target, attrs)
}

// modifierSuffix summarizes guards and effects, e.g. " [g2 r1]".
func modifierSuffix(t robo.TransitionDefinition) string {
	var parts []string
	if t.Guards > 0 {
		parts = append(parts, fmt.Sprintf("g%d", t.Guards))
	}
	if t.Reducers > 0 {
		parts = append(parts, fmt.Sprintf("r%d", t.Reducers))
	}
	if t.Actions > 0 {
		parts = append(parts, fmt.Sprintf("a%d", t.Actions))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG renders the DOT output with the Graphviz dot command
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
