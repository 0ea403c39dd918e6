package visualization

import (
	"fmt"
	"strings"

	"github.com/anggasct/robo"
)

// Overlay carries runtime data to highlight on a diagram.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of def.
// Shapes:
// - initial: ((circle))
// - final: (((double circle)))
// - invoke: [[subroutine]]
// - other: [rectangle]
// Immediates are drawn dotted. The overlay, if given, styles visited states
// and the current one; otherwise def.Current is used as the current state.
func GenerateMermaid(def robo.Definition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, state := range def.States {
		id := sanitizeMermaidID(state.Name)

		opener, closer := "[", "]"
		switch {
		case state.Final:
			opener, closer = "(((", ")))"
		case state.Invoke != "":
			opener, closer = "[[", "]]"
		case state.Name == def.Initial:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, state.Name, closer)

		for _, t := range state.Transitions {
			to := sanitizeMermaidID(t.Target)
			label := t.Event
			if t.Guards > 0 {
				label += " ?"
			}
			if t.Immediate {
				if t.Guards > 0 {
					fmt.Fprintf(&sb, "    %s -. \"?\" .-> %s\n", id, to)
				} else {
					fmt.Fprintf(&sb, "    %s -.-> %s\n", id, to)
				}
				continue
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, strings.ReplaceAll(label, "\"", "'"), to)
		}
	}

	current := def.Current
	var visited []string
	if overlay != nil {
		visited = overlay.Visited
		if overlay.Current != "" {
			current = overlay.Current
		}
	}
	if current == "" && len(visited) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	seen := make(map[string]bool)
	for _, name := range visited {
		id := sanitizeMermaidID(name)
		if id != "" && !seen[id] {
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
	}
	if current != "" {
		fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(current))
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
