package workflow

import (
	"fmt"
	"strings"
)

// Mermaid renders the compiled topology as a Mermaid flowchart:
//   - START and END: ((Circle))
//   - steps: [Rectangle]
//   - static edges: solid arrows
//   - dynamic edges: a dotted arrow into a {Diamond} decision node, with
//     dotted arrows to each declared target
func (e *Engine[S, St, U]) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	start, end := Start[S](), End[S]()
	endpoints := make([]Endpoint[S], 0, len(e.steps)+2)
	endpoints = append(endpoints, start)
	for _, step := range e.steps {
		endpoints = append(endpoints, At(step))
	}
	endpoints = append(endpoints, end)

	used := make(map[string]bool, len(endpoints))
	ids := make(map[Endpoint[S]]string, len(endpoints))
	for _, ep := range endpoints {
		ids[ep] = uniqueID(used, mermaidID(e.names[ep]))
	}

	for _, ep := range endpoints {
		opener, closer := "[", "]"
		if ep.IsStart() || ep.IsEnd() {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", ids[ep], opener, mermaidLabel(e.names[ep]), closer)
	}

	decisions := 0
	for _, edge := range e.edges {
		from := ids[edge.Source()]
		switch ed := edge.(type) {
		case StaticEdge[S]:
			fmt.Fprintf(&sb, "    %s --> %s\n", from, ids[ed.To])
		case DynamicEdge[S, St]:
			decisions++
			label := ed.Label
			if label == "" {
				label = "decide"
			}
			id := uniqueID(used, fmt.Sprintf("%s_decision_%d", from, decisions))
			fmt.Fprintf(&sb, "    %s{\"%s\"}\n", id, mermaidLabel(label))
			fmt.Fprintf(&sb, "    %s -.-> %s\n", from, id)
			for _, to := range ed.Targets {
				fmt.Fprintf(&sb, "    %s -.-> %s\n", id, ids[to])
			}
		}
	}
	return sb.String()
}

func mermaidID(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// uniqueID returns base, or base with the smallest free numeric suffix when
// two names sanitize to the same identifier.
func uniqueID(used map[string]bool, base string) string {
	id := base
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	used[id] = true
	return id
}

func mermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
