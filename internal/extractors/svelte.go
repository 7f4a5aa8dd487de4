package extractors

import (
	"regexp"
	"strings"

	"github.com/pi22by7/semcore/internal/parser"
	"github.com/pi22by7/semcore/internal/types"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
	componentTagPattern = regexp.MustCompile(`<([A-Z][\w.]*|[a-z][\w]*-[\w-]*)\b`)
)

// ExtractSvelteConcepts isolates a Svelte component's <script> block and
// re-parses it as JavaScript (no tree-sitter-svelte grammar is wired in),
// then regex-scans the template for component-shaped tag usages: a
// capitalized tag name or a hyphenated custom-element name, the two
// conventions Svelte itself uses to tell a component from a plain HTML
// element.
func ExtractSvelteConcepts(m *parser.Manager, source []byte, filePath string) []types.SemanticConcept {
	text := string(source)
	var out []types.SemanticConcept

	if loc := scriptBlockPattern.FindStringSubmatchIndex(text); loc != nil {
		scriptStart, scriptEnd := loc[2], loc[3]
		scriptText := text[scriptStart:scriptEnd]
		lineOffset := uint32(strings.Count(text[:scriptStart], "\n"))
		if t, err := m.Parse([]byte(scriptText), "javascript"); err == nil {
			for _, c := range ExtractConcepts(t, filePath) {
				c.LineRange.Start += lineOffset
				c.LineRange.End += lineOffset
				c.ID = conceptID(filePath, c.ConceptType, c.Name, c.LineRange.Start)
				out = append(out, c)
			}
		}
	}

	seen := make(map[string]bool)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		for _, m := range componentTagPattern.FindAllStringSubmatch(line, -1) {
			name := m[1]
			key := name
			if seen[key] {
				continue
			}
			seen[key] = true
			lineNo := uint32(i + 1)
			c := types.SemanticConcept{
				ID:          conceptID(filePath, types.ConceptComponent, name, lineNo),
				Name:        name,
				ConceptType: types.ConceptComponent,
				Confidence:  types.ConfidenceAST,
				FilePath:    filePath,
				LineRange:   types.LineRange{Start: lineNo, End: lineNo},
			}
			c.SetMetadata("source", "svelte_template_scan")
			out = append(out, c)
		}
	}
	return out
}
