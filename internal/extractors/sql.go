package extractors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pi22by7/semcore/internal/types"
)

// ExtractSQLConcepts scans raw SQL text statement by statement. No SQL
// grammar binding is wired in, so this works directly on text instead of a
// parsed tree: it recognizes CREATE TABLE/VIEW/FUNCTION/INDEX/TRIGGER and
// SELECT/INSERT/UPDATE/DELETE by regex, mirroring the richer metadata a
// grammar-based extractor would attach (columns, or_replace/temporary/
// recursive flags, argument_count, indexed_table, query_type/target_table).
func ExtractSQLConcepts(source []byte, filePath string) []types.SemanticConcept {
	text := string(source)
	var out []types.SemanticConcept
	line := uint32(1)
	for _, stmt := range splitSQLStatements(text) {
		startLine := line
		line += uint32(strings.Count(stmt, "\n")) + 1
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		out = append(out, extractSQLStatement(stmt, filePath, startLine, line-1)...)
	}
	return out
}

// splitSQLStatements splits on top-level semicolons, skipping semicolons
// inside single-quoted string literals so they aren't misread as statement
// boundaries.
func splitSQLStatements(text string) []string {
	var stmts []string
	var buf strings.Builder
	inString := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\'' {
			inString = !inString
		}
		if ch == ';' && !inString {
			stmts = append(stmts, buf.String())
			buf.Reset()
			continue
		}
		buf.WriteByte(ch)
	}
	if strings.TrimSpace(buf.String()) != "" {
		stmts = append(stmts, buf.String())
	}
	return stmts
}

const identPattern = `[\w."` + "`" + `]+`

var (
	createTablePattern  = regexp.MustCompile(`(?is)^\s*create\s+(or\s+replace\s+)?(temp(?:orary)?\s+)?table\s+(if\s+not\s+exists\s+)?(` + identPattern + `)\s*\((.*)\)`)
	createViewPattern   = regexp.MustCompile(`(?is)^\s*create\s+(or\s+replace\s+)?(temp(?:orary)?\s+)?(recursive\s+)?view\s+(` + identPattern + `)`)
	createFuncPattern   = regexp.MustCompile(`(?is)^\s*create\s+(or\s+replace\s+)?(function|procedure)\s+(` + identPattern + `)\s*\(([^)]*)\)\s*(returns\s+(setof\s+)?([\w.\[\]]+))?`)
	createIndexPattern  = regexp.MustCompile(`(?is)^\s*create\s+(unique\s+)?index\s+(concurrently\s+)?(if\s+not\s+exists\s+)?(` + identPattern + `)\s+on\s+(` + identPattern + `)`)
	createTriggerPattern = regexp.MustCompile(`(?is)^\s*create\s+trigger\s+(` + identPattern + `)\s+(before|after|instead\s+of)\s+([a-z\s,]+?)\s+on\s+(` + identPattern + `)`)
	selectPattern  = regexp.MustCompile(`(?is)^\s*(with\b.*?)?select\b`)
	insertPattern  = regexp.MustCompile(`(?is)^\s*insert\s+into\s+(` + identPattern + `)`)
	updatePattern  = regexp.MustCompile(`(?is)^\s*update\s+(` + identPattern + `)`)
	deletePattern  = regexp.MustCompile(`(?is)^\s*delete\s+from\s+(` + identPattern + `)`)
	fromJoinPattern = regexp.MustCompile(`(?is)\b(?:from|join)\s+(` + identPattern + `)`)

	columnDefPattern = regexp.MustCompile(`(?is)^\s*(` + identPattern + `)\s+([\w.]+(?:\s*\([^)]*\))?)(.*)$`)
)

func extractSQLStatement(stmt, filePath string, startLine, endLine uint32) []types.SemanticConcept {
	trimmed := strings.TrimSpace(stmt)
	var out []types.SemanticConcept

	switch {
	case createTablePattern.MatchString(trimmed):
		m := createTablePattern.FindStringSubmatch(trimmed)
		name := stripIdentQuotes(m[4])
		if name == "" {
			return nil
		}
		c := newSQLConcept(filePath, types.ConceptTable, name, startLine, endLine, 0.9)
		if m[1] != "" {
			c.SetMetadata("or_replace", "true")
		}
		if m[2] != "" {
			c.SetMetadata("temporary", "true")
		}
		columns := extractSQLColumns(m[5], filePath, name, startLine)
		c.SetMetadata("column_count", strconv.Itoa(len(columns)))
		out = append(out, c)
		out = append(out, columns...)

	case createViewPattern.MatchString(trimmed):
		m := createViewPattern.FindStringSubmatch(trimmed)
		name := stripIdentQuotes(m[4])
		if name == "" {
			return nil
		}
		c := newSQLConcept(filePath, types.ConceptView, name, startLine, endLine, 0.9)
		if m[1] != "" {
			c.SetMetadata("or_replace", "true")
		}
		if m[2] != "" {
			c.SetMetadata("temporary", "true")
		}
		if m[3] != "" {
			c.SetMetadata("recursive", "true")
		}
		out = append(out, c)

	case createFuncPattern.MatchString(trimmed):
		m := createFuncPattern.FindStringSubmatch(trimmed)
		name := stripIdentQuotes(m[3])
		if name == "" {
			return nil
		}
		c := newSQLConcept(filePath, types.ConceptFunction, name, startLine, endLine, 0.85)
		argCount := countSQLArgs(m[4])
		c.SetMetadata("argument_count", strconv.Itoa(argCount))
		if m[7] != "" {
			c.SetMetadata("return_type", m[7])
		}
		if m[6] != "" {
			c.SetMetadata("returns_set", "true")
		}
		out = append(out, c)

	case createIndexPattern.MatchString(trimmed):
		m := createIndexPattern.FindStringSubmatch(trimmed)
		name := stripIdentQuotes(m[4])
		table := stripIdentQuotes(m[5])
		if name == "" {
			return nil
		}
		c := newSQLConcept(filePath, types.ConceptIndex, name, startLine, endLine, 0.9)
		if m[1] != "" {
			c.SetMetadata("unique", "true")
		}
		if m[2] != "" {
			c.SetMetadata("concurrent", "true")
		}
		if table != "" {
			c.AddRelationship("indexed_table", table)
		}
		out = append(out, c)

	case createTriggerPattern.MatchString(trimmed):
		m := createTriggerPattern.FindStringSubmatch(trimmed)
		name := stripIdentQuotes(m[1])
		table := stripIdentQuotes(m[4])
		if name == "" {
			return nil
		}
		c := newSQLConcept(filePath, types.ConceptTrigger, name, startLine, endLine, 0.9)
		c.SetMetadata("timing", strings.ToLower(m[2]))
		for _, ev := range strings.Fields(strings.ToLower(m[3])) {
			ev = strings.Trim(ev, ",")
			if ev == "" {
				continue
			}
			c.SetMetadata("event_"+ev, "true")
		}
		if table != "" {
			c.AddRelationship("target_table", table)
		}
		out = append(out, c)

	case insertPattern.MatchString(trimmed):
		m := insertPattern.FindStringSubmatch(trimmed)
		c := newSQLQueryConcept(filePath, "insert", startLine, endLine, 0.8)
		if table := stripIdentQuotes(m[1]); table != "" {
			c.SetMetadata("target_table", table)
			c.AddRelationship("query_type", "insert")
		}
		out = append(out, c)

	case updatePattern.MatchString(trimmed):
		m := updatePattern.FindStringSubmatch(trimmed)
		c := newSQLQueryConcept(filePath, "update", startLine, endLine, 0.8)
		if table := stripIdentQuotes(m[1]); table != "" {
			c.SetMetadata("target_table", table)
			c.AddRelationship("query_type", "update")
		}
		out = append(out, c)

	case deletePattern.MatchString(trimmed):
		m := deletePattern.FindStringSubmatch(trimmed)
		c := newSQLQueryConcept(filePath, "delete", startLine, endLine, 0.8)
		if table := stripIdentQuotes(m[1]); table != "" {
			c.SetMetadata("target_table", table)
			c.AddRelationship("query_type", "delete")
		}
		out = append(out, c)

	case selectPattern.MatchString(trimmed):
		c := newSQLQueryConcept(filePath, "select", startLine, endLine, 0.75)
		c.AddRelationship("query_type", "select")
		tables := referencedTables(trimmed)
		if len(tables) > 0 {
			c.SetMetadata("referenced_tables", strings.Join(tables, ","))
		}
		out = append(out, c)
	}

	return out
}

func newSQLConcept(filePath string, ct types.ConceptType, name string, start, end uint32, confidence float64) types.SemanticConcept {
	c := types.SemanticConcept{
		ID:          conceptID(filePath, ct, name, start),
		Name:        name,
		ConceptType: ct,
		Confidence:  confidence,
		FilePath:    filePath,
		LineRange:   types.LineRange{Start: start, End: end},
	}
	return c
}

func newSQLQueryConcept(filePath, queryType string, start, end uint32, confidence float64) types.SemanticConcept {
	name := queryType + "_query_L" + strconv.FormatUint(uint64(start), 10)
	c := newSQLConcept(filePath, types.ConceptQuery, name, start, end, confidence)
	c.SetMetadata("query_type", queryType)
	return c
}

func referencedTables(stmt string) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, m := range fromJoinPattern.FindAllStringSubmatch(stmt, -1) {
		t := stripIdentQuotes(m[1])
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tables = append(tables, t)
	}
	return tables
}

func stripIdentQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`\"")
	return s
}

// extractSQLColumns splits a CREATE TABLE's parenthesized body on top-level
// commas and classifies each entry as a column definition (as opposed to a
// table-level constraint like PRIMARY KEY (...) or FOREIGN KEY (...)).
func extractSQLColumns(body, filePath, table string, tableLine uint32) []types.SemanticConcept {
	var out []types.SemanticConcept
	for _, entry := range splitTopLevelCommas(body) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		lower := strings.ToLower(entry)
		if strings.HasPrefix(lower, "primary key") || strings.HasPrefix(lower, "foreign key") ||
			strings.HasPrefix(lower, "unique") || strings.HasPrefix(lower, "constraint") ||
			strings.HasPrefix(lower, "check") || strings.HasPrefix(lower, "index") {
			continue
		}
		m := columnDefPattern.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		name := stripIdentQuotes(m[1])
		if name == "" {
			continue
		}
		c := newSQLConcept(filePath, types.ConceptColumn, name, tableLine, tableLine, 0.85)
		c.SetMetadata("data_type", strings.TrimSpace(m[2]))
		rest := strings.ToLower(m[3])
		c.SetMetadata("nullable", strconv.FormatBool(!strings.Contains(rest, "not null")))
		if strings.Contains(rest, "primary key") {
			c.SetMetadata("primary_key", "true")
		}
		if strings.Contains(rest, "unique") {
			c.SetMetadata("unique", "true")
		}
		if strings.Contains(rest, "references") || strings.Contains(rest, "foreign key") {
			c.SetMetadata("foreign_key", "true")
		}
		if idx := strings.Index(rest, "default"); idx >= 0 {
			defaultClause := strings.TrimSpace(m[3][idx+len("default"):])
			if sp := strings.IndexAny(defaultClause, " \t,"); sp > 0 {
				defaultClause = defaultClause[:sp]
			}
			if defaultClause != "" {
				c.SetMetadata("default", defaultClause)
			}
		}
		c.AddRelationship("parent_table", table)
		out = append(out, c)
	}
	return out
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	var buf strings.Builder
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, buf.String())
				buf.Reset()
				continue
			}
		}
		buf.WriteRune(r)
	}
	if buf.Len() > 0 {
		parts = append(parts, buf.String())
	}
	return parts
}

func countSQLArgs(argList string) int {
	argList = strings.TrimSpace(argList)
	if argList == "" {
		return 0
	}
	return len(splitTopLevelCommas(argList))
}
