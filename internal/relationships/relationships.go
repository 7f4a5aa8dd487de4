// Package relationships learns edges between semantic concepts along four
// independent axes — spatial proximity, naming conventions, shared concept
// type and file/import organization — and returns them as the engine-level
// edge store consumed by SemanticAnalyzer.GetConceptRelationships, distinct
// from each concept's own single-valued Relationships field.
package relationships

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/pi22by7/semcore/internal/types"
)

// spatialProximityLines is the line-distance threshold under which two
// concepts in the same file are considered spatially related.
const spatialProximityLines = 10

// nameSimilarityThreshold is the minimum LCS-based similarity two concept
// names must share to be linked by naming_similarity.
const nameSimilarityThreshold = 0.6

// memberOfTolerance is the number of extra lines past a class/interface's
// own end line that a member function/method is still considered inside it.
const memberOfTolerance = 5

// RelationshipLearner discovers edges across a whole concept set and
// accumulates them into a from-id -> ["type:to_id", ...] edge store.
type RelationshipLearner struct{}

func NewRelationshipLearner() *RelationshipLearner { return &RelationshipLearner{} }

// Learn runs all four relationship passes over concepts and returns the
// resulting edge store, keyed by concept id.
func (l *RelationshipLearner) Learn(concepts []types.SemanticConcept) map[string][]string {
	relationships := make(map[string][]string)
	analyzeSpatialRelationships(concepts, relationships)
	analyzeNamingRelationships(concepts, relationships)
	analyzeTypeRelationships(concepts, relationships)
	analyzeFileRelationships(concepts, relationships)
	return relationships
}

func groupByFile(concepts []types.SemanticConcept) map[string][]*types.SemanticConcept {
	groups := make(map[string][]*types.SemanticConcept)
	for i := range concepts {
		c := &concepts[i]
		groups[c.FilePath] = append(groups[c.FilePath], c)
	}
	return groups
}

func analyzeSpatialRelationships(concepts []types.SemanticConcept, relationships map[string][]string) {
	for _, group := range groupByFile(concepts) {
		for i, c1 := range group {
			for _, c2 := range group[i+1:] {
				if lineDistance(c1, c2) <= spatialProximityLines {
					addRelationship(relationships, c1.ID, c2.ID, "spatial_proximity")
					addRelationship(relationships, c2.ID, c1.ID, "spatial_proximity")
				}
			}
		}
	}
}

func analyzeNamingRelationships(concepts []types.SemanticConcept, relationships map[string][]string) {
	for i := range concepts {
		c1 := &concepts[i]
		for j := range concepts {
			c2 := &concepts[j]
			if c1.ID == c2.ID {
				continue
			}
			if nameSimilarity(c1.Name, c2.Name) > nameSimilarityThreshold {
				addRelationship(relationships, c1.ID, c2.ID, "naming_similarity")
			}
			if hasNamingRelationship(c1.Name, c2.Name) {
				addRelationship(relationships, c1.ID, c2.ID, "naming_pattern")
			}
		}
	}
}

func analyzeTypeRelationships(concepts []types.SemanticConcept, relationships map[string][]string) {
	typeGroups := make(map[types.ConceptType][]*types.SemanticConcept)
	for i := range concepts {
		c := &concepts[i]
		typeGroups[c.ConceptType] = append(typeGroups[c.ConceptType], c)
	}
	for _, group := range typeGroups {
		for i, c1 := range group {
			for _, c2 := range group[i+1:] {
				addRelationship(relationships, c1.ID, c2.ID, "same_type")
				addRelationship(relationships, c2.ID, c1.ID, "same_type")
			}
		}
	}
	analyzeCrossTypeRelationships(concepts, relationships)
}

func analyzeCrossTypeRelationships(concepts []types.SemanticConcept, relationships map[string][]string) {
	for i := range concepts {
		c := &concepts[i]
		switch c.ConceptType {
		case types.ConceptFunction, types.ConceptMethod:
			for j := range concepts {
				other := &concepts[j]
				if (other.ConceptType == types.ConceptClass || other.ConceptType == types.ConceptInterface) && isFunctionInClass(c, other) {
					addRelationship(relationships, c.ID, other.ID, "member_of")
					addRelationship(relationships, other.ID, c.ID, "contains")
				}
			}
		case types.ConceptVariable, types.ConceptField:
			for j := range concepts {
				other := &concepts[j]
				if (other.ConceptType == types.ConceptFunction || other.ConceptType == types.ConceptClass) && isVariableInScope(c, other) {
					addRelationship(relationships, c.ID, other.ID, "scoped_in")
				}
			}
		}
	}
}

func analyzeFileRelationships(concepts []types.SemanticConcept, relationships map[string][]string) {
	fileGroups := groupByFile(concepts)
	for _, group := range fileGroups {
		for i, c1 := range group {
			for _, c2 := range group[i+1:] {
				addRelationship(relationships, c1.ID, c2.ID, "same_file")
			}
		}
	}
	analyzeImportRelationships(fileGroups, relationships)
}

func analyzeImportRelationships(fileGroups map[string][]*types.SemanticConcept, relationships map[string][]string) {
	for file1, concepts1 := range fileGroups {
		for file2, concepts2 := range fileGroups {
			if file1 == file2 {
				continue
			}
			for _, c1 := range concepts1 {
				if c1.ConceptType != types.ConceptClass && c1.ConceptType != types.ConceptInterface {
					continue
				}
				for _, c2 := range concepts2 {
					imports, ok := c2.Metadata["imports"]
					if !ok || !strings.Contains(imports, c1.Name) {
						continue
					}
					addRelationship(relationships, c2.ID, c1.ID, "imports")
					addRelationship(relationships, c1.ID, c2.ID, "imported_by")
				}
			}
		}
	}
}

func lineDistance(c1, c2 *types.SemanticConcept) uint32 {
	if c1.FilePath != c2.FilePath {
		return ^uint32(0)
	}
	start1, end1 := c1.LineRange.Start, c1.LineRange.End
	start2, end2 := c2.LineRange.Start, c2.LineRange.End
	switch {
	case end1 < start2:
		return start2 - end1
	case end2 < start1:
		if start1 < end2 {
			return 0
		}
		return start1 - end2
	default:
		return 0
	}
}

// nameSimilarity reports the longest-common-subsequence similarity of two
// names, normalized by the longer name's length.
func nameSimilarity(name1, name2 string) float64 {
	if name1 == name2 {
		return 1.0
	}
	maxLen := len(name1)
	if len(name2) > maxLen {
		maxLen = len(name2)
	}
	if maxLen == 0 {
		return 1.0
	}
	common := edlib.LCS(name1, name2)
	return float64(common) / float64(maxLen)
}

func hasNamingRelationship(name1, name2 string) bool {
	l1, l2 := strings.ToLower(name1), strings.ToLower(name2)

	if strings.HasPrefix(l1, "get") && strings.HasPrefix(l2, "set") {
		return l1[3:] == l2[3:]
	}

	if strings.Contains(l1, "test") || strings.Contains(l2, "test") {
		clean1 := strings.ReplaceAll(l1, "test", "")
		clean2 := strings.ReplaceAll(l2, "test", "")
		return clean1 == clean2 || clean1 == "" || clean2 == ""
	}

	return false
}

func isFunctionInClass(function, class *types.SemanticConcept) bool {
	if function.FilePath != class.FilePath {
		return false
	}
	return function.LineRange.Start >= class.LineRange.Start &&
		function.LineRange.End <= class.LineRange.End+memberOfTolerance
}

func isVariableInScope(variable, scope *types.SemanticConcept) bool {
	if variable.FilePath != scope.FilePath {
		return false
	}
	return variable.LineRange.Start >= scope.LineRange.Start &&
		variable.LineRange.End <= scope.LineRange.End
}

func addRelationship(relationships map[string][]string, fromID, toID, relationshipType string) {
	relationship := fmt.Sprintf("%s:%s", relationshipType, toID)
	for _, existing := range relationships[fromID] {
		if existing == relationship {
			return
		}
	}
	relationships[fromID] = append(relationships[fromID], relationship)
}

// ApplyToConcepts mirrors one representative edge per label back onto each
// concept's own Relationships field, giving the complexity analyzer's
// per-concept relationship-depth heuristic a non-trivial signal. The full,
// multi-valued edge set stays in the map Learn returned.
func ApplyToConcepts(concepts []types.SemanticConcept, edges map[string][]string) {
	for i := range concepts {
		c := &concepts[i]
		for _, edge := range edges[c.ID] {
			label, target, ok := strings.Cut(edge, ":")
			if !ok {
				continue
			}
			c.AddRelationship(label, target)
		}
	}
}
