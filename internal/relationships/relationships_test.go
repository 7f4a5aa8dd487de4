package relationships

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pi22by7/semcore/internal/types"
)

func concept(id, name string, ct types.ConceptType, file string, start, end uint32) types.SemanticConcept {
	return types.SemanticConcept{
		ID:          id,
		Name:        name,
		ConceptType: ct,
		Confidence:  0.8,
		FilePath:    file,
		LineRange:   types.LineRange{Start: start, End: end},
	}
}

func hasEdge(edges []string, edge string) bool {
	for _, e := range edges {
		if e == edge {
			return true
		}
	}
	return false
}

func TestLearn_SpatialProximity(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "func1", types.ConceptFunction, "test.rs", 1, 5),
		concept("2", "func2", types.ConceptFunction, "test.rs", 8, 12),
		concept("3", "func3", types.ConceptFunction, "test.rs", 50, 60),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	assert.True(t, hasEdge(rels["1"], "spatial_proximity:2"))
	assert.True(t, hasEdge(rels["2"], "spatial_proximity:1"))
	assert.False(t, hasEdge(rels["1"], "spatial_proximity:3"))
}

func TestLearn_NamingGetSetPattern(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "getUserName", types.ConceptFunction, "test.rs", 1, 5),
		concept("2", "setUserName", types.ConceptFunction, "test.rs", 10, 15),
		concept("3", "getData", types.ConceptFunction, "test.rs", 20, 25),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	assert.True(t, hasEdge(rels["1"], "naming_pattern:2"))
}

func TestLearn_SameTypeRelationship(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "func1", types.ConceptFunction, "test.rs", 1, 5),
		concept("2", "func2", types.ConceptFunction, "test.rs", 100, 105),
		concept("3", "Class1", types.ConceptClass, "test.rs", 200, 230),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	assert.True(t, hasEdge(rels["1"], "same_type:2"))
	assert.False(t, hasEdge(rels["1"], "same_type:3"))
}

func TestLearn_CrossTypeMemberOf(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "TestClass", types.ConceptClass, "test.rs", 1, 30),
		concept("2", "method1", types.ConceptMethod, "test.rs", 5, 10),
		concept("3", "field1", types.ConceptVariable, "test.rs", 15, 15),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	assert.True(t, hasEdge(rels["2"], "member_of:1"))
	assert.True(t, hasEdge(rels["1"], "contains:2"))
	assert.True(t, hasEdge(rels["3"], "scoped_in:1"))
}

func TestLearn_SameFileRelationship(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "a", types.ConceptFunction, "a.go", 1, 5),
		concept("2", "b", types.ConceptFunction, "a.go", 10, 15),
		concept("3", "c", types.ConceptFunction, "b.go", 1, 5),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	assert.True(t, hasEdge(rels["1"], "same_file:2"))
	assert.False(t, hasEdge(rels["1"], "same_file:3"))
}

func TestLearn_ImportRelationship(t *testing.T) {
	iface := concept("1", "Widget", types.ConceptInterface, "widget.go", 1, 10)
	consumer := concept("2", "Consumer", types.ConceptClass, "consumer.go", 1, 20)
	consumer.Metadata = map[string]string{"imports": "Widget, Other"}

	rels := NewRelationshipLearner().Learn([]types.SemanticConcept{iface, consumer})

	assert.True(t, hasEdge(rels["2"], "imports:1"))
	assert.True(t, hasEdge(rels["1"], "imported_by:2"))
}

func TestLearn_NoDuplicateEdges(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "func1", types.ConceptFunction, "test.rs", 1, 5),
		concept("2", "func2", types.ConceptFunction, "test.rs", 8, 12),
	}

	rels := NewRelationshipLearner().Learn(concepts)

	count := 0
	for _, e := range rels["1"] {
		if e == "spatial_proximity:2" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestHasNamingRelationship_GetSetAndTest(t *testing.T) {
	assert.True(t, hasNamingRelationship("getName", "setName"))
	assert.True(t, hasNamingRelationship("testFunction", "function"))
	assert.False(t, hasNamingRelationship("foo", "bar"))
}

func TestIsFunctionInClass_InsideAndOutside(t *testing.T) {
	class := concept("1", "TestClass", types.ConceptClass, "test.rs", 1, 30)
	inside := concept("2", "method1", types.ConceptFunction, "test.rs", 5, 10)
	outside := concept("3", "method2", types.ConceptFunction, "test.rs", 35, 40)

	assert.True(t, isFunctionInClass(&inside, &class))
	assert.False(t, isFunctionInClass(&outside, &class))
}

func TestLineDistance_DifferentFilesInfinite(t *testing.T) {
	c1 := concept("1", "func1", types.ConceptFunction, "test.rs", 1, 5)
	c2 := concept("2", "func2", types.ConceptFunction, "test.rs", 10, 15)
	c3 := concept("3", "func3", types.ConceptFunction, "other.rs", 1, 5)

	assert.Equal(t, uint32(5), lineDistance(&c1, &c2))
	assert.Equal(t, ^uint32(0), lineDistance(&c1, &c3))
}

func TestApplyToConcepts_SetsRepresentativeEdge(t *testing.T) {
	concepts := []types.SemanticConcept{
		concept("1", "func1", types.ConceptFunction, "test.rs", 1, 5),
		concept("2", "func2", types.ConceptFunction, "test.rs", 8, 12),
	}
	edges := NewRelationshipLearner().Learn(concepts)
	ApplyToConcepts(concepts, edges)

	assert.Equal(t, "2", concepts[0].Relationships["spatial_proximity"])
}
