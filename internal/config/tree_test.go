package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromJSONResolvesNestedChildren(t *testing.T) {
	tr, err := FromJSON([]byte(`{
		"unionizer": {
			"union_heuristic": "obtuse",
			"match_tags": ["highway", "ref"],
			"angle_union_sample_ratio": 0.2
		}
	}`))
	assert.NoError(t, err)

	child, ok := tr.GetChild("unionizer")
	assert.True(t, ok, "expected unionizer child to be present")
	assert.Equal(t, "obtuse", child.GetString("union_heuristic", "greedy"))
	assert.Equal(t, 0.2, child.GetFloat("angle_union_sample_ratio", 0.1))
	assert.Equal(t, []string{"highway", "ref"}, child.GetStringSlice("match_tags"))
}

func TestGetStringReturnsDefaultWhenAbsent(t *testing.T) {
	tr := Empty()
	assert.Equal(t, "fallback", tr.GetString("missing", "fallback"))
}

func TestGetChildMissingReturnsFalse(t *testing.T) {
	tr := Empty()
	_, ok := tr.GetChild("adminizer")
	assert.False(t, ok, "expected no adminizer child in an empty tree")
}

func TestSetAndSubsequentGet(t *testing.T) {
	tr := Empty()
	tr.Set("param_name", "iso_a2")
	got, ok := tr.GetStringOptional("param_name")
	assert.True(t, ok)
	assert.Equal(t, "iso_a2", got)
}
