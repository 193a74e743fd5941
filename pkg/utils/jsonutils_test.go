package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNestedMap(t *testing.T) {
	data, err := ParseJSON(`{"terms":{"OnDemand":{"sku":{"a":1}}}}`)
	require.NoError(t, err)

	onDemand, err := GetNestedMap(data, "terms", "OnDemand")
	require.NoError(t, err)
	assert.Contains(t, onDemand, "sku")

	_, err = GetNestedMap(data, "terms", "Reserved")
	assert.Error(t, err)
}

func TestParseJSONInvalid(t *testing.T) {
	_, err := ParseJSON("{")
	assert.Error(t, err)
}

func TestGetFirstMapValueEmpty(t *testing.T) {
	_, err := GetFirstMapValue(map[string]interface{}{})
	assert.Error(t, err)
}
