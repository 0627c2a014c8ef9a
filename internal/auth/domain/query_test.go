package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/keygate/keygate/internal/errors"
)

func heldScopes(names ...string) map[string]struct{} {
	held := make(map[string]struct{}, len(names))
	for _, name := range names {
		held[name] = struct{}{}
	}
	return held
}

func TestQueryEvaluateLeaf(t *testing.T) {
	query := Query{Scope: "read:items"}

	ok, _ := query.Evaluate(heldScopes("read:items"))
	assert.True(t, ok)

	ok, message := query.Evaluate(heldScopes("write:items"))
	assert.False(t, ok)
	assert.Equal(t, `missing scope "read:items"`, message)
}

func TestQueryEvaluateAnd(t *testing.T) {
	query := Query{And: []Query{{Scope: "a"}, {Scope: "b"}}}

	// A superset satisfies and.
	ok, _ := query.Evaluate(heldScopes("a", "b", "c"))
	assert.True(t, ok)

	// The failure names the missing prerequisite.
	ok, message := query.Evaluate(heldScopes("a"))
	assert.False(t, ok)
	assert.Equal(t, `missing scope "b"`, message)
}

func TestQueryEvaluateAndShortCircuits(t *testing.T) {
	query := Query{And: []Query{{Scope: "a"}, {Scope: "b"}}}

	// The first failing sub-query's message wins.
	ok, message := query.Evaluate(heldScopes())
	assert.False(t, ok)
	assert.Equal(t, `missing scope "a"`, message)
}

func TestQueryEvaluateOr(t *testing.T) {
	query := Query{Or: []Query{{Scope: "scope:read"}, {Scope: "scope:write"}}}

	ok, _ := query.Evaluate(heldScopes("scope:write"))
	assert.True(t, ok)

	// An or failure stays generic and does not name the alternatives.
	ok, message := query.Evaluate(heldScopes())
	assert.False(t, ok)
	assert.Equal(t, "none of the alternative scopes matched", message)
	assert.NotContains(t, message, "scope:read")
	assert.NotContains(t, message, "scope:write")
}

func TestQueryEvaluateNested(t *testing.T) {
	// (admin or (read and write))
	query := Query{Or: []Query{
		{Scope: "admin"},
		{And: []Query{{Scope: "read"}, {Scope: "write"}}},
	}}

	ok, _ := query.Evaluate(heldScopes("admin"))
	assert.True(t, ok)

	ok, _ = query.Evaluate(heldScopes("read", "write"))
	assert.True(t, ok)

	ok, _ = query.Evaluate(heldScopes("read"))
	assert.False(t, ok)
}

func TestQueryJSONRoundTrip(t *testing.T) {
	query := Query{Or: []Query{
		{Scope: "admin"},
		{And: []Query{{Scope: "read"}, {Scope: "write"}}},
	}}

	data, err := json.Marshal(query)
	require.NoError(t, err)
	assert.JSONEq(t, `{"or":["admin",{"and":["read","write"]}]}`, string(data))

	var decoded Query
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, query, decoded)
}

func TestQueryUnmarshalLeaf(t *testing.T) {
	var query Query
	require.NoError(t, json.Unmarshal([]byte(`"read:items"`), &query))
	assert.Equal(t, Query{Scope: "read:items"}, query)
}

func TestQueryUnmarshalRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty scope name", `""`},
		{"empty object", `{}`},
		{"both and and or", `{"and":["a"],"or":["b"]}`},
		{"empty and", `{"and":[]}`},
		{"unknown key", `{"xor":["a","b"]}`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var query Query
			err := json.Unmarshal([]byte(tt.data), &query)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
