package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "github.com/keygate/keygate/internal/errors"
)

// Query is a boolean expression over scope names. A query is exactly one of
// a leaf (a scope name), an And node or an Or node. The JSON form encodes a
// leaf as a bare string and the compound nodes as {"and": [...]} or
// {"or": [...]} objects with a single key.
type Query struct {
	Scope string
	And   []Query
	Or    []Query
}

// queryNode is the JSON object form of a compound query.
type queryNode struct {
	And []Query `json:"and,omitempty"`
	Or  []Query `json:"or,omitempty"`
}

// IsLeaf reports whether the query is a single scope name.
func (q Query) IsLeaf() bool {
	return q.Scope != ""
}

// Validate rejects structurally malformed queries: a node must be exactly
// one of leaf, and, or, and compound nodes must not be empty.
func (q Query) Validate() error {
	set := 0
	if q.Scope != "" {
		set++
	}
	if q.And != nil {
		set++
	}
	if q.Or != nil {
		set++
	}
	if set != 1 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "scope query node must be exactly one of a scope name, and, or")
	}

	children := q.And
	if q.Or != nil {
		children = q.Or
	}
	if children != nil && len(children) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "scope query node must not be empty")
	}
	for _, child := range children {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Evaluate checks the query against the held scope set. For a failed And it
// returns the first failing sub-query's message so callers learn which
// prerequisite is missing. A failed Or returns a generic message and does
// not reveal which alternatives were tried.
func (q Query) Evaluate(held map[string]struct{}) (bool, string) {
	switch {
	case q.IsLeaf():
		if _, ok := held[q.Scope]; ok {
			return true, ""
		}
		return false, fmt.Sprintf("missing scope %q", q.Scope)

	case q.And != nil:
		for _, child := range q.And {
			if ok, message := child.Evaluate(held); !ok {
				return false, message
			}
		}
		return true, ""

	default:
		for _, child := range q.Or {
			if ok, _ := child.Evaluate(held); ok {
				return true, ""
			}
		}
		return false, "none of the alternative scopes matched"
	}
}

// MarshalJSON encodes a leaf as a bare string and compound nodes as a
// single-key object.
func (q Query) MarshalJSON() ([]byte, error) {
	if q.IsLeaf() {
		return json.Marshal(q.Scope)
	}
	return json.Marshal(queryNode{And: q.And, Or: q.Or})
}

// UnmarshalJSON is the inverse of MarshalJSON. Unknown keys, nodes setting
// both and/or, and empty compound nodes are rejected.
func (q *Query) UnmarshalJSON(data []byte) error {
	var leaf string
	if err := json.Unmarshal(data, &leaf); err == nil {
		if leaf == "" {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "scope name must not be empty")
		}
		*q = Query{Scope: leaf}
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var node queryNode
	if err := decoder.Decode(&node); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "malformed scope query")
	}

	*q = Query{And: node.And, Or: node.Or}
	return q.Validate()
}
