package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("read:items"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate(42))
}

func TestScopeName(t *testing.T) {
	tests := []struct {
		name    string
		scope   string
		wantErr bool
	}{
		{"simple", "read", false},
		{"namespaced", "read:items", false},
		{"dotted", "billing.invoices:write", false},
		{"dashed", "read-only", false},
		{"empty", "", true},
		{"uppercase", "Read:Items", true},
		{"spaces", "read items", true},
		{"leading separator", ":read", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ScopeName.Validate(tt.scope)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMetadataSize(t *testing.T) {
	assert.NoError(t, MetadataSize.Validate(nil))
	assert.NoError(t, MetadataSize.Validate(map[string]any{"env": "prod"}))

	big := map[string]any{"blob": strings.Repeat("x", MaxMetadataBytes)}
	assert.Error(t, MetadataSize.Validate(big))
}
