package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNodeKind_String verifies that NodeKind values produce the exact
// wire tokens used in menu labels.
func TestNodeKind_String(t *testing.T) {
	tests := []struct {
		kind     NodeKind
		expected string
	}{
		{KindEntry, "Entry"},
		{KindGroup, "Group"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

// TestNodeKind_IsValid checks that only defined kind values pass validation.
func TestNodeKind_IsValid(t *testing.T) {
	assert.True(t, KindEntry.IsValid())
	assert.True(t, KindGroup.IsValid())
	assert.False(t, NodeKind("entry").IsValid())
	assert.False(t, NodeKind("Folder").IsValid())
	assert.False(t, NodeKind("").IsValid())
}

// TestParseNodeKind verifies string-to-kind conversion. Matching is
// case-sensitive because the tokens are part of the menu label format.
func TestParseNodeKind(t *testing.T) {
	tests := []struct {
		input    string
		expected NodeKind
		hasError bool
	}{
		{"Entry", KindEntry, false},
		{"Group", KindGroup, false},
		{"entry", "", true}, // wrong case
		{"GROUP", "", true}, // wrong case
		{"Node", "", true},  // unknown token
		{"", "", true},      // empty string
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseNodeKind(tt.input)
			if tt.hasError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

// TestEntry_Lookup checks field lookup semantics:
// - First field with a matching key wins when keys are duplicated
// - Missing keys report ok=false
func TestEntry_Lookup(t *testing.T) {
	entry := Entry{Fields: []Field{
		{Key: FieldTitle, Value: "Email"},
		{Key: FieldPassword, Value: "abc123", Protected: true},
		{Key: FieldPassword, Value: "shadowed", Protected: true},
		{Key: "Custom", Value: "x"},
	}}

	t.Run("existing key", func(t *testing.T) {
		f, ok := entry.Lookup(FieldTitle)
		require.True(t, ok)
		assert.Equal(t, "Email", f.Value)
		assert.False(t, f.Protected)
	})

	t.Run("first match wins", func(t *testing.T) {
		f, ok := entry.Lookup(FieldPassword)
		require.True(t, ok)
		assert.Equal(t, "abc123", f.Value)
		assert.True(t, f.Protected)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := entry.Lookup(FieldURL)
		assert.False(t, ok)
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		_, ok := entry.Lookup("title")
		assert.False(t, ok)
	})
}

// TestEntry_Accessors verifies the named accessors over the standard
// KDBX field keys, including the empty-string fallback.
func TestEntry_Accessors(t *testing.T) {
	entry := Entry{Fields: []Field{
		{Key: FieldTitle, Value: "Email"},
		{Key: FieldUserName, Value: "alice"},
		{Key: FieldPassword, Value: "abc123", Protected: true},
		{Key: FieldURL, Value: "https://mail.example.com"},
	}}

	assert.Equal(t, "Email", entry.Title())
	assert.Equal(t, "alice", entry.Username())
	assert.Equal(t, "abc123", entry.Password())
	assert.Equal(t, "https://mail.example.com", entry.URL())

	empty := Entry{}
	assert.Equal(t, "", empty.Title())
	assert.Equal(t, "", empty.Password())
}

// TestMaskSecret checks the masking rules used whenever a secret value
// appears in logs or non-revealed display output.
func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"single char", "a", "..."},
		{"two chars", "ab", "..."},
		{"three chars", "abc", "a...c"},
		{"typical password", "abc123", "a...3"},
		{"long secret", "correct horse battery staple", "c...e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskSecret(tt.input))
		})
	}
}

// TestCLIError verifies the custom error type used for exit code mapping.
func TestCLIError(t *testing.T) {
	t.Run("simple error", func(t *testing.T) {
		err := NewCLIError(ExitDatabase, "could not open database")
		assert.Equal(t, ExitDatabase, err.Code)
		assert.Equal(t, "could not open database", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("wrapped error", func(t *testing.T) {
		inner := errors.New("invalid HMAC")
		err := WrapCLIError(ExitDatabase, "could not decrypt database", inner)
		assert.Equal(t, ExitDatabase, err.Code)
		assert.Contains(t, err.Error(), "invalid HMAC")
		assert.Equal(t, inner, err.Unwrap())
	})

	// Verify errors.Is works with unwrapped errors (Go 1.13+ error chain).
	t.Run("errors.Is chain", func(t *testing.T) {
		inner := errors.New("invalid HMAC")
		err := WrapCLIError(ExitDatabase, "could not decrypt database", inner)
		assert.True(t, errors.Is(err, inner))
	})
}
