package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	err := Newf("something failed").Build()

	assert.Equal(t, "something failed", err.Error())
	assert.Equal(t, ComponentUnknown, err.Component)
	assert.Equal(t, CategoryGeneric, err.Category)
	assert.False(t, err.Timestamp.IsZero())
}

func TestBuilderFields(t *testing.T) {
	base := fmt.Errorf("connection refused")
	err := New(base).
		Component("geocode").
		Category(CategoryNetwork).
		Context("operation", "reverse").
		Context("status_code", "503").
		Build()

	assert.Equal(t, "geocode", err.Component)
	assert.Equal(t, CategoryNetwork, err.Category)
	assert.Equal(t, "network", err.GetCategory())

	ctx := err.GetContext()
	assert.Equal(t, "reverse", ctx["operation"])
	assert.Equal(t, "503", ctx["status_code"])

	// GetContext returns a copy, mutation must not leak back.
	ctx["operation"] = "mutated"
	assert.Equal(t, "reverse", err.GetContext()["operation"])
}

func TestUnwrapChain(t *testing.T) {
	base := fmt.Errorf("root cause")
	err := New(base).Category(CategoryFileIO).Build()

	assert.Equal(t, base, Unwrap(err))
	assert.True(t, Is(err, base))
}

func TestIsMatchesCategory(t *testing.T) {
	a := Newf("first").Category(CategoryTimeout).Build()
	b := Newf("second").Category(CategoryTimeout).Build()
	c := Newf("third").Category(CategoryNetwork).Build()

	assert.True(t, Is(a, b))
	assert.False(t, Is(a, c))
}

func TestHasCategory(t *testing.T) {
	inner := Newf("inner").Category(CategoryValidation).Build()
	wrapped := fmt.Errorf("outer: %w", inner)

	assert.True(t, HasCategory(wrapped, CategoryValidation))
	assert.False(t, HasCategory(wrapped, CategoryNetwork))
	assert.False(t, HasCategory(nil, CategoryValidation))
	assert.False(t, HasCategory(fmt.Errorf("plain"), CategoryValidation))
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", Newf("inner").Category(CategoryDatabase).Build())

	var enhanced *EnhancedError
	require.True(t, As(err, &enhanced))
	assert.Equal(t, CategoryDatabase, enhanced.Category)
}
