package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingMessage(t *testing.T) {
	assert.Equal(t, "", MissingMessage("age", 0, 100))
	assert.Equal(t,
		"Warning: age has 1 missing value. The 99 remaining observations are plotted below.",
		MissingMessage("age", 1, 100))
	assert.Equal(t,
		"Warning: age has 5 missing values. The 95 remaining observations are plotted below.",
		MissingMessage("age", 5, 100))
}

func TestCategoricalMessage(t *testing.T) {
	assert.Equal(t, "", CategoricalMessage(nil))
	assert.Equal(t, "Not plotted (categorical): name, city", CategoricalMessage([]string{"name", "city"}))
}

func TestControllersSatisfyInterface(t *testing.T) {
	var _ Controller = (*Histogram)(nil)
	var _ Controller = (*Scatter)(nil)
	var _ Controller = (*Table)(nil)
}
