package console

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/dispatch-console/models"
)

func TestNewFormValidator_RegistersTencode(t *testing.T) {
	var f *formValidator
	assert.NotPanics(t, func() { f = newFormValidator() })
	assert.NoError(t, f.check(models.UnitForm{CallSign: "P-1", Status: models.DefaultStatus}, "missing"))
	assert.Error(t, f.check(models.UnitForm{CallSign: "P-1", Status: "Lunch"}, "missing"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  <b>two</b> cars ", "two cars"},
		{"&lt;b&gt;x&lt;/b&gt;", "x"},
		{"&amp;lt;b&amp;gt;x&amp;lt;/b&amp;gt;", "x"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"Oak & 3rd", "Oak & 3rd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitize(tt.in), tt.in)
	}
}
