package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTaskID(t *testing.T) {
	assert.NoError(t, ValidateTaskID("0c9c2a3a-5a2e-4c38-9d2e-8438a55c61b2"))
	assert.NoError(t, ValidateTaskID("task_123"))

	assert.ErrorIs(t, ValidateTaskID(""), ErrEmptyID)
	assert.ErrorIs(t, ValidateTaskID("abc def"), ErrInvalidIDFormat)
	assert.ErrorIs(t, ValidateTaskID("abc;DROP TABLE tasks"), ErrInvalidIDFormat)
	assert.ErrorIs(t, ValidateTaskID(strings.Repeat("a", 65)), ErrIDTooLong)
}

func TestValidateTitle(t *testing.T) {
	assert.NoError(t, ValidateTitle("Water the plants"))

	assert.ErrorIs(t, ValidateTitle("   "), ErrEmptyTitle)
	assert.ErrorIs(t, ValidateTitle(strings.Repeat("x", 256)), ErrTitleTooLong)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", SanitizeString("<b>bold</b>"))
	// 控制字符被移除,换行与制表符保留
	assert.Equal(t, "a\nb\tc", SanitizeString("a\nb\tc\x00"))
}
