package script

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestConditionsEval(t *testing.T) {
	conditions, err := NewConditions(map[string]any{
		"DEBUG":   true,
		"PLAYERS": uint64(12),
		"MODE":    "melee",
		"RATIO":   float32(0.5),
		"MAPS":    []any{"lordaeron", "kalimdor"},
	})
	assert.NoError(t, err)

	tests := []struct {
		expression string
		expected   bool
	}{
		{"DEBUG", true},
		{"!DEBUG", false},
		{"PLAYERS > 8", true},
		{"PLAYERS == 12 && DEBUG", true},
		{`MODE == "melee"`, true},
		{`MODE.startsWith("custom")`, false},
		{"RATIO < 1.0", true},
		{`"kalimdor" in MAPS`, true},
		{"true", true},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			result, err := conditions.Eval(tt.expression)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConditionsEvalErrors(t *testing.T) {
	conditions, err := NewConditions(map[string]any{"PLAYERS": 12})
	assert.NoError(t, err)

	_, err = conditions.Eval("PLAYERS")
	assert.IsError(t, err, ErrConditionNotBool)

	_, err = conditions.Eval("UNDEFINED")
	assert.IsError(t, err, ErrInvalidCondition)

	_, err = conditions.Eval("PLAYERS &&")
	assert.IsError(t, err, ErrInvalidCondition)
}

func TestConditionsWithoutDefines(t *testing.T) {
	conditions, err := NewConditions(nil)
	assert.NoError(t, err)

	result, err := conditions.Eval("1 + 1 == 2")
	assert.NoError(t, err)
	assert.True(t, result)
}
