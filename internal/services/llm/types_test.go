// File: internal/services/llm/types_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendDeltasConcatenate(t *testing.T) {
	content := ""
	for _, delta := range []StreamDelta{
		{Text: "Hel", Mode: DeltaAppend},
		{Text: "lo", Mode: DeltaAppend},
	} {
		content = delta.Apply(content)
	}
	assert.Equal(t, "Hello", content)
}

func TestReplaceDeltasSnapshot(t *testing.T) {
	content := ""
	for _, delta := range []StreamDelta{
		{Text: "Hel", Mode: DeltaReplace},
		{Text: "Hello", Mode: DeltaReplace},
	} {
		content = delta.Apply(content)
	}
	assert.Equal(t, "Hello", content)
}
