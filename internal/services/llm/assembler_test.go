// File: internal/services/llm/assembler_test.go
package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/services"
	"github.com/lightchat/lightchat/internal/services/token"
)

func testAssembler() *Assembler {
	return NewAssembler(&services.NoOpLogger{})
}

func historyMessage(id uint, role, content string) domain.Message {
	return domain.Message{
		ID:        id,
		ChatID:    1,
		Role:      role,
		Content:   content,
		CreatedAt: time.Unix(int64(1700000000+id), 0),
	}
}

func TestAssembleEmptyHistory(t *testing.T) {
	turns := testAssembler().Assemble(AssembleInput{
		MaxHistory:   10,
		BudgetTokens: 1000,
	})
	assert.Empty(t, turns)

	turns = testAssembler().Assemble(AssembleInput{
		SystemPrompt: "You are terse.",
		MaxHistory:   10,
		BudgetTokens: 1000,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
}

func TestAssembleHistoryBoundZero(t *testing.T) {
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, "hello"),
		historyMessage(2, domain.RoleAssistant, "hi there"),
	}

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		SystemPrompt: "You are terse.",
		MaxHistory:   0,
		BudgetTokens: 100000,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)

	turns = testAssembler().Assemble(AssembleInput{
		History:      history,
		MaxHistory:   0,
		BudgetTokens: 100000,
	})
	assert.Empty(t, turns)
}

func TestAssembleBudgetStaysStrictlyBelow(t *testing.T) {
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, strings.Repeat("alpha ", 30)),
		historyMessage(2, domain.RoleAssistant, strings.Repeat("beta ", 30)),
		historyMessage(3, domain.RoleUser, strings.Repeat("gamma ", 30)),
	}
	budget := token.EstimateTurn(history[2].Content) + 1

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		MaxHistory:   10,
		BudgetTokens: budget,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, history[2].Content, turns[0].Text)

	total := 0
	for _, turn := range turns {
		total += token.EstimateTurn(turn.Text)
	}
	assert.Less(t, total, budget)
}

func TestAssembleOversizedSingleMessageExcluded(t *testing.T) {
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, strings.Repeat("enormous ", 500)),
	}

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		SystemPrompt: "You are terse.",
		MaxHistory:   10,
		BudgetTokens: 20,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
}

func TestAssembleStopsAtFirstOverflow(t *testing.T) {
	// The walk must stop at the first message that would exceed the
	// budget, not skip past it to admit a smaller, older one.
	small := "tiny"
	huge := strings.Repeat("colossal ", 200)
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, small),
		historyMessage(2, domain.RoleAssistant, huge),
		historyMessage(3, domain.RoleUser, small),
	}
	budget := token.EstimateTurn(small)*3 + 1

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		MaxHistory:   10,
		BudgetTokens: budget,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, small, turns[0].Text)
}

func TestAssembleChronologicalOrder(t *testing.T) {
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, "first"),
		historyMessage(2, domain.RoleAssistant, "second"),
		historyMessage(3, domain.RoleUser, "third"),
	}

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		MaxHistory:   10,
		BudgetTokens: 100000,
	})
	require.Len(t, turns, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{turns[0].Text, turns[1].Text, turns[2].Text})
}

func TestAssemblePrefersProcessedContent(t *testing.T) {
	message := historyMessage(1, domain.RoleUser, "https://example.com")
	message.ProcessedContent = "extracted page text"

	turns := testAssembler().Assemble(AssembleInput{
		History:      []domain.Message{message},
		MaxHistory:   10,
		BudgetTokens: 100000,
	})
	require.Len(t, turns, 1)
	assert.Equal(t, "extracted page text", turns[0].Text)
}

func TestAssembleExcludesReceivingAndLater(t *testing.T) {
	// Three prior user/assistant pairs, then the in-flight placeholder.
	history := []domain.Message{
		historyMessage(1, domain.RoleUser, "q1"),
		historyMessage(2, domain.RoleAssistant, "a1"),
		historyMessage(3, domain.RoleUser, "q2"),
		historyMessage(4, domain.RoleAssistant, "a2"),
		historyMessage(5, domain.RoleUser, "q3"),
		historyMessage(6, domain.RoleAssistant, "a3"),
	}
	placeholder := historyMessage(7, domain.RoleAssistant, "")
	placeholder.Receiving = true
	history = append(history, placeholder)

	turns := testAssembler().Assemble(AssembleInput{
		History:      history,
		ReceivingID:  7,
		SystemPrompt: "You are terse.",
		MaxHistory:   2,
		BudgetTokens: 100000,
	})

	// Exactly the system turn plus the two most recent eligible
	// messages, oldest first.
	require.Len(t, turns, 3)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
	assert.Equal(t, "You are terse.", turns[0].Text)
	assert.Equal(t, "q3", turns[1].Text)
	assert.Equal(t, "a3", turns[2].Text)
}
