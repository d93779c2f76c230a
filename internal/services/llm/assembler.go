// File: internal/services/llm/assembler.go
package llm

import (
	"github.com/lightchat/lightchat/internal/domain"
	"github.com/lightchat/lightchat/internal/services/token"
)

// Assembler builds the bounded turn sequence sent with a request. It walks
// the history backwards from the most recent eligible message, accumulating
// estimated token cost, and truncates deterministically.
type Assembler struct {
	logger Logger
}

func NewAssembler(logger Logger) *Assembler {
	return &Assembler{logger: logger}
}

// AssembleInput carries everything one assembly needs. History must be in
// chronological order, as returned by the message repository.
type AssembleInput struct {
	History      []domain.Message
	ReceivingID  uint // in-flight placeholder; it and everything after are excluded
	SystemPrompt string
	MaxHistory   int // count bound on accepted history turns; 0 means system turn only
	BudgetTokens int
}

// Assemble returns ordered turns, oldest first, system turn first if
// present. The total estimated cost of the result stays strictly below the
// budget: the walk stops at the first message that would reach it, without
// skipping past it to find a smaller one.
func (a *Assembler) Assemble(in AssembleInput) []domain.Turn {
	eligible := in.History
	if in.ReceivingID != 0 {
		for i := range in.History {
			if in.History[i].ID == in.ReceivingID {
				eligible = in.History[:i]
				break
			}
		}
	}

	total := 0
	var systemTurn *domain.Turn
	if in.SystemPrompt != "" {
		total = token.EstimateTurn(in.SystemPrompt)
		systemTurn = &domain.Turn{Role: domain.RoleSystem, Text: in.SystemPrompt}
	}

	// Reverse chronological pick.
	var picked []domain.Turn
	for i := len(eligible) - 1; i >= 0; i-- {
		if len(picked) >= in.MaxHistory {
			break
		}
		turn := domain.TurnFromMessage(&eligible[i])
		if turn.Text == "" {
			// Failed or empty turns carry nothing worth sending.
			continue
		}
		cost := token.EstimateTurn(turn.Text)
		if total+cost >= in.BudgetTokens {
			break
		}
		total += cost
		picked = append(picked, turn)
	}

	turns := make([]domain.Turn, 0, len(picked)+1)
	if systemTurn != nil {
		turns = append(turns, *systemTurn)
	}
	for i := len(picked) - 1; i >= 0; i-- {
		turns = append(turns, picked[i])
	}

	a.logger.Debug("context assembled",
		"eligible", len(eligible), "accepted", len(picked), "estimated_tokens", total)
	return turns
}
