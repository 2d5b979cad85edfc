package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/models"
)

// State is a step of a run's lifecycle.
type State int

const (
	StateInit State = iota
	StateSaveInput
	StatePrepareContext
	StateLoadPrompt
	StateResolveModel
	StateAnalyze
	StateHandleResult
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateInit:           "INIT",
	StateSaveInput:      "SAVE_INPUT",
	StatePrepareContext: "PREPARE_CONTEXT",
	StateLoadPrompt:     "LOAD_PROMPT",
	StateResolveModel:   "RESOLVE_MODEL",
	StateAnalyze:        "ANALYZE",
	StateHandleResult:   "HANDLE_RESULT",
	StateDone:           "DONE",
	StateFailed:         "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal reports whether the state ends a run.
func IsTerminal(s State) bool {
	return s == StateDone || s == StateFailed
}

func isAllowedTransition(from, to State) bool {
	if to == StateFailed {
		return !IsTerminal(from)
	}
	switch from {
	case StateInit:
		// Whole-run variants go straight to DONE.
		return to == StateSaveInput || to == StatePrepareContext || to == StateDone
	case StateSaveInput:
		return to == StatePrepareContext
	case StatePrepareContext:
		return to == StateLoadPrompt
	case StateLoadPrompt:
		return to == StateResolveModel
	case StateResolveModel:
		return to == StateAnalyze
	case StateAnalyze:
		return to == StateHandleResult || to == StateDone
	case StateHandleResult:
		return to == StateDone
	default:
		return false
	}
}

// run is the mutable record of one invocation.
type run struct {
	id      string
	rc      models.RunConfig
	variant Variant
	logger  *zap.Logger
	state   State

	file     models.FileInfo
	context  string
	prompt   *models.PromptDocument
	model    models.ResolvedModel
	override bool
	output   models.OutputMode
	client   ai.Client
	response string
	aborted  bool
	message  string
}

func (r *run) transition(to State) error {
	if !isAllowedTransition(r.state, to) {
		return fmt.Errorf("invalid run transition %s -> %s", r.state, to)
	}
	r.logger.Debug("state transition", zap.Stringer("from", r.state), zap.Stringer("to", to))
	r.state = to
	return nil
}
