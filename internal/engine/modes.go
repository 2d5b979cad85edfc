package engine

import (
	"context"

	"github.com/dpshade/vaultforge/internal/models"
)

// Variant describes how one mode differs from the shared run lifecycle.
type Variant struct {
	Mode models.Mode

	// SaveInput writes the raw input to an Inbox note before anything else.
	SaveInput bool
	// PersistResult runs HandleResult after a successful analysis.
	PersistResult bool
	// SupportsDetach allows the mode to run as a detached background process.
	SupportsDetach bool
	// ForbidBackground rejects the background output mode.
	ForbidBackground bool

	// PrepareContext builds the text sent as target data. Nil means the raw
	// input.
	PrepareContext func(ctx context.Context, e *Engine, r *run) (string, error)
	// HandleResult post-processes the response.
	HandleResult func(ctx context.Context, e *Engine, r *run) error
	// Execute replaces the whole lifecycle for modes that do not call an AI.
	Execute func(ctx context.Context, e *Engine, r *run) error
}

var variants = map[models.Mode]Variant{
	models.ModeGeneral: {
		Mode:             models.ModeGeneral,
		ForbidBackground: true,
	},
	models.ModeDebug: {
		Mode:           models.ModeDebug,
		SaveInput:      true,
		PersistResult:  true,
		SupportsDetach: true,
		HandleResult:   appendDebugAnalysis,
	},
	models.ModeXPost: {
		Mode:           models.ModeXPost,
		SaveInput:      true,
		PersistResult:  true,
		PrepareContext: readSavedNote,
		HandleResult:   selectAndPost,
	},
	models.ModeDiary: {
		Mode:    models.ModeDiary,
		Execute: writeDiaryEntry,
	},
	models.ModeInit: {
		Mode:    models.ModeInit,
		Execute: runSetupWizard,
	},
}

// VariantFor returns the variant for mode. Unknown modes dispatch like
// general.
func VariantFor(mode models.Mode) Variant {
	if v, ok := variants[mode]; ok {
		return v
	}
	return variants[models.ModeGeneral]
}

// SupportsDetach reports whether mode may run detached.
func SupportsDetach(mode models.Mode) bool {
	return VariantFor(mode).SupportsDetach
}
