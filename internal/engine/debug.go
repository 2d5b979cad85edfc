package engine

import (
	"context"
	"fmt"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/storage"
)

func appendDebugAnalysis(_ context.Context, e *Engine, r *run) error {
	header := fmt.Sprintf("%s (%s)", storage.AnalysisHeader, r.rc.Mode)
	if err := e.Vault.AppendAnalysisResult(r.file.RelativePath, r.response, header); err != nil {
		return apperrors.StorageError("append analysis", err)
	}
	e.Console.Success("Analysis appended to %s", r.file.RelativePath)
	return nil
}
