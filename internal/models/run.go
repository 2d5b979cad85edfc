package models

import (
	"time"
)

// Mode names a processing strategy.
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeDebug   Mode = "debug"
	ModeXPost   Mode = "xpost"
	ModeDiary   Mode = "diary"
	ModeInit    Mode = "init"
)

// PromptModes are the modes backed by a prompt document.
var PromptModes = []Mode{ModeGeneral, ModeDebug, ModeXPost}

// CLIOptions are the command line switches the engine consults.
type CLIOptions struct {
	Stream  bool
	Normal  bool
	Model   string
	Task    bool
	IsPiped bool
	Detach  bool
}

// RunConfig describes one invocation. It is built once by the CLI and not
// modified afterwards.
type RunConfig struct {
	InputData   string
	Mode        Mode
	Instruction string
	Options     CLIOptions
	Date        time.Time
}

// FileInfo locates the run artifact inside the vault.
type FileInfo struct {
	RelativePath string
	FullPath     string
}

// ResolvedModel is the provider and model a run will call.
type ResolvedModel struct {
	Provider string
	Model    string
}

// XPostCandidate is one suggested post returned by the xpost prompt.
type XPostCandidate struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}
