package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dpshade/vaultforge/internal/errors"
)

// runInput is the data and instruction a run works on.
type runInput struct {
	Data        string `json:"data"`
	Instruction string `json:"instruction"`
	Piped       bool   `json:"piped"`
}

type inputRequest struct {
	Positional  []string
	Instruction string
	File        string
	AutoTag     bool
	// Known reports whether a word is an existing vault tag.
	Known func(string) bool
}

// resolveInput picks the run's data. Piped stdin wins, then --file; in both
// cases the positional text is added to the instruction. Otherwise the
// positional text is the data.
func (a *app) resolveInput(req inputRequest) (runInput, error) {
	if a.cfg != nil && a.cfg.Detached && a.env.StdinPiped {
		return readDetachedInput(a.env.Stdin)
	}

	positional := strings.Join(req.Positional, " ")
	in := runInput{Instruction: req.Instruction}

	switch {
	case a.env.StdinPiped:
		data, err := io.ReadAll(a.env.Stdin)
		if err != nil {
			return runInput{}, errors.InvalidInputError(fmt.Sprintf("could not read standard input: %v", err))
		}
		in.Data = string(data)
		in.Piped = true
		in.Instruction = appendInstruction(in.Instruction, positional)
	case req.File != "":
		data, err := os.ReadFile(req.File)
		if err != nil {
			return runInput{}, errors.InvalidInputError(fmt.Sprintf("could not read file %s", req.File)).
				WithContext("error", err.Error())
		}
		in.Data = string(data)
		in.Instruction = appendInstruction(in.Instruction, positional)
	default:
		in.Data = positional
		if req.AutoTag && req.Known != nil {
			in.Data = AutoTag(positional, req.Known)
		}
	}
	return in, nil
}

func appendInstruction(instruction, extra string) string {
	if strings.TrimSpace(extra) == "" {
		return instruction
	}
	if instruction == "" {
		return extra
	}
	return instruction + "\n" + extra
}

// AutoTag prefixes '#' to every space-separated word that is a known tag.
func AutoTag(text string, known func(string) bool) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" && known(w) {
			words[i] = "#" + w
		}
	}
	return strings.Join(words, " ")
}

func readDetachedInput(r io.Reader) (runInput, error) {
	var in runInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return runInput{}, errors.InvalidInputError(fmt.Sprintf("could not read detached input: %v", err))
	}
	return in, nil
}
