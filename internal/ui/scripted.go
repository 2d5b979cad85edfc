package ui

import (
	"context"
	"fmt"
	"sync"
)

// Answer is one scripted response for a ScriptedPrompter. Exactly one of
// the value fields is used, depending on which question consumes it.
type Answer struct {
	Index  int
	Yes    bool
	Text   string
	Cancel bool
}

// Choose answers a Select with the option at index i.
func Choose(i int) Answer { return Answer{Index: i} }

// ChooseYes answers a Confirm.
func ChooseYes(yes bool) Answer { return Answer{Yes: yes} }

// Type answers a Text question.
func Type(text string) Answer { return Answer{Text: text} }

// Cancel answers any question with ErrCancelled.
func Cancel() Answer { return Answer{Cancel: true} }

// Asked records one question put to a ScriptedPrompter.
type Asked struct {
	Kind    string
	Title   string
	Options []string
}

// ScriptedPrompter replays canned answers, for driving the interactive flows
// without a terminal.
type ScriptedPrompter struct {
	Interactive bool

	mu      sync.Mutex
	answers []Answer
	asked   []Asked
}

// NewScriptedPrompter creates an interactive prompter that replays answers
// in order.
func NewScriptedPrompter(answers ...Answer) *ScriptedPrompter {
	return &ScriptedPrompter{Interactive: true, answers: answers}
}

// Asked returns every question asked so far.
func (s *ScriptedPrompter) Asked() []Asked {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Asked(nil), s.asked...)
}

// Remaining returns how many answers have not been consumed.
func (s *ScriptedPrompter) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *ScriptedPrompter) next(q Asked) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, q)
	if len(s.answers) == 0 {
		return Answer{}, fmt.Errorf("no scripted answer for %s %q", q.Kind, q.Title)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a.Cancel {
		return a, ErrCancelled
	}
	return a, nil
}

// IsInteractive implements Prompter.
func (s *ScriptedPrompter) IsInteractive() bool {
	return s.Interactive
}

// Select implements Prompter.
func (s *ScriptedPrompter) Select(_ context.Context, title string, options []string) (int, error) {
	a, err := s.next(Asked{Kind: "select", Title: title, Options: append([]string(nil), options...)})
	if err != nil {
		return -1, err
	}
	if a.Index < 0 || a.Index >= len(options) {
		return -1, fmt.Errorf("scripted index %d out of range for %q", a.Index, title)
	}
	return a.Index, nil
}

// Confirm implements Prompter.
func (s *ScriptedPrompter) Confirm(_ context.Context, question string, _ bool) (bool, error) {
	a, err := s.next(Asked{Kind: "confirm", Title: question})
	if err != nil {
		return false, err
	}
	return a.Yes, nil
}

// Text implements Prompter.
func (s *ScriptedPrompter) Text(_ context.Context, label, _ string) (string, error) {
	a, err := s.next(Asked{Kind: "text", Title: label})
	if err != nil {
		return "", err
	}
	return a.Text, nil
}
