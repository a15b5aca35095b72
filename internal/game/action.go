package game

import "times-table-adventure/internal/domain"

// Action is a command the renderer dispatches into the session reducer.
type Action interface {
	action()
}

// UpdateMode selects practice or challenge. Choosing practice resets the
// pattern to random.
type UpdateMode struct{ Mode domain.SessionMode }

// UpdatePattern selects the question-set strategy.
type UpdatePattern struct{ Pattern domain.QuestionPattern }

// UpdateFocusTable selects the table for sequential drilling. Bounds are the
// renderer's job.
type UpdateFocusTable struct{ Table int }

// StartSession builds a fresh question set. Valid from any status.
type StartSession struct{}

// SubmitAnswer answers the current mission. Ignored unless playing.
type SubmitAnswer struct{ Answer int }

// ResetToMenu abandons the session but keeps the selections.
type ResetToMenu struct{}

func (UpdateMode) action()       {}
func (UpdatePattern) action()    {}
func (UpdateFocusTable) action() {}
func (StartSession) action()     {}
func (SubmitAnswer) action()     {}
func (ResetToMenu) action()      {}
