package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogHappyPathCreate(t *testing.T) {
	ctx := context.Background()
	d := NewDialog()
	assert.Equal(t, StateAwaitingPassphrase, d.Current())

	steps := []struct {
		event string
		want  string
	}{
		{EventAuthenticate, StateMainMenu},
		{EventBeginInput, StateAwaitingName},
		{EventSubmitName, StateAwaitingDate},
		{EventSubmitDate, StateAwaitingFood},
		{EventScoreFood, StateAwaitingPlace},
		{EventScorePlace, StateAwaitingSpaciousness},
		{EventScoreSpaciousness, StateAwaitingConvo},
		{EventScoreConvo, StateAwaitingVibe},
		{EventChooseVibe, StateAwaitingCreateConfirm},
		{EventResolveCreate, StateIdle},
	}
	for _, step := range steps {
		require.NoError(t, d.Event(ctx, step.event))
		assert.Equal(t, step.want, d.Current(), "after %s", step.event)
	}
}

func TestDialogRejectsOutOfOrderEvents(t *testing.T) {
	ctx := context.Background()
	d := NewDialog()

	// Cannot confirm a record before the dialog reaches that step.
	assert.Error(t, d.Event(ctx, EventResolveCreate))
	assert.Equal(t, StateAwaitingPassphrase, d.Current())
}

func TestDialogCancelFromAnyState(t *testing.T) {
	ctx := context.Background()
	for _, state := range nonTerminalStates {
		d := NewDialog()
		d.SetState(state)
		require.NoError(t, d.Event(ctx, EventCancel), "cancel from %s", state)
		assert.Equal(t, StateIdle, d.Current())
	}
}

func TestSessionReset(t *testing.T) {
	sess := NewSession(42, 99)
	sess.Authenticated = true
	sess.Draft = &VibeRecord{Name: "Cafe X"}
	sess.Listing = map[int]RecordRef{1: {RowIndex: 2}}
	sess.Selected = &RecordRef{RowIndex: 2}
	f := FieldFood
	sess.EditField = &f
	sess.Candidate = ScoreChange{Field: FieldFood, Score: 5}
	sess.Dialog.SetState(StateAwaitingEditConfirm)

	sess.Reset()

	assert.Equal(t, StateIdle, sess.State())
	assert.Nil(t, sess.Draft)
	assert.Nil(t, sess.Listing)
	assert.Nil(t, sess.Selected)
	assert.Nil(t, sess.EditField)
	assert.Nil(t, sess.Candidate)
	assert.True(t, sess.Authenticated, "authentication survives a reset")
}
