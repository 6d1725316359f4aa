package model

import (
	"sync"

	"github.com/looplab/fsm"
)

// Dialog states. Idle is the only terminal state; every sub-flow ends there.
const (
	StateIdle                  = "idle"
	StateAwaitingPassphrase    = "awaiting_passphrase"
	StateMainMenu              = "main_menu"
	StateAwaitingName          = "awaiting_name"
	StateAwaitingDate          = "awaiting_date"
	StateAwaitingFood          = "awaiting_food"
	StateAwaitingPlace         = "awaiting_place"
	StateAwaitingSpaciousness  = "awaiting_spaciousness"
	StateAwaitingConvo         = "awaiting_convo"
	StateAwaitingVibe          = "awaiting_vibe"
	StateAwaitingCreateConfirm = "awaiting_create_confirm"
	StateSelectingEditRecord   = "selecting_edit_record"
	StateAwaitingFieldChoice   = "awaiting_field_choice"
	StateAwaitingNewValue      = "awaiting_new_value"
	StateAwaitingEditConfirm   = "awaiting_edit_confirm"
	StateSelectingDeleteRecord = "selecting_delete_record"
	StateAwaitingDeleteConfirm = "awaiting_delete_confirm"
)

// Dialog transition events.
const (
	EventAuthenticate       = "authenticate"
	EventBeginInput         = "begin_input"
	EventBeginEdit          = "begin_edit"
	EventBeginDelete        = "begin_delete"
	EventShowRankings       = "show_rankings"
	EventSubmitName         = "submit_name"
	EventSubmitDate         = "submit_date"
	EventScoreFood          = "score_food"
	EventScorePlace         = "score_place"
	EventScoreSpaciousness  = "score_spaciousness"
	EventScoreConvo         = "score_convo"
	EventChooseVibe         = "choose_vibe"
	EventResolveCreate      = "resolve_create"
	EventSelectRecord       = "select_record"
	EventChooseField        = "choose_field"
	EventSubmitValue        = "submit_value"
	EventResolveEdit        = "resolve_edit"
	EventSelectDeleteTarget = "select_delete_target"
	EventResolveDelete      = "resolve_delete"
	EventCancel             = "cancel"
)

var nonTerminalStates = []string{
	StateAwaitingPassphrase,
	StateMainMenu,
	StateAwaitingName,
	StateAwaitingDate,
	StateAwaitingFood,
	StateAwaitingPlace,
	StateAwaitingSpaciousness,
	StateAwaitingConvo,
	StateAwaitingVibe,
	StateAwaitingCreateConfirm,
	StateSelectingEditRecord,
	StateAwaitingFieldChoice,
	StateAwaitingNewValue,
	StateAwaitingEditConfirm,
	StateSelectingDeleteRecord,
	StateAwaitingDeleteConfirm,
}

// NewDialog builds the conversation state machine. Handlers validate input
// first and only then fire the transition event, so an invalid message
// leaves the dialog exactly where it was.
func NewDialog() *fsm.FSM {
	return fsm.NewFSM(
		StateAwaitingPassphrase,
		fsm.Events{
			{Name: EventAuthenticate, Src: []string{StateAwaitingPassphrase}, Dst: StateMainMenu},

			{Name: EventBeginInput, Src: []string{StateMainMenu, StateIdle}, Dst: StateAwaitingName},
			{Name: EventBeginEdit, Src: []string{StateMainMenu, StateIdle}, Dst: StateSelectingEditRecord},
			{Name: EventBeginDelete, Src: []string{StateMainMenu, StateIdle}, Dst: StateSelectingDeleteRecord},
			{Name: EventShowRankings, Src: []string{StateMainMenu, StateIdle}, Dst: StateIdle},

			{Name: EventSubmitName, Src: []string{StateAwaitingName}, Dst: StateAwaitingDate},
			{Name: EventSubmitDate, Src: []string{StateAwaitingDate}, Dst: StateAwaitingFood},
			{Name: EventScoreFood, Src: []string{StateAwaitingFood}, Dst: StateAwaitingPlace},
			{Name: EventScorePlace, Src: []string{StateAwaitingPlace}, Dst: StateAwaitingSpaciousness},
			{Name: EventScoreSpaciousness, Src: []string{StateAwaitingSpaciousness}, Dst: StateAwaitingConvo},
			{Name: EventScoreConvo, Src: []string{StateAwaitingConvo}, Dst: StateAwaitingVibe},
			{Name: EventChooseVibe, Src: []string{StateAwaitingVibe}, Dst: StateAwaitingCreateConfirm},
			{Name: EventResolveCreate, Src: []string{StateAwaitingCreateConfirm}, Dst: StateIdle},

			{Name: EventSelectRecord, Src: []string{StateSelectingEditRecord}, Dst: StateAwaitingFieldChoice},
			{Name: EventChooseField, Src: []string{StateAwaitingFieldChoice}, Dst: StateAwaitingNewValue},
			{Name: EventSubmitValue, Src: []string{StateAwaitingNewValue}, Dst: StateAwaitingEditConfirm},
			{Name: EventResolveEdit, Src: []string{StateAwaitingEditConfirm}, Dst: StateIdle},

			{Name: EventSelectDeleteTarget, Src: []string{StateSelectingDeleteRecord}, Dst: StateAwaitingDeleteConfirm},
			{Name: EventResolveDelete, Src: []string{StateAwaitingDeleteConfirm}, Dst: StateIdle},

			{Name: EventCancel, Src: nonTerminalStates, Dst: StateIdle},
		},
		fsm.Callbacks{},
	)
}

// Session is the per-user conversation state. It lives only in process
// memory; losing it just means the user restarts the dialog.
type Session struct {
	UserID int64
	ChatID int64

	// Dialog tracks the current position in the conversation.
	Dialog *fsm.FSM

	// Authenticated survives Reset so the passphrase is asked once per
	// /start, not once per sub-flow.
	Authenticated bool

	// Draft accretes create-flow answers until the confirmation step.
	Draft *VibeRecord

	// Listing maps the per-session positions of the last rendered record
	// list (1..N over records sorted by date descending).
	Listing map[int]RecordRef

	// Selected is the record targeted by an in-progress edit or delete.
	Selected *RecordRef

	// EditField and Candidate hold the edit sub-flow's pending change.
	EditField *Field
	Candidate FieldChange

	mu sync.Mutex
}

// NewSession starts a fresh dialog at the passphrase gate.
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		Dialog: NewDialog(),
	}
}

// Lock serializes event handling for this user. Events for different users
// proceed independently.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// State returns the current dialog position.
func (s *Session) State() string {
	return s.Dialog.Current()
}

// Reset discards all in-progress sub-flow data and returns the dialog to
// idle. Authentication is kept.
func (s *Session) Reset() {
	s.Draft = nil
	s.Listing = nil
	s.Selected = nil
	s.EditField = nil
	s.Candidate = nil
	s.Dialog.SetState(StateIdle)
}
