package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"goodvibes-bot/internal/model"
	"goodvibes-bot/internal/pkg/logger"
	"goodvibes-bot/internal/repository/contract"
	"goodvibes-bot/pkg/telegram"
)

const welcomeText = "Welcome to GoodVibesBot! 🎉\n" +
	"This bot helps you track and analyze vibes from different places.\n\n" +
	"Please enter the password to proceed."

var scoreKeyboard = &telegram.InlineKeyboardMarkup{
	InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "1", CallbackData: "1"},
		{Text: "2", CallbackData: "2"},
		{Text: "3", CallbackData: "3"},
		{Text: "4", CallbackData: "4"},
		{Text: "5", CallbackData: "5"},
	}},
}

var vibeKeyboard = &telegram.InlineKeyboardMarkup{
	InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "Good", CallbackData: "good"},
		{Text: "Bad", CallbackData: "bad"},
	}},
}

var mainMenuKeyboard = &telegram.InlineKeyboardMarkup{
	InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "Input Vibe Data", CallbackData: "input"}},
		{{Text: "Edit Vibe Data", CallbackData: "edit"}},
		{{Text: "Delete Vibe Data", CallbackData: "delete"}},
		{{Text: "View Current Rankings", CallbackData: "rankings"}},
	},
}

// IConversationService drives one user's guided dialog, one inbound event
// at a time. Events for the same user are serialized by the session lock;
// different users never block each other.
type IConversationService interface {
	HandleUpdate(ctx context.Context, upd *telegram.Update)
}

type conversationService struct {
	sessions contract.ISessionRepository
	records  contract.IRecordRepository
	rankings IRankingsService
	bot      telegram.Messenger
	password string
	logger   logger.ILogger
}

func NewConversationService(
	sessions contract.ISessionRepository,
	records contract.IRecordRepository,
	rankings IRankingsService,
	bot telegram.Messenger,
	password string,
	log logger.ILogger,
) IConversationService {
	return &conversationService{
		sessions: sessions,
		records:  records,
		rankings: rankings,
		bot:      bot,
		password: password,
		logger:   log,
	}
}

func (s *conversationService) HandleUpdate(ctx context.Context, upd *telegram.Update) {
	userID := upd.FromID()
	chatID := upd.ChatID()
	if userID == 0 || chatID == 0 {
		s.logger.Warn("conversation", "update without user or chat, dropping", map[string]interface{}{
			"update_id": upd.UpdateID,
		})
		return
	}

	if upd.CallbackQuery != nil {
		if err := s.bot.AnswerCallbackQuery(ctx, upd.CallbackQuery.ID); err != nil {
			s.logger.Warn("conversation", "answering callback query failed", map[string]interface{}{
				"user_id": userID, "error": err.Error(),
			})
		}
	}

	input := upd.Text()
	if data := upd.CallbackData(); data != "" {
		input = data
	}

	sess, ok := s.sessions.Get(userID)
	if !ok {
		sess = model.NewSession(userID, chatID)
	}

	sess.Lock()
	defer sess.Unlock()
	sess.ChatID = chatID

	switch strings.TrimSpace(input) {
	case "/start":
		s.handleStart(ctx, sess)
	case "/cancel":
		s.handleCancel(ctx, sess)
	default:
		s.route(ctx, sess, strings.TrimSpace(input))
	}

	// Touch the registry so active dialogs never expire mid-flow.
	s.sessions.Save(sess)
}

// handleStart begins a fresh dialog at the passphrase gate, discarding
// whatever was in progress.
func (s *conversationService) handleStart(ctx context.Context, sess *model.Session) {
	sess.Reset()
	sess.Authenticated = false
	sess.Dialog.SetState(model.StateAwaitingPassphrase)
	s.send(ctx, sess, welcomeText, nil)
}

// handleCancel clears all sub-flow state and re-offers the main menu. It is
// accepted in every state and never touches the store.
func (s *conversationService) handleCancel(ctx context.Context, sess *model.Session) {
	sess.Reset()
	if !sess.Authenticated {
		s.send(ctx, sess, welcomeText, nil)
		sess.Dialog.SetState(model.StateAwaitingPassphrase)
		return
	}
	s.send(ctx, sess, "Operation canceled.", mainMenuKeyboard)
}

func (s *conversationService) route(ctx context.Context, sess *model.Session, input string) {
	if !sess.Authenticated && sess.State() != model.StateAwaitingPassphrase {
		// First contact without /start still lands at the gate.
		sess.Dialog.SetState(model.StateAwaitingPassphrase)
		s.send(ctx, sess, welcomeText, nil)
		return
	}

	switch sess.State() {
	case model.StateAwaitingPassphrase:
		s.handlePassphrase(ctx, sess, input)
	case model.StateIdle, model.StateMainMenu:
		s.handleMainMenu(ctx, sess, input)
	case model.StateAwaitingName:
		s.handleName(ctx, sess, input)
	case model.StateAwaitingDate:
		s.handleDate(ctx, sess, input)
	case model.StateAwaitingFood, model.StateAwaitingPlace,
		model.StateAwaitingSpaciousness, model.StateAwaitingConvo:
		s.handleScore(ctx, sess, input)
	case model.StateAwaitingVibe:
		s.handleVibe(ctx, sess, input)
	case model.StateAwaitingCreateConfirm:
		s.handleCreateConfirm(ctx, sess, input)
	case model.StateSelectingEditRecord:
		s.handleSelection(ctx, sess, input, true)
	case model.StateAwaitingFieldChoice:
		s.handleFieldChoice(ctx, sess, input)
	case model.StateAwaitingNewValue:
		s.handleNewValue(ctx, sess, input)
	case model.StateAwaitingEditConfirm:
		s.handleEditConfirm(ctx, sess, input)
	case model.StateSelectingDeleteRecord:
		s.handleSelection(ctx, sess, input, false)
	case model.StateAwaitingDeleteConfirm:
		s.handleDeleteConfirm(ctx, sess, input)
	}
}

func (s *conversationService) handlePassphrase(ctx context.Context, sess *model.Session, input string) {
	if input != s.password {
		s.send(ctx, sess, "Incorrect password. Please try again.", nil)
		return
	}
	sess.Authenticated = true
	_ = sess.Dialog.Event(ctx, model.EventAuthenticate)
	s.send(ctx, sess, "Access granted! What would you like to do?", mainMenuKeyboard)
}

func (s *conversationService) handleMainMenu(ctx context.Context, sess *model.Session, input string) {
	switch strings.ToLower(input) {
	case "input":
		sess.Draft = &model.VibeRecord{}
		_ = sess.Dialog.Event(ctx, model.EventBeginInput)
		s.send(ctx, sess, "Please enter the name of the place:", nil)
	case "edit":
		s.beginSelection(ctx, sess, true)
	case "delete":
		s.beginSelection(ctx, sess, false)
	case "rankings":
		s.showRankings(ctx, sess)
	default:
		s.send(ctx, sess, "What would you like to do?", mainMenuKeyboard)
	}
}

func (s *conversationService) beginSelection(ctx context.Context, sess *model.Session, edit bool) {
	listing, refs, err := s.records.ListRecent(ctx)
	if err != nil {
		s.storeFailure(ctx, sess, "list", err)
		return
	}
	if len(refs) == 0 {
		sess.Reset()
		s.send(ctx, sess, "No saved entries yet.", mainMenuKeyboard)
		return
	}

	sess.Listing = refs
	verb := "edit"
	event := model.EventBeginEdit
	if !edit {
		verb = "delete"
		event = model.EventBeginDelete
	}
	_ = sess.Dialog.Event(ctx, event)
	s.send(ctx, sess, fmt.Sprintf(
		"Which entry would you like to %s?\n\n%s\n\nSend the number of the entry:",
		verb, listing,
	), nil)
}

func (s *conversationService) showRankings(ctx context.Context, sess *model.Session) {
	records, err := s.records.ListValid(ctx)
	if err != nil {
		s.storeFailure(ctx, sess, "rankings", err)
		return
	}
	report := s.rankings.BuildReport(records)
	_ = sess.Dialog.Event(ctx, model.EventShowRankings)
	sess.Reset()
	s.send(ctx, sess, report, mainMenuKeyboard)
}

func (s *conversationService) handleName(ctx context.Context, sess *model.Session, input string) {
	if input == "" {
		s.send(ctx, sess, "Please enter the name of the place:", nil)
		return
	}
	sess.Draft.Name = input
	_ = sess.Dialog.Event(ctx, model.EventSubmitName)
	s.send(ctx, sess, "Enter the date (DD/MM/YYYY):", nil)
}

func (s *conversationService) handleDate(ctx context.Context, sess *model.Session, input string) {
	if !model.ValidateDate(input) {
		s.send(ctx, sess, "Invalid format or date. Please use DD/MM/YYYY:", nil)
		return
	}
	sess.Draft.Date = input
	_ = sess.Dialog.Event(ctx, model.EventSubmitDate)
	s.send(ctx, sess, "Score for Food (1-5):", scoreKeyboard)
}

func (s *conversationService) handleScore(ctx context.Context, sess *model.Session, input string) {
	score, err := model.ParseScore(input)
	if err != nil {
		s.send(ctx, sess, "Pick a score between 1 and 5:", scoreKeyboard)
		return
	}

	switch sess.State() {
	case model.StateAwaitingFood:
		sess.Draft.Food = score
		_ = sess.Dialog.Event(ctx, model.EventScoreFood)
		s.send(ctx, sess, "Score for Place (1-5):", scoreKeyboard)
	case model.StateAwaitingPlace:
		sess.Draft.Place = score
		_ = sess.Dialog.Event(ctx, model.EventScorePlace)
		s.send(ctx, sess, "Score for Spaciousness (1-5):", scoreKeyboard)
	case model.StateAwaitingSpaciousness:
		sess.Draft.Spaciousness = score
		_ = sess.Dialog.Event(ctx, model.EventScoreSpaciousness)
		s.send(ctx, sess, "Score for Convo (1-5):", scoreKeyboard)
	case model.StateAwaitingConvo:
		sess.Draft.Convo = score
		_ = sess.Dialog.Event(ctx, model.EventScoreConvo)
		s.send(ctx, sess, "Is the vibe good or bad?", vibeKeyboard)
	}
}

func (s *conversationService) handleVibe(ctx context.Context, sess *model.Session, input string) {
	label, err := model.ParseVibeLabel(input)
	if err != nil {
		s.send(ctx, sess, "Is the vibe good or bad?", vibeKeyboard)
		return
	}
	sess.Draft.Vibe = label
	_ = sess.Dialog.Event(ctx, model.EventChooseVibe)
	s.send(ctx, sess, fmt.Sprintf(
		"Confirm your input:\n%s\nReply 'yes' to save, 'no' to cancel:",
		sess.Draft.Details(),
	), nil)
}

func (s *conversationService) handleCreateConfirm(ctx context.Context, sess *model.Session, input string) {
	if !strings.EqualFold(input, "yes") {
		sess.Reset()
		s.send(ctx, sess, "Input canceled.", mainMenuKeyboard)
		return
	}

	if err := s.records.Append(ctx, sess.Draft); err != nil {
		s.storeFailure(ctx, sess, "append", err)
		return
	}
	_ = sess.Dialog.Event(ctx, model.EventResolveCreate)
	sess.Reset()
	s.send(ctx, sess, "Data saved!", mainMenuKeyboard)
}

func (s *conversationService) handleSelection(ctx context.Context, sess *model.Session, input string, edit bool) {
	pos, err := strconv.Atoi(input)
	if err != nil {
		s.send(ctx, sess, "Invalid selection. Send one of the listed numbers:", nil)
		return
	}
	ref, ok := sess.Listing[pos]
	if !ok {
		s.send(ctx, sess, "Invalid selection. Send one of the listed numbers:", nil)
		return
	}
	sess.Selected = &ref

	if edit {
		_ = sess.Dialog.Event(ctx, model.EventSelectRecord)
		s.send(ctx, sess, fmt.Sprintf(
			"Current data:\n%s\nWhich field to edit? (Food, Place, Spaciousness, Convo, Vibe):",
			ref.Snapshot.Details(),
		), nil)
		return
	}
	_ = sess.Dialog.Event(ctx, model.EventSelectDeleteTarget)
	s.send(ctx, sess, fmt.Sprintf(
		"You are about to delete this entry:\n%s\nReply 'yes' to delete, anything else to cancel:",
		ref.Snapshot.Details(),
	), nil)
}

func (s *conversationService) handleFieldChoice(ctx context.Context, sess *model.Session, input string) {
	field, err := model.ParseField(input)
	if err != nil {
		s.send(ctx, sess, "Invalid field. Try again:", nil)
		return
	}
	sess.EditField = &field
	_ = sess.Dialog.Event(ctx, model.EventChooseField)

	if field.IsScored() {
		s.send(ctx, sess, fmt.Sprintf("Enter new score for %s (1-5):", field.Title()), scoreKeyboard)
		return
	}
	s.send(ctx, sess, "Select new vibe:", vibeKeyboard)
}

func (s *conversationService) handleNewValue(ctx context.Context, sess *model.Session, input string) {
	change, err := model.NewFieldChange(*sess.EditField, input)
	if err != nil {
		if sess.EditField.IsScored() {
			s.send(ctx, sess, fmt.Sprintf("Enter new score for %s (1-5):", sess.EditField.Title()), scoreKeyboard)
		} else {
			s.send(ctx, sess, "Select new vibe:", vibeKeyboard)
		}
		return
	}
	sess.Candidate = change
	_ = sess.Dialog.Event(ctx, model.EventSubmitValue)
	s.send(ctx, sess, fmt.Sprintf("New %s\nConfirm? (yes/no):", change.Summary()), nil)
}

func (s *conversationService) handleEditConfirm(ctx context.Context, sess *model.Session, input string) {
	if !strings.EqualFold(input, "yes") {
		sess.Reset()
		s.send(ctx, sess, "Edit canceled.", mainMenuKeyboard)
		return
	}

	if err := s.records.UpdateField(ctx, *sess.Selected, sess.Candidate); err != nil {
		s.storeFailure(ctx, sess, "update", err)
		return
	}
	_ = sess.Dialog.Event(ctx, model.EventResolveEdit)
	sess.Reset()
	s.send(ctx, sess, "Data updated!", mainMenuKeyboard)
}

func (s *conversationService) handleDeleteConfirm(ctx context.Context, sess *model.Session, input string) {
	if !strings.EqualFold(input, "yes") {
		sess.Reset()
		s.send(ctx, sess, "Deletion canceled.", mainMenuKeyboard)
		return
	}

	if err := s.records.ClearRow(ctx, *sess.Selected); err != nil {
		s.storeFailure(ctx, sess, "clear", err)
		return
	}
	_ = sess.Dialog.Event(ctx, model.EventResolveDelete)
	sess.Reset()
	s.send(ctx, sess, "Entry deleted.", mainMenuKeyboard)
}

// storeFailure aborts the current sub-flow: the failure is logged with its
// diagnostics, the user gets a generic message, and the session is reset.
// There is no automatic retry.
func (s *conversationService) storeFailure(ctx context.Context, sess *model.Session, op string, err error) {
	s.logger.Error("conversation", "store operation failed", map[string]interface{}{
		"op":      op,
		"user_id": sess.UserID,
		"error":   err.Error(),
	})
	sess.Reset()
	s.send(ctx, sess, "Something went wrong while talking to the spreadsheet. Please try again later.", mainMenuKeyboard)
}

func (s *conversationService) send(ctx context.Context, sess *model.Session, text string, markup *telegram.InlineKeyboardMarkup) {
	if err := s.bot.SendMessage(ctx, sess.ChatID, text, markup); err != nil {
		s.logger.Error("conversation", "sending reply failed", map[string]interface{}{
			"user_id": sess.UserID,
			"error":   err.Error(),
		})
	}
}
