package implementation

import (
	"context"
	"errors"
	"testing"

	"goodvibes-bot/internal/model"
	"goodvibes-bot/internal/repository/contract"
	"goodvibes-bot/pkg/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cellUpdate struct {
	Row, Col int
	Value    string
}

type stubAPI struct {
	rows    [][]string
	listErr error

	appends [][]string
	updates []cellUpdate
	clears  []int
}

func (s *stubAPI) Append(_ context.Context, values []string) error {
	s.appends = append(s.appends, values)
	return nil
}

func (s *stubAPI) ListAll(_ context.Context) ([][]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rows, nil
}

func (s *stubAPI) UpdateCell(_ context.Context, row, col int, value string) error {
	s.updates = append(s.updates, cellUpdate{Row: row, Col: col, Value: value})
	return nil
}

func (s *stubAPI) ClearRow(_ context.Context, row int) error {
	s.clears = append(s.clears, row)
	return nil
}

func seededStub() *stubAPI {
	return &stubAPI{rows: [][]string{
		{"Name", "Date", "Food", "Place", "Spaciousness", "Convo", "Vibe"},
		{"Pub C", "10/06/2024", "2", "2", "2", "2", "bad"},
		{"Bar B", "20/06/2024", "5", "4", "3", "2", "good"},
		{"", "", "", "", "", "", ""}, // blanked by a previous delete
		{"Cafe A", "15/06/2024", "3", "3", "3", "3", "good"},
		{"Torn", "15/06/2024", "3"}, // short row
	}}
}

func TestAppendWritesRowInColumnOrder(t *testing.T) {
	api := &stubAPI{}
	repo := NewRecordRepository(api)

	err := repo.Append(context.Background(), &model.VibeRecord{
		Name: "Cafe X", Date: "15/06/2024",
		Food: 4, Place: 5, Spaciousness: 3, Convo: 2, Vibe: "good",
	})
	require.NoError(t, err)
	require.Len(t, api.appends, 1)
	assert.Equal(t, []string{"Cafe X", "15/06/2024", "4", "5", "3", "2", "good"}, api.appends[0])
}

func TestAppendRejectsInvalidRecord(t *testing.T) {
	api := &stubAPI{}
	repo := NewRecordRepository(api)

	err := repo.Append(context.Background(), &model.VibeRecord{
		Name: "Cafe X", Date: "15/06/2024",
		Food: 9, Place: 5, Spaciousness: 3, Convo: 2, Vibe: "good",
	})
	assert.Error(t, err)
	assert.Empty(t, api.appends)
}

func TestListValidSkipsHeaderAndMalformedRows(t *testing.T) {
	repo := NewRecordRepository(seededStub())

	records, err := repo.ListValid(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Sheet order is preserved and row indices point at the real sheet rows.
	assert.Equal(t, "Pub C", records[0].Name)
	assert.Equal(t, 2, records[0].RowIndex)
	assert.Equal(t, "Bar B", records[1].Name)
	assert.Equal(t, 3, records[1].RowIndex)
	assert.Equal(t, "Cafe A", records[2].Name)
	assert.Equal(t, 5, records[2].RowIndex)
}

func TestListRecentSortsByDateDescending(t *testing.T) {
	repo := NewRecordRepository(seededStub())

	listing, refs, err := repo.ListRecent(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		"1. Bar B — 20/06/2024 (good)\n"+
			"2. Cafe A — 15/06/2024 (good)\n"+
			"3. Pub C — 10/06/2024 (bad)",
		listing)

	require.Len(t, refs, 3)
	assert.Equal(t, 3, refs[1].RowIndex)
	assert.Equal(t, 5, refs[2].RowIndex)
	assert.Equal(t, 2, refs[3].RowIndex)
}

func TestListRecentEmptyStore(t *testing.T) {
	repo := NewRecordRepository(&stubAPI{rows: [][]string{
		{"Name", "Date", "Food", "Place", "Spaciousness", "Convo", "Vibe"},
	}})

	listing, refs, err := repo.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listing)
	assert.Empty(t, refs)
}

func TestListValidPropagatesStoreError(t *testing.T) {
	storeErr := &sheets.StoreError{Op: "list", StatusCode: 500, Body: "boom"}
	repo := NewRecordRepository(&stubAPI{listErr: storeErr})

	_, err := repo.ListValid(context.Background())
	var se *sheets.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.StatusCode)
}

func TestFindByNameDate(t *testing.T) {
	repo := NewRecordRepository(seededStub())

	ref, err := repo.FindByNameDate(context.Background(), "Cafe A", "15/06/2024")
	require.NoError(t, err)
	assert.Equal(t, 5, ref.RowIndex)
	assert.Equal(t, "Cafe A", ref.Snapshot.Name)

	_, err = repo.FindByNameDate(context.Background(), "Nowhere", "01/01/2020")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestFindByNameDateFirstMatchWins(t *testing.T) {
	api := &stubAPI{rows: [][]string{
		{"Name", "Date", "Food", "Place", "Spaciousness", "Convo", "Vibe"},
		{"Twin", "15/06/2024", "1", "1", "1", "1", "bad"},
		{"Twin", "15/06/2024", "5", "5", "5", "5", "good"},
	}}
	repo := NewRecordRepository(api)

	ref, err := repo.FindByNameDate(context.Background(), "Twin", "15/06/2024")
	require.NoError(t, err)
	assert.Equal(t, 2, ref.RowIndex)
}

func TestUpdateFieldAddressesSelectedCell(t *testing.T) {
	api := seededStub()
	repo := NewRecordRepository(api)

	change, err := model.NewFieldChange(model.FieldSpaciousness, "4")
	require.NoError(t, err)

	ref := model.RecordRef{RowIndex: 5}
	require.NoError(t, repo.UpdateField(context.Background(), ref, change))
	require.Len(t, api.updates, 1)
	assert.Equal(t, cellUpdate{Row: 5, Col: 5, Value: "4"}, api.updates[0])
}

func TestClearRowTargetsReferencedRow(t *testing.T) {
	api := seededStub()
	repo := NewRecordRepository(api)

	require.NoError(t, repo.ClearRow(context.Background(), model.RecordRef{RowIndex: 3}))
	assert.Equal(t, []int{3}, api.clears)
}

func TestListValidWrapsPlainErrors(t *testing.T) {
	plain := errors.New("connection refused")
	repo := NewRecordRepository(&stubAPI{listErr: plain})

	_, err := repo.ListValid(context.Background())
	assert.ErrorIs(t, err, plain)
}
