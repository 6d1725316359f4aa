package implementation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"goodvibes-bot/internal/model"
	"goodvibes-bot/internal/repository/contract"
	"goodvibes-bot/pkg/sheets"
)

type recordRepository struct {
	store sheets.API
}

func NewRecordRepository(store sheets.API) contract.IRecordRepository {
	return &recordRepository{store: store}
}

func (r *recordRepository) Append(ctx context.Context, rec *model.VibeRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return r.store.Append(ctx, rec.Row())
}

func (r *recordRepository) ListValid(ctx context.Context) ([]model.VibeRecord, error) {
	rows, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var records []model.VibeRecord
	// Row 1 is the header; data starts at sheet row 2.
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rec, err := model.ParseRow(i+1, row)
		if err != nil {
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

func (r *recordRepository) ListRecent(ctx context.Context) (string, map[int]model.RecordRef, error) {
	records, err := r.ListValid(ctx)
	if err != nil {
		return "", nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ParsedDate().After(records[j].ParsedDate())
	})

	refs := make(map[int]model.RecordRef, len(records))
	var lines []string
	for i, rec := range records {
		pos := i + 1
		refs[pos] = model.RecordRef{RowIndex: rec.RowIndex, Snapshot: rec}
		lines = append(lines, fmt.Sprintf("%d. %s", pos, rec.Summary()))
	}
	return strings.Join(lines, "\n"), refs, nil
}

func (r *recordRepository) FindByNameDate(ctx context.Context, name, date string) (*model.RecordRef, error) {
	records, err := r.ListValid(ctx)
	if err != nil {
		return nil, err
	}
	// First match wins; the natural key is not guaranteed unique.
	for _, rec := range records {
		if rec.Name == name && rec.Date == date {
			return &model.RecordRef{RowIndex: rec.RowIndex, Snapshot: rec}, nil
		}
	}
	return nil, contract.ErrNotFound
}

func (r *recordRepository) UpdateField(ctx context.Context, ref model.RecordRef, change model.FieldChange) error {
	return r.store.UpdateCell(ctx, ref.RowIndex, change.Column(), change.CellValue())
}

func (r *recordRepository) ClearRow(ctx context.Context, ref model.RecordRef) error {
	return r.store.ClearRow(ctx, ref.RowIndex)
}
