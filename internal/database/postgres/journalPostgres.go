package postgres

import (
	"context"
	"database/sql"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(db *sql.DB) database.SaveJournal {
	return &JournalRepository{db: db}
}

func (r *JournalRepository) Record(ctx context.Context, entry entity.JournalEntry) error {
	query := `
		INSERT INTO save_journal (dialog_id, asset_id, locale, step, upload_id, asset_version, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		entry.DialogID,
		entry.AssetID,
		entry.Locale,
		string(entry.Step),
		nullString(entry.UploadID),
		nullInt(entry.AssetVersion),
		nullString(entry.Error),
	)
	return err
}

func (r *JournalRepository) ListByAsset(ctx context.Context, assetID string) ([]entity.JournalEntry, error) {
	query := `
		SELECT dialog_id, asset_id, locale, step, upload_id, asset_version, error, created_at
		FROM save_journal
		WHERE asset_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.JournalEntry
	for rows.Next() {
		var (
			entry    entity.JournalEntry
			step     string
			uploadID sql.NullString
			version  sql.NullInt64
			errText  sql.NullString
		)
		if err := rows.Scan(&entry.DialogID, &entry.AssetID, &entry.Locale, &step,
			&uploadID, &version, &errText, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Step = entity.SaveStep(step)
		entry.UploadID = uploadID.String
		entry.AssetVersion = int(version.Int64)
		entry.Error = errText.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}
