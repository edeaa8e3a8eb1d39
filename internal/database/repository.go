package database

import (
	"context"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
)

// ParametersRepository persists the app installation: its parameters and the host's target state.
// GetParameters returns nil, nil when nothing has been stored yet.
type ParametersRepository interface {
	GetParameters(ctx context.Context) (entity.InstallationParameters, error)
	SaveParameters(ctx context.Context, params entity.InstallationParameters) error
	GetAppState(ctx context.Context) (entity.AppState, error)
	SaveAppState(ctx context.Context, state entity.AppState) error
}

// FieldValueRepository stores asset links per localized field and broadcasts changes.
type FieldValueRepository interface {
	GetValue(ctx context.Context, fieldKey string) (*entity.Link, error)
	SetValue(ctx context.Context, fieldKey string, value *entity.Link) error
	RemoveValue(ctx context.Context, fieldKey string) error
	Subscribe(ctx context.Context, fieldKey string) (*ValueSubscription, error)
}

// ValueSubscription delivers every change of one field value; nil means the value was removed.
type ValueSubscription struct {
	C     <-chan *entity.Link
	close func() error
}

func (s *ValueSubscription) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// SaveJournal keeps a trail of save-back steps so partially applied saves can be found.
type SaveJournal interface {
	Record(ctx context.Context, entry entity.JournalEntry) error
	ListByAsset(ctx context.Context, assetID string) ([]entity.JournalEntry, error)
}

type nopJournal struct{}

// NewNopJournal is used when no database is configured.
func NewNopJournal() SaveJournal {
	return nopJournal{}
}

func (nopJournal) Record(context.Context, entity.JournalEntry) error { return nil }

func (nopJournal) ListByAsset(context.Context, string) ([]entity.JournalEntry, error) {
	return nil, nil
}
