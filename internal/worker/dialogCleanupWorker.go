package worker

import (
	"context"
	"time"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/service"

	"github.com/sirupsen/logrus"
)

// DialogCleanupWorker drops closed dialogs once their result has had time to be read.
type DialogCleanupWorker struct {
	dialogService service.DialogService
	interval      time.Duration
	retention     time.Duration
}

func NewDialogCleanupWorker(dialogService service.DialogService, interval, retention time.Duration) *DialogCleanupWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DialogCleanupWorker{
		dialogService: dialogService,
		interval:      interval,
		retention:     retention,
	}
}

func (w *DialogCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Dialog cleanup worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Dialog cleanup worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *DialogCleanupWorker) cleanup() int {
	purged := w.dialogService.PurgeClosed(w.retention)
	if purged > 0 {
		logrus.Infof("Purged %d closed dialogs", purged)
	}
	return purged
}
