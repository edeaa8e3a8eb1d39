package transport

import (
	"net/http"

	"github.com/ds124wfegd/WB_L3/imageeditor/internal/database"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/entity"
	"github.com/ds124wfegd/WB_L3/imageeditor/internal/service"
	"github.com/gin-gonic/gin"
)

type DialogHandler struct {
	dialogService service.DialogService
	journal       database.SaveJournal
}

func NewDialogHandler(dialogService service.DialogService, journal database.SaveJournal) *DialogHandler {
	if journal == nil {
		journal = database.NewNopJournal()
	}
	return &DialogHandler{dialogService: dialogService, journal: journal}
}

func (h *DialogHandler) Open(c *gin.Context) {
	var params entity.DialogParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.dialogService.Open(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session.View())
}

func (h *DialogHandler) Get(c *gin.Context) {
	session, err := h.dialogService.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.View())
}

func (h *DialogHandler) BeforeSave(c *gin.Context) {
	allowed, err := h.dialogService.BeforeSave(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// Save receives the editor's saved image. An incomplete payload answers 200 with saved=false.
func (h *DialogHandler) Save(c *gin.Context) {
	var data entity.SavedImageData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	saved, err := h.dialogService.Save(c.Request.Context(), id, data)
	if err != nil {
		abortWithError(c, err)
		return
	}

	session, err := h.dialogService.Get(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved, "dialog": session.View()})
}

func (h *DialogHandler) Journal(c *gin.Context) {
	entries, err := h.journal.ListByAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if entries == nil {
		entries = []entity.JournalEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
