package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BackupDirectoryRequest points backups at a writable directory.
type BackupDirectoryRequest struct {
	Directory string `json:"directory" binding:"required" example:"/var/backups/roasts"`
}

// @Summary      Backup status
// @Tags         backup
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "configured, directory"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/backup [get]
func (h *Handler) getBackupStatus(c *gin.Context) {
	dir, err := h.services.Backup.Directory(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load backup settings", "backup_status_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": dir != "", "directory": dir})
}

// @Summary      Set the backup directory
// @Description  Validates the directory is writable before persisting it
// @Tags         backup
// @Accept       json
// @Produce      json
// @Param        body  body   BackupDirectoryRequest  true  "Directory"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/backup/directory [put]
func (h *Handler) setBackupDirectory(c *gin.Context) {
	var req BackupDirectoryRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	if err := h.services.Backup.Configure(c.Request.Context(), req.Directory); err != nil {
		// Unusable directories are a caller problem, not a server fault.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "directory": req.Directory})
}
