package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kasira/internal/syncer"
)

func (s *Server) SyncStatus(c *gin.Context) {
	watermarks, err := s.watermarkRepo.All(c.Request.Context(), s.db)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"syncing":    s.syncer.Syncing(),
		"watermarks": watermarks,
	})
}

// RunSync triggers a cycle outside the timer, e.g. from a pull-to-refresh.
// An in-flight cycle is reported as a conflict rather than queued. The cycle
// runs on a detached context: once started it outlives the UI request, so a
// client disconnect cannot cancel a half-finished push.
func (s *Server) RunSync(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	if err := s.syncer.RunOnce(ctx, syncer.TriggerManual); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
