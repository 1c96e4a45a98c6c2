package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/kasira/internal/session"
)

type loginRequest struct {
	StoreID   string `json:"store_id" validate:"required"`
	CashierID string `json:"cashier_id" validate:"required"`
	Token     string `json:"token"`
}

// Login stores the device session. The credential exchange itself happens
// against the remote auth service; this endpoint only records the result and
// wakes the sync loop.
func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err)
		return
	}

	err := s.sessions.Login(session.Session{
		StoreID:   req.StoreID,
		CashierID: req.CashierID,
		Token:     req.Token,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Logout(c *gin.Context) {
	s.sessions.Logout()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
