package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/store"
)

// flexibleID accepts a task id as a JSON number or a numeric string. Null,
// zero and the empty string mean "no task".
type flexibleID struct {
	value *int64
}

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.value = nil
		return nil
	}

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		f.value = nil
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errors.New("task_id must be an integer")
	}
	if id == 0 {
		f.value = nil
		return nil
	}
	f.value = &id
	return nil
}

type startSessionRequest struct {
	TaskID flexibleID `json:"task_id"`
}

func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Invalid task_id")
		return
	}

	session, err := s.store.StartSession(c.Request.Context(), userID(c), req.TaskID.value)
	if err != nil {
		s.fail(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleActiveSession(c *gin.Context) {
	session, err := s.store.ActiveSession(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch active session")
		return
	}
	if session == nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "session": session})
}

func (s *Server) handleEndSession(c *gin.Context) {
	session, err := s.store.EndSession(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to end session")
		return
	}
	c.JSON(http.StatusOK, session)
}

type reflectRequest struct {
	Clarity *string `json:"clarity"`
	Note    *string `json:"note"`
}

func (s *Server) handleReflect(c *gin.Context) {
	var req reflectRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Invalid clarity value")
		return
	}

	var r store.Reflection
	if req.Clarity != nil {
		r.Clarity = store.Clarity(*req.Clarity)
	}
	if req.Note != nil {
		r.Note = *req.Note
	}

	session, err := s.store.Reflect(c.Request.Context(), userID(c), r)
	if err != nil {
		s.fail(c, err, "Failed to save reflection")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleRecentSessions(c *gin.Context) {
	recent, err := s.store.RecentSessions(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch recent sessions")
		return
	}
	c.JSON(http.StatusOK, recent)
}
