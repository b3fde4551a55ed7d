package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/export"
	"github.com/sadopc/focusos/internal/store"
)

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		badRequest(c, "Invalid export format")
		return
	}

	ctx := c.Request.Context()
	uid := userID(c)

	u, err := s.store.GetUser(ctx, uid)
	if err != nil {
		s.fail(c, err, "Failed to export data")
		return
	}
	st, err := s.store.GetSettings(ctx, uid)
	if err != nil {
		s.fail(c, err, "Failed to export data")
		return
	}
	sessions, err := s.store.ListEndedSessions(ctx, uid, store.EndedFilter{OldestFirst: true})
	if err != nil {
		s.fail(c, err, "Failed to export data")
		return
	}

	now := s.store.Now()
	var buf bytes.Buffer
	err = export.Write(&buf, format, &export.Data{
		ExportedAt: now,
		Profile:    *u,
		Settings:   *st,
		Sessions:   sessions,
		Location:   s.store.Location(),
	})
	if err != nil {
		s.fail(c, err, "Failed to export data")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename(now)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
