package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/store"
)

type profileResponse struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

func newProfile(u *store.User) profileResponse {
	return profileResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (s *Server) handleGetProfile(c *gin.Context) {
	u, err := s.store.GetUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, newProfile(u))
}

type updateProfileRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Invalid profile payload")
		return
	}

	ctx := c.Request.Context()
	var (
		u   *store.User
		err error
	)
	if req.Name == nil {
		u, err = s.store.GetUser(ctx, userID(c))
	} else {
		u, err = s.store.UpdateUserName(ctx, userID(c), *req.Name)
	}
	if err != nil {
		s.fail(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, newProfile(u))
}

func (s *Server) handleGetSettings(c *gin.Context) {
	st, err := s.store.GetSettings(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch settings")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var patch store.SettingsPatch
	if err := bindOptional(c, &patch); err != nil {
		badRequest(c, "Invalid settings payload")
		return
	}

	st, err := s.store.UpdateSettings(c.Request.Context(), userID(c), patch)
	if err != nil {
		s.fail(c, err, "Failed to update settings")
		return
	}
	c.JSON(http.StatusOK, st)
}
