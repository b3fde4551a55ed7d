package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSummary(c *gin.Context) {
	sum, err := s.store.Summary(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch analytics")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (s *Server) handleDaily(c *gin.Context) {
	daily, err := s.store.DailyTotals(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch daily analytics")
		return
	}
	c.JSON(http.StatusOK, daily)
}

func (s *Server) handleStreak(c *gin.Context) {
	streak, err := s.store.Streak(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to calculate streak")
		return
	}
	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

func (s *Server) handleClarity(c *gin.Context) {
	days, err := s.store.ClarityBreakdown(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch clarity analytics")
		return
	}
	c.JSON(http.StatusOK, days)
}

func (s *Server) handleWeekly(c *gin.Context) {
	days, err := s.store.WeeklyMinutes(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch weekly analytics")
		return
	}
	c.JSON(http.StatusOK, days)
}
