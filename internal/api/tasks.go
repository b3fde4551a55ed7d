package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sadopc/focusos/internal/store"
)

const taskNotFound = "Task not found"

// taskID parses the :id path segment. Anything non-numeric cannot name a
// task, so it is reported as not found.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFound})
		return 0, false
	}
	return id, true
}

func (s *Server) taskFail(c *gin.Context, err error, internal string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": taskNotFound})
		return
	}
	s.fail(c, err, internal)
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, err, "Failed to fetch tasks")
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindOptional(c, &req); err != nil {
		badRequest(c, "Title is required")
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), userID(c), req.Title)
	if err != nil {
		s.fail(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.store.ToggleTask(c.Request.Context(), userID(c), id)
	if err != nil {
		s.taskFail(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := s.store.CompleteTask(c.Request.Context(), userID(c), id)
	if err != nil {
		s.taskFail(c, err, "Failed to complete task")
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteTask(c.Request.Context(), userID(c), id); err != nil {
		s.taskFail(c, err, "Failed to delete task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
