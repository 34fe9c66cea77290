package handlers

import (
	"fmt"
	"log"
	"strconv"

	"taskapi/internal/middleware"
	"taskapi/internal/models"
	"taskapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles HTTP requests for tasks.
type TaskHandler struct {
	service  *services.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the task routes on a router already mounted at
// /tasks and protected by middleware.AuthRequired.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleListTasks)
	router.Post("/", h.HandleCreateTask)
	router.Get("/:id", h.HandleGetTask)
	router.Put("/:id", h.HandleUpdateTask)
	router.Delete("/:id", h.HandleDeleteTask)
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest represents a partial update; absent fields are left alone.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// HandleListTasks lists the caller's tasks, optionally filtered by the
// completed and search query parameters.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authorization required")
	}

	filter := models.TaskFilter{Search: c.Query("search")}
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, fmt.Sprintf("Query parameter 'completed' must be true or false, got %q", raw))
		}
		filter.Completed = &completed
	}

	tasks, err := h.service.ListTasks(ownerID, filter)
	if err != nil {
		log.Printf("Error listing tasks for user %d (%s): %v", ownerID, middleware.Username(c), err)
		return respondError(c, err)
	}
	return c.JSON(models.TaskListResponse{Success: true, Count: len(tasks), Data: tasks})
}

// HandleCreateTask creates a new task owned by the caller.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authorization required")
	}

	var req CreateTaskRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	task, err := h.service.CreateTask(ownerID, req.Title, req.Description)
	if err != nil {
		log.Printf("Error creating task for user %d (%s): %v", ownerID, middleware.Username(c), err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.TaskResponse{Success: true, Message: "Task created", Data: task})
}

// HandleGetTask retrieves one of the caller's tasks.
func (h *TaskHandler) HandleGetTask(c *fiber.Ctx) error {
	ownerID, taskID, ok := h.identify(c)
	if !ok {
		return taskNotFound(c)
	}

	task, err := h.service.GetTask(ownerID, taskID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.TaskResponse{Success: true, Data: task})
}

// HandleUpdateTask partially updates one of the caller's tasks.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	ownerID, taskID, ok := h.identify(c)
	if !ok {
		return taskNotFound(c)
	}

	var req UpdateTaskRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	task, err := h.service.UpdateTask(ownerID, taskID, models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		log.Printf("Error updating task %d for user %d (%s): %v", taskID, ownerID, middleware.Username(c), err)
		return respondError(c, err)
	}
	return c.JSON(models.TaskResponse{Success: true, Message: "Task updated", Data: task})
}

// HandleDeleteTask deletes one of the caller's tasks.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	ownerID, taskID, ok := h.identify(c)
	if !ok {
		return taskNotFound(c)
	}

	if err := h.service.DeleteTask(ownerID, taskID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Task %d deleted successfully", taskID),
	})
}

// identify returns the caller and the task id from the path. A path id that
// is not a positive integer cannot name any task.
func (h *TaskHandler) identify(c *fiber.Ctx) (uint, uint, bool) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseUint(c.Params("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, 0, false
	}
	return ownerID, uint(id), true
}

func taskNotFound(c *fiber.Ctx) error {
	return respondError(c, services.ErrNotFound)
}
