package handlers

import (
	"errors"
	"strconv"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/core/domain"
	"debtease/internal/core/services"
	"debtease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReminderHandler handles payment reminder endpoints
type ReminderHandler struct {
	reminderService *services.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
	}
}

// reminderError maps service errors to HTTP responses
func reminderError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Reminder not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have access to this reminder")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// reminderResponses converts reminders to their response DTOs
func reminderResponses(reminders []*models.DebtReminder) []*models.DebtReminderResponse {
	out := make([]*models.DebtReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.ToResponse())
	}
	return out
}

// CreateReminder handles manual reminder creation
// @Summary Create reminder
// @Description Create a payment reminder for one of the current user's debts
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateReminderInput true "Reminder data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders [post]
func (h *ReminderHandler) CreateReminder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateReminderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reminder, err := h.reminderService.Create(c.Context(), userID, &input)
	if err != nil {
		return reminderError(c, err, "Failed to create reminder")
	}

	return response.Created(c, "Reminder created successfully", fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}

// GenerateReminders handles generating reminders from due days
// @Summary Generate reminders
// @Description Generate the next reminder for every active debt with a due day. Idempotent per (debt, due date).
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders/generate [post]
func (h *ReminderHandler) GenerateReminders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	created, err := h.reminderService.Generate(c.Context(), userID)
	if err != nil {
		return reminderError(c, err, "Failed to generate reminders")
	}

	return response.Created(c, "Reminders generated successfully", fiber.Map{
		"reminders": reminderResponses(created),
		"count":     len(created),
	})
}

// ListReminders handles listing all reminders
// @Summary List reminders
// @Description List all reminders across the current user's debts
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders [get]
func (h *ReminderHandler) ListReminders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	reminders, err := h.reminderService.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reminders")
	}

	return response.Success(c, "Reminders retrieved successfully", fiber.Map{
		"reminders": reminderResponses(reminders),
		"count":     len(reminders),
	})
}

// ListActiveReminders handles listing enabled, unsent reminders
// @Summary List active reminders
// @Description List the current user's enabled, not-yet-sent reminders
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders/active [get]
func (h *ReminderHandler) ListActiveReminders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	reminders, err := h.reminderService.ListActive(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reminders")
	}

	return response.Success(c, "Reminders retrieved successfully", fiber.Map{
		"reminders": reminderResponses(reminders),
		"count":     len(reminders),
	})
}

// ListUpcomingReminders handles listing reminders due soon
// @Summary List upcoming reminders
// @Description List active reminders due within the next days (default 7)
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders/upcoming [get]
func (h *ReminderHandler) ListUpcomingReminders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	days, _ := strconv.Atoi(c.Query("days", "7"))

	reminders, err := h.reminderService.ListUpcoming(c.Context(), userID, days)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reminders")
	}

	return response.Success(c, "Reminders retrieved successfully", fiber.Map{
		"reminders": reminderResponses(reminders),
		"count":     len(reminders),
	})
}

// ListOverdueReminders handles listing past-due reminders
// @Summary List overdue reminders
// @Description List active reminders whose due date has passed
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders/overdue [get]
func (h *ReminderHandler) ListOverdueReminders(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	reminders, err := h.reminderService.ListOverdue(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list reminders")
	}

	return response.Success(c, "Reminders retrieved successfully", fiber.Map{
		"reminders": reminderResponses(reminders),
		"count":     len(reminders),
	})
}

// ListRemindersByDebt handles listing reminders of one debt
// @Summary List reminders by debt
// @Description List reminders attached to one of the current user's debts
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param debtId path int true "Debt ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/by-debt/{debtId} [get]
func (h *ReminderHandler) ListRemindersByDebt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	debtID, err := strconv.ParseUint(c.Params("debtId"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	reminders, err := h.reminderService.ListByDebt(c.Context(), uint(debtID), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return response.NotFound(c, "Debt not found")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Forbidden(c, "You don't have access to this debt")
		default:
			return response.InternalServerError(c, "Failed to list reminders")
		}
	}

	return response.Success(c, "Reminders retrieved successfully", fiber.Map{
		"reminders": reminderResponses(reminders),
		"count":     len(reminders),
	})
}

// GetReminderSummary handles the reminder summary
// @Summary Reminder summary
// @Description Count the current user's reminders by state
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-reminders/summary [get]
func (h *ReminderHandler) GetReminderSummary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.reminderService.Summary(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}

// GetReminder handles getting a reminder by ID
// @Summary Get reminder
// @Description Get one reminder by ID
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id} [get]
func (h *ReminderHandler) GetReminder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	reminder, err := h.reminderService.Get(c.Context(), uint(id), userID)
	if err != nil {
		return reminderError(c, err, "Failed to get reminder")
	}

	return response.Success(c, "Reminder retrieved successfully", fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}

// UpdateReminder handles updating a reminder
// @Summary Update reminder
// @Description Update one reminder's dates, amount, channel or notes
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Param body body services.UpdateReminderInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id} [put]
func (h *ReminderHandler) UpdateReminder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	var input services.UpdateReminderInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reminder, err := h.reminderService.Update(c.Context(), uint(id), userID, &input)
	if err != nil {
		return reminderError(c, err, "Failed to update reminder")
	}

	return response.Success(c, "Reminder updated successfully", fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}

// DeleteReminder handles deleting a reminder
// @Summary Delete reminder
// @Description Delete one reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	if err := h.reminderService.Delete(c.Context(), uint(id), userID); err != nil {
		return reminderError(c, err, "Failed to delete reminder")
	}

	return response.Success(c, "Reminder deleted successfully", nil)
}

// MarkReminderSent handles flagging a reminder as delivered
// @Summary Mark reminder sent
// @Description Flag one reminder as delivered
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id}/sent [put]
func (h *ReminderHandler) MarkReminderSent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	reminder, err := h.reminderService.MarkSent(c.Context(), uint(id), userID)
	if err != nil {
		return reminderError(c, err, "Failed to mark reminder sent")
	}

	return response.Success(c, "Reminder marked as sent", fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}

// SnoozeRequest represents snooze request body
type SnoozeRequest struct {
	Days int `json:"days"`
}

// SnoozeReminder handles pushing a reminder date forward
// @Summary Snooze reminder
// @Description Push the reminder date forward by the given days. The due date stays put.
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Param body body SnoozeRequest true "Snooze data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id}/snooze [put]
func (h *ReminderHandler) SnoozeReminder(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	var req SnoozeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reminder, err := h.reminderService.Snooze(c.Context(), uint(id), userID, req.Days)
	if err != nil {
		return reminderError(c, err, "Failed to snooze reminder")
	}

	return response.Success(c, "Reminder snoozed successfully", fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}

// EnableReminder handles enabling a reminder
// @Summary Enable reminder
// @Description Enable one reminder
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id}/enable [put]
func (h *ReminderHandler) EnableReminder(c *fiber.Ctx) error {
	return h.setEnabled(c, true, "Reminder enabled successfully")
}

// DisableReminder handles disabling a reminder
// @Summary Disable reminder
// @Description Disable one reminder without deleting it
// @Tags Reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reminder ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-reminders/{id}/disable [put]
func (h *ReminderHandler) DisableReminder(c *fiber.Ctx) error {
	return h.setEnabled(c, false, "Reminder disabled successfully")
}

func (h *ReminderHandler) setEnabled(c *fiber.Ctx, enabled bool, message string) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid reminder ID")
	}

	reminder, err := h.reminderService.SetEnabled(c.Context(), uint(id), userID, enabled)
	if err != nil {
		return reminderError(c, err, "Failed to update reminder")
	}

	return response.Success(c, message, fiber.Map{
		"reminder": reminder.ToResponse(),
	})
}
