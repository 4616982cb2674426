package handlers

import (
	"errors"
	"strconv"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/core/domain"
	"debtease/internal/core/services"
	"debtease/internal/pkg/pagination"
	"debtease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DebtHandler handles debt endpoints
type DebtHandler struct {
	debtService *services.DebtService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debtService *services.DebtService) *DebtHandler {
	return &DebtHandler{
		debtService: debtService,
	}
}

// debtError maps service errors to HTTP responses
func debtError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Debt not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have access to this debt")
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

// debtResponses converts debts to their response DTOs
func debtResponses(debts []*models.Debt) []*models.DebtResponse {
	out := make([]*models.DebtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, d.ToResponse())
	}
	return out
}

// CreateDebt handles debt creation
// @Summary Create debt
// @Description Register a new debt for the current user
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateDebtInput true "Debt data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts [post]
func (h *DebtHandler) CreateDebt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateDebtInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	debt, err := h.debtService.Create(c.Context(), userID, &input)
	if err != nil {
		return debtError(c, err, "Failed to create debt")
	}

	return response.Created(c, "Debt created successfully", fiber.Map{
		"debt": debt.ToResponse(),
	})
}

// ListDebts handles listing the user's debts
// @Summary List debts
// @Description List all debts of the current user
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts [get]
func (h *DebtHandler) ListDebts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	debts, err := h.debtService.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list debts")
	}

	return response.Success(c, "Debts retrieved successfully", fiber.Map{
		"debts": debtResponses(debts),
		"count": len(debts),
	})
}

// ListDebtsByType handles listing debts of one type
// @Summary List debts by type
// @Description List the current user's debts of one type
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type path string true "Debt type"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/by-type/{type} [get]
func (h *DebtHandler) ListDebtsByType(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	debts, err := h.debtService.ListByType(c.Context(), userID, c.Params("type"))
	if err != nil {
		return debtError(c, err, "Failed to list debts")
	}

	return response.Success(c, "Debts retrieved successfully", fiber.Map{
		"debts": debtResponses(debts),
		"count": len(debts),
	})
}

// ListDebtsByPriority handles listing debts of one priority
// @Summary List debts by priority
// @Description List the current user's debts of one priority
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param priority path string true "Priority"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/by-priority/{priority} [get]
func (h *DebtHandler) ListDebtsByPriority(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	debts, err := h.debtService.ListByPriority(c.Context(), userID, c.Params("priority"))
	if err != nil {
		return debtError(c, err, "Failed to list debts")
	}

	return response.Success(c, "Debts retrieved successfully", fiber.Map{
		"debts": debtResponses(debts),
		"count": len(debts),
	})
}

// GetDebt handles getting a debt by ID
// @Summary Get debt
// @Description Get one of the current user's debts by ID
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id} [get]
func (h *DebtHandler) GetDebt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	debt, err := h.debtService.Get(c.Context(), uint(id), userID)
	if err != nil {
		return debtError(c, err, "Failed to get debt")
	}

	return response.Success(c, "Debt retrieved successfully", fiber.Map{
		"debt": debt.ToResponse(),
	})
}

// UpdateDebt handles updating a debt
// @Summary Update debt
// @Description Update one of the current user's debts. Balances only move through payments.
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Param body body services.UpdateDebtInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	var input services.UpdateDebtInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	debt, err := h.debtService.Update(c.Context(), uint(id), userID, &input)
	if err != nil {
		return debtError(c, err, "Failed to update debt")
	}

	return response.Success(c, "Debt updated successfully", fiber.Map{
		"debt": debt.ToResponse(),
	})
}

// DeleteDebt handles deleting a debt
// @Summary Delete debt
// @Description Delete one of the current user's debts. Debts with a balance cannot be deleted.
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	if err := h.debtService.Delete(c.Context(), uint(id), userID); err != nil {
		return debtError(c, err, "Failed to delete debt")
	}

	return response.Success(c, "Debt deleted successfully", nil)
}

// MakePayment handles recording a payment against a debt
// @Summary Make payment
// @Description Record a payment against one of the current user's debts
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Param body body services.PaymentInput true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /debts/{id}/payments [post]
func (h *DebtHandler) MakePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	var input services.PaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.debtService.MakePayment(c.Context(), uint(id), userID, &input)
	if err != nil {
		return debtError(c, err, "Failed to record payment")
	}

	return response.Created(c, "Payment recorded successfully", fiber.Map{
		"payment": payment.ToResponse(),
	})
}

// PaymentHistory handles listing payments of a debt
// @Summary Payment history
// @Description List payments recorded against a debt, newest first
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Debt ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debts/{id}/payments [get]
func (h *DebtHandler) PaymentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid debt ID")
	}

	params := pagination.GetParams(c)
	payments, total, err := h.debtService.PaymentHistory(c.Context(), uint(id), userID, params.Limit, params.Offset)
	if err != nil {
		return debtError(c, err, "Failed to list payments")
	}

	out := make([]*models.DebtPaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.ToResponse())
	}

	return response.Success(c, "Payments retrieved successfully", fiber.Map{
		"payments": out,
		"meta":     pagination.GetMeta(params, total),
	})
}

// GetSummary handles the debt summary
// @Summary Debt summary
// @Description Aggregate the current user's debts by status, type and priority
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/summary [get]
func (h *DebtHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.debtService.Summary(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build summary")
	}

	return response.Success(c, "Summary retrieved successfully", summary)
}

// GetAnalysis handles the debt analysis
// @Summary Debt analysis
// @Description Report the average interest rate and the stand-out debts
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/analysis [get]
func (h *DebtHandler) GetAnalysis(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	analysis, err := h.debtService.Analysis(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build analysis")
	}

	return response.Success(c, "Analysis retrieved successfully", analysis)
}

// GetTotalBalance handles the total balance
// @Summary Total balance
// @Description Sum the current balances of the current user's debts
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/total-balance [get]
func (h *DebtHandler) GetTotalBalance(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	total, err := h.debtService.TotalBalance(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute total balance")
	}

	return response.Success(c, "Total balance retrieved successfully", fiber.Map{
		"total_balance": total,
	})
}

// GetTotalMinimumPayments handles the total minimum payments
// @Summary Total minimum payments
// @Description Sum the minimum payments of the current user's active debts
// @Tags Debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debts/total-minimum-payments [get]
func (h *DebtHandler) GetTotalMinimumPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	total, err := h.debtService.TotalMinimumPayments(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute total minimum payments")
	}

	return response.Success(c, "Total minimum payments retrieved successfully", fiber.Map{
		"total_minimum_payments": total,
	})
}
