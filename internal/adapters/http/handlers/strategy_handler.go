package handlers

import (
	"errors"
	"strconv"

	"debtease/internal/adapters/persistence/models"
	"debtease/internal/core/domain"
	"debtease/internal/core/services"
	"debtease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// StrategyHandler handles payoff strategy endpoints
type StrategyHandler struct {
	strategyService *services.StrategyService
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(strategyService *services.StrategyService) *StrategyHandler {
	return &StrategyHandler{
		strategyService: strategyService,
	}
}

// strategyError maps service errors to HTTP responses
func strategyError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Strategy not found")
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Forbidden(c, "You don't have access to this strategy")
	case errors.Is(err, domain.ErrSimulationUnresolved):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}

// CreateStrategy handles strategy creation
// @Summary Create strategy
// @Description Create a payoff strategy. The budget must cover the total minimum payments.
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateStrategyInput true "Strategy data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-strategies [post]
func (h *StrategyHandler) CreateStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateStrategyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	strategy, err := h.strategyService.Create(c.Context(), userID, &input)
	if err != nil {
		return strategyError(c, err, "Failed to create strategy")
	}

	return response.Created(c, "Strategy created successfully", fiber.Map{
		"strategy": strategy.ToResponse(),
	})
}

// ListStrategies handles listing the user's strategies
// @Summary List strategies
// @Description List the current user's payoff strategies
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-strategies [get]
func (h *StrategyHandler) ListStrategies(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	strategies, err := h.strategyService.List(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list strategies")
	}

	out := make([]*models.DebtStrategyResponse, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, s.ToResponse())
	}

	return response.Success(c, "Strategies retrieved successfully", fiber.Map{
		"strategies": out,
		"count":      len(out),
	})
}

// GetActiveStrategy handles getting the active strategy
// @Summary Get active strategy
// @Description Get the current user's active payoff strategy
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/active [get]
func (h *StrategyHandler) GetActiveStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	strategy, err := h.strategyService.GetActive(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "No active strategy")
		}
		return response.InternalServerError(c, "Failed to get active strategy")
	}

	return response.Success(c, "Active strategy retrieved successfully", fiber.Map{
		"strategy": strategy.ToResponse(),
	})
}

// GetRecommendation handles building a payoff ordering
// @Summary Recommend payoff order
// @Description Order the current user's active debts under snowball or avalanche
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Strategy type" default(snowball)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /debt-strategies/generate [get]
func (h *StrategyHandler) GetRecommendation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	strategyType := domain.StrategyType(c.Query("type", string(domain.StrategySnowball)))
	if !strategyType.Valid() || strategyType == domain.StrategyCustom {
		return response.BadRequest(c, "Strategy type must be snowball or avalanche")
	}

	recommendation, err := h.strategyService.Recommend(c.Context(), userID, strategyType)
	if err != nil {
		return strategyError(c, err, "Failed to build recommendation")
	}

	return response.Success(c, "Recommendation built successfully", recommendation)
}

// GetPayoffTimeline handles the payoff simulation
// @Summary Payoff timeline
// @Description Simulate paying the current user's active debts month by month
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param type query string false "Strategy type" default(snowball)
// @Param monthly_payment query number true "Monthly budget"
// @Param type query string false "Strategy type" default(snowball)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /debt-strategies/payoff-timeline [get]
func (h *StrategyHandler) GetPayoffTimeline(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	strategyType := domain.StrategyType(c.Query("type", string(domain.StrategySnowball)))

	monthly, err := decimal.NewFromString(c.Query("monthly_payment", "0"))
	if err != nil {
		return response.BadRequest(c, "Invalid monthly payment")
	}

	timeline, err := h.strategyService.PayoffTimeline(c.Context(), userID, strategyType, monthly)
	if err != nil {
		return strategyError(c, err, "Failed to simulate payoff")
	}

	return response.Success(c, "Payoff timeline built successfully", timeline)
}

// CompareStrategies handles the snowball/avalanche comparison
// @Summary Compare strategies
// @Description Simulate both orderings against the same monthly budget
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param monthly_payment query number true "Monthly budget"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /debt-strategies/compare [get]
func (h *StrategyHandler) CompareStrategies(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	monthly, err := decimal.NewFromString(c.Query("monthly_payment", "0"))
	if err != nil {
		return response.BadRequest(c, "Invalid monthly payment")
	}

	comparison, err := h.strategyService.Compare(c.Context(), userID, monthly)
	if err != nil {
		return strategyError(c, err, "Failed to compare strategies")
	}

	return response.Success(c, "Strategies compared successfully", comparison)
}

// GetStrategy handles getting a strategy by ID
// @Summary Get strategy
// @Description Get one of the current user's strategies by ID
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Strategy ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/{id} [get]
func (h *StrategyHandler) GetStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid strategy ID")
	}

	strategy, err := h.strategyService.Get(c.Context(), uint(id), userID)
	if err != nil {
		return strategyError(c, err, "Failed to get strategy")
	}

	return response.Success(c, "Strategy retrieved successfully", fiber.Map{
		"strategy": strategy.ToResponse(),
	})
}

// UpdateStrategy handles updating a strategy
// @Summary Update strategy
// @Description Update one of the current user's strategies
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Strategy ID"
// @Param body body services.UpdateStrategyInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/{id} [put]
func (h *StrategyHandler) UpdateStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid strategy ID")
	}

	var input services.UpdateStrategyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	strategy, err := h.strategyService.Update(c.Context(), uint(id), userID, &input)
	if err != nil {
		return strategyError(c, err, "Failed to update strategy")
	}

	return response.Success(c, "Strategy updated successfully", fiber.Map{
		"strategy": strategy.ToResponse(),
	})
}

// DeleteStrategy handles deleting a strategy
// @Summary Delete strategy
// @Description Delete one of the current user's strategies
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Strategy ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/{id} [delete]
func (h *StrategyHandler) DeleteStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid strategy ID")
	}

	if err := h.strategyService.Delete(c.Context(), uint(id), userID); err != nil {
		return strategyError(c, err, "Failed to delete strategy")
	}

	return response.Success(c, "Strategy deleted successfully", nil)
}

// ActivateStrategy handles activating a strategy
// @Summary Activate strategy
// @Description Make the strategy the user's single active one
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Strategy ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/{id}/activate [put]
func (h *StrategyHandler) ActivateStrategy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid strategy ID")
	}

	strategy, err := h.strategyService.Activate(c.Context(), uint(id), userID)
	if err != nil {
		return strategyError(c, err, "Failed to activate strategy")
	}

	return response.Success(c, "Strategy activated successfully", fiber.Map{
		"strategy": strategy.ToResponse(),
	})
}

// GetStrategyEffectiveness handles the effectiveness report
// @Summary Strategy effectiveness
// @Description Relate the strategy's budget to the current user's active debts
// @Tags Strategies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Strategy ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /debt-strategies/{id}/effectiveness [get]
func (h *StrategyHandler) GetStrategyEffectiveness(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid strategy ID")
	}

	effectiveness, err := h.strategyService.Effectiveness(c.Context(), uint(id), userID)
	if err != nil {
		return strategyError(c, err, "Failed to compute effectiveness")
	}

	return response.Success(c, "Effectiveness computed successfully", effectiveness)
}
