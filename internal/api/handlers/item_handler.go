package handlers

import (
	"net/http"
	"time"

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

type ItemHandler struct {
	engine *services.AuctionEngine
	log    logger.Logger
}

type CreateItemRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BasePrice   string    `json:"base_price"`
	Deadline    time.Time `json:"deadline"`
	Images      []string  `json:"images"`
}

type ItemResponse struct {
	ItemID      string    `json:"item_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	BasePrice   string    `json:"base_price"`
	Deadline    time.Time `json:"deadline"`
	State       string    `json:"state"`
	Images      []string  `json:"images"`
}

type StopAuctionRequest struct {
	Action string `json:"action"`
}

type StopAuctionResponse struct {
	State  string         `json:"state"`
	Winner *domain.Winner `json:"winner,omitempty"`
}

func NewItemHandler(engine *services.AuctionEngine, log logger.Logger) *ItemHandler {
	return &ItemHandler{engine: engine, log: log}
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Title is required"})
	}

	basePrice, err := domain.ParseMoney(req.BasePrice)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Base price must be a non-negative amount"})
	}

	ownerID := middleware.CallerID(c)
	item, err := h.engine.CreateItem(c.Request().Context(), ownerID,
		req.Title, req.Description, req.Category, basePrice, req.Deadline, req.Images)
	if err != nil {
		return writeEngineError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, itemResponse(item))
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.engine.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, itemResponse(item))
}

func (h *ItemHandler) MyItems(c echo.Context) error {
	items, err := h.engine.ItemsByOwner(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}

	out := make([]*ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemResponse(item))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ItemHandler) StopAuction(c echo.Context) error {
	var req StopAuctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	outcome, err := h.engine.StopAuction(c.Request().Context(), c.Param("id"),
		middleware.CallerID(c), domain.StopAction(req.Action))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}

	return c.JSON(http.StatusOK, StopAuctionResponse{
		State:  outcome.State.String(),
		Winner: outcome.Winner,
	})
}

func itemResponse(item *domain.Item) *ItemResponse {
	return &ItemResponse{
		ItemID:      item.ID,
		OwnerID:     item.OwnerID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		BasePrice:   item.BasePrice.String(),
		Deadline:    item.Deadline,
		State:       item.State.String(),
		Images:      item.Images,
	}
}
