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

type BidHandler struct {
	engine *services.AuctionEngine
	log    logger.Logger
}

type PlaceBidRequest struct {
	Amount string `json:"amount"`
}

type PlaceBidResponse struct {
	BidID          string    `json:"bid_id"`
	ItemID         string    `json:"item_id"`
	Amount         string    `json:"amount"`
	CurrentHighest string    `json:"current_highest"`
	PlacedAt       time.Time `json:"placed_at"`
}

type BidResponse struct {
	BidID    string    `json:"bid_id"`
	ItemID   string    `json:"item_id"`
	BidderID string    `json:"bidder_id"`
	Amount   string    `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
}

type WinnerResponse struct {
	Winner *domain.Winner `json:"winner"`
}

func NewBidHandler(engine *services.AuctionEngine, log logger.Logger) *BidHandler {
	return &BidHandler{engine: engine, log: log}
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return writeEngineError(c, h.log, err)
	}

	bid, currentHighest, err := h.engine.PlaceBid(c.Request().Context(),
		c.Param("id"), middleware.CallerID(c), amount)
	if err != nil {
		return writeEngineError(c, h.log, err)
	}

	return c.JSON(http.StatusCreated, PlaceBidResponse{
		BidID:          bid.ID,
		ItemID:         bid.ItemID,
		Amount:         bid.Amount.String(),
		CurrentHighest: currentHighest.String(),
		PlacedAt:       bid.PlacedAt,
	})
}

func (h *BidHandler) GetBids(c echo.Context) error {
	bids, err := h.engine.Bids(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, bidResponses(bids))
}

func (h *BidHandler) MyBids(c echo.Context) error {
	bids, err := h.engine.BidsByBidder(c.Request().Context(), middleware.CallerID(c))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, bidResponses(bids))
}

func (h *BidHandler) GetWinner(c echo.Context) error {
	winner, err := h.engine.Winner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeEngineError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, WinnerResponse{Winner: winner})
}

func bidResponses(bids []*domain.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		out = append(out, BidResponse{
			BidID:    bid.ID,
			ItemID:   bid.ItemID,
			BidderID: bid.BidderID,
			Amount:   bid.Amount.String(),
			PlacedAt: bid.PlacedAt,
		})
	}
	return out
}
