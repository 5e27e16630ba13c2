package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/voiceorder/logger"
	"github.com/kbukum/voiceorder/order"
	"github.com/kbukum/voiceorder/server"
	"github.com/kbukum/voiceorder/validation"
)

// ParseRequest is the body of POST /api/order/parse.
type ParseRequest struct {
	Transcription string `json:"transcription" validate:"required"`
}

// ParseResponse is the success body of the parse route.
type ParseResponse struct {
	Success   bool              `json:"success"`
	Order     order.ParsedOrder `json:"order"`
	Upselling order.Upselling   `json:"upselling"`
	Cached    bool              `json:"cached"`
}

// UpsellRequest is the body of POST /api/order/upsell.
type UpsellRequest struct {
	Order *order.ParsedOrder `json:"order" validate:"required"`
}

// UpsellResponse carries the recomputed order and its suggestions.
type UpsellResponse struct {
	Success   bool              `json:"success"`
	Order     order.ParsedOrder `json:"order"`
	Upselling order.Upselling   `json:"upselling"`
}

// ParseOrder handles POST /api/order/parse.
func (h *Handler) ParseOrder(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondFailure(c, http.StatusBadRequest, "缺少轉錄文字")
		return
	}
	req.Transcription = strings.TrimSpace(req.Transcription)
	if err := validation.Validate(req); err != nil {
		server.RespondFailure(c, http.StatusBadRequest, "缺少轉錄文字")
		return
	}

	ex := h.orders.Extract(c.Request.Context(), req.Transcription)
	h.log.WithContext(c.Request.Context()).Debug("order parsed", logger.Fields(
		logger.FieldParser, string(ex.Order.Source), "cached", ex.Cached, "items", len(ex.Order.Items)))

	c.JSON(http.StatusOK, ParseResponse{
		Success:   true,
		Order:     ex.Order,
		Upselling: ex.Upselling,
		Cached:    ex.Cached,
	})
}

// UpsellOrder handles POST /api/order/upsell for an order the client edited.
func (h *Handler) UpsellOrder(c *gin.Context) {
	var req UpsellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondFailure(c, http.StatusBadRequest, "缺少訂單數據")
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	o, up := h.orders.Upsell(*req.Order)
	c.JSON(http.StatusOK, UpsellResponse{Success: true, Order: o, Upselling: up})
}
