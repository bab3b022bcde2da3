package consultation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ibis1225/pet-ai/internal/application/consultation/usecases"
	"github.com/ibis1225/pet-ai/internal/shared/constants"
	"github.com/ibis1225/pet-ai/internal/shared/errors"
	"github.com/ibis1225/pet-ai/internal/shared/logger"
	"github.com/ibis1225/pet-ai/internal/shared/utils"
)

// Handler serves the chat-facing consultation endpoints.
type Handler struct {
	chat      usecases.ChatExecutor
	historyUC usecases.GetUserHistoryExecutor
	logger    logger.Interface
}

func NewHandler(
	chat usecases.ChatExecutor,
	historyUC usecases.GetUserHistoryExecutor,
	logger logger.Interface,
) *Handler {
	return &Handler{
		chat:      chat,
		historyUC: historyUC,
		logger:    logger,
	}
}

// Start handles POST /consultations
func (h *Handler) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start consultation", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	reply, err := h.chat.Start(c.Request.Context(), usecases.StartCommand{
		Channel:       req.Channel,
		ChannelUserID: req.ChannelUserID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if reply.Started {
		utils.CreatedResponse(c, reply, "Consultation started")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Consultation already in progress", reply)
}

// GetActive handles GET /consultations/active/:channel/:channel_user_id
func (h *Handler) GetActive(c *gin.Context) {
	channel, userID, err := channelUserParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	active, err := h.chat.FindActive(c.Request.Context(), channel, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", active)
}

// ProcessInput handles POST /consultations/input
func (h *Handler) ProcessInput(c *gin.Context) {
	var req InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for consultation input", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	reply, err := h.chat.ProcessInput(c.Request.Context(), usecases.ProcessInputCommand{
		Channel:       req.Channel,
		ChannelUserID: req.ChannelUserID,
		Text:          req.Text,
		DeliveryID:    deliveryID(c, req.DeliveryID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", reply)
}

// ProcessStep handles POST /consultations/step
func (h *Handler) ProcessStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for consultation step", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	reply, err := h.chat.ProcessPostback(c.Request.Context(), usecases.ProcessPostbackCommand{
		Channel:       req.Channel,
		ChannelUserID: req.ChannelUserID,
		Step:          req.Step,
		Value:         req.Value,
		Data:          req.Data,
		DeliveryID:    deliveryID(c, req.DeliveryID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", reply)
}

// Cancel handles POST /consultations/cancel/:channel/:channel_user_id
func (h *Handler) Cancel(c *gin.Context) {
	channel, userID, err := channelUserParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	reply, err := h.chat.Cancel(c.Request.Context(), channel, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Consultation cancelled", reply)
}

// GetHistory handles GET /consultations/user/:channel/:channel_user_id
func (h *Handler) GetHistory(c *gin.Context) {
	channel, userID, err := channelUserParams(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	limit := utils.ParseQueryLimit(c, "limit", constants.DefaultHistoryLimit, constants.MaxHistoryLimit)

	items, err := h.historyUC.Execute(c.Request.Context(), usecases.GetUserHistoryQuery{
		Channel:       channel,
		ChannelUserID: userID,
		Limit:         limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", items)
}

// deliveryID prefers the body field and falls back to the X-Delivery-ID
// header set by channel gateways.
func deliveryID(c *gin.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.GetHeader(constants.HeaderDeliveryID)
}
