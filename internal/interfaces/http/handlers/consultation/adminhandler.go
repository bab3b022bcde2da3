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

// AdminHandler serves the operator console endpoints.
type AdminHandler struct {
	listUC   usecases.ListConsultationsExecutor
	getUC    usecases.GetConsultationExecutor
	updateUC usecases.UpdateConsultationExecutor
	statsUC  usecases.GetStatsExecutor
	logger   logger.Interface
}

func NewAdminHandler(
	listUC usecases.ListConsultationsExecutor,
	getUC usecases.GetConsultationExecutor,
	updateUC usecases.UpdateConsultationExecutor,
	statsUC usecases.GetStatsExecutor,
	logger logger.Interface,
) *AdminHandler {
	return &AdminHandler{
		listUC:   listUC,
		getUC:    getUC,
		updateUC: updateUC,
		statsUC:  statsUC,
		logger:   logger,
	}
}

// List handles GET /admin/consultations
func (h *AdminHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid query parameters", err.Error()))
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), req.ToQuery(utils.ParsePagination(c)))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Stats handles GET /admin/consultations/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// Get handles GET /admin/consultations/:id
func (h *AdminHandler) Get(c *gin.Context) {
	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetConsultationQuery{ID: c.Param("id")})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetByNumber handles GET /admin/consultations/number/:number
func (h *AdminHandler) GetByNumber(c *gin.Context) {
	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetConsultationQuery{TicketNumber: c.Param("number")})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Update handles PATCH /admin/consultations/:id
func (h *AdminHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update consultation", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	cmd := req.ToCommand(c.Param("id"), c.GetString(constants.ContextKeySubject))
	result, err := h.updateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Consultation updated", result)
}
