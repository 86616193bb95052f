package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-card-bot/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-card-bot/internal/app"
)

// CardHandler exposes card runs and layout previews.
type CardHandler struct {
	service *app.CardService
}

// NewCardHandler creates a card handler.
func NewCardHandler(service *app.CardService) *CardHandler {
	return &CardHandler{service: service}
}

// Generate handles POST /api/v1/cards.
// It runs the pipeline once and answers 200 with the published card.
//
// @Summary Generate and publish a card
// @Tags cards
// @Produce json
// @Success 200 {object} dto.CardResponse
// @Failure 409 {object} dto.ErrorResponse "a run is already in progress"
// @Failure 500 {object} dto.ErrorResponse "missing template or malformed quote source"
// @Failure 502 {object} dto.ErrorResponse "metadata lookup failed"
// @Router /api/v1/cards [post]
func (h *CardHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCardResponse(result))
}

// Layout handles POST /api/v1/layout.
// It wraps the given text the way a card body would be wrapped.
//
// @Summary Preview line breaking
// @Tags cards
// @Accept json
// @Produce json
// @Param request body dto.LayoutRequest true "text to wrap"
// @Success 200 {object} dto.LayoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/layout [post]
func (h *CardHandler) Layout(c *gin.Context) {
	var req dto.LayoutRequest

	if err := dto.BindAndValidate(c, &req); err != nil {
		if errors.Is(err, dto.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
				dto.ErrorCodeValidation,
				"request validation failed",
				dto.ValidationErrors(err),
			).WithTraceID(dto.GetTraceID(c)))

			return
		}

		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"request body must be JSON with a text field",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	c.JSON(http.StatusOK, dto.NewLayoutResponse(h.service.Layout(req.Text)))
}

// RegisterCardRoutes registers the card routes on rg.
func (h *CardHandler) RegisterCardRoutes(rg *gin.RouterGroup) {
	rg.POST("/cards", h.Generate)
	rg.POST("/layout", h.Layout)
}
