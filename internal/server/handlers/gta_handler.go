package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/domain/models"
	"github.com/mbacelar/rebanho/internal/service/gta"
)

const issueDateLayout = "2006-01-02"

// GTAHandler exposes the transport document validator over HTTP so the
// movement-creation screens can validate numbers before saving.
type GTAHandler struct {
	logger *zap.Logger
}

// NewGTAHandler constructs the HTTP handler adapter.
func NewGTAHandler(logger *zap.Logger) *GTAHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GTAHandler{logger: logger}
}

type gtaDocumentRequest struct {
	Number string `json:"number" binding:"required"`
	State  string `json:"state" binding:"required"`
}

// Validate checks a GTA number against its state's rule.
func (h *GTAHandler) Validate(c *gin.Context) {
	var req gtaDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid gta validate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gta.Validate(req.Number, req.State))
}

// Format normalizes a GTA number to the target state's prefix.
func (h *GTAHandler) Format(c *gin.Context) {
	var req gtaDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid gta format payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"number": gta.Format(req.Number, req.State)})
}

// Parse extracts the state prefix from a raw number and validates it.
func (h *GTAHandler) Parse(c *gin.Context) {
	number := c.Query("number")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number query parameter is required"})
		return
	}

	c.JSON(http.StatusOK, gta.Parse(number))
}

// Rule returns the static configuration for a state, so UIs can render
// format hints and the expiration window.
func (h *GTAHandler) Rule(c *gin.Context) {
	state := c.Param("state")

	rule, ok := gta.RuleFor(state)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rule configured for state " + state})
		return
	}

	c.JSON(http.StatusOK, rule)
}

// Required reports whether a GTA must accompany a movement type in a state.
func (h *GTAHandler) Required(c *gin.Context) {
	movementType := models.MovementType(c.Query("movement_type"))
	state := c.Query("state")
	if movementType == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movement_type and state query parameters are required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"required": gta.IsRequired(movementType, state)})
}

type gtaValidityRequest struct {
	State     string `json:"state" binding:"required"`
	IssueDate string `json:"issue_date" binding:"required"`
	CheckDate string `json:"check_date"`
}

// Validity computes the expiration date of an issued GTA and whether it is
// still usable on the check date (today when omitted).
func (h *GTAHandler) Validity(c *gin.Context) {
	var req gtaValidityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid gta validity payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	issueDate, err := time.Parse(issueDateLayout, req.IssueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue_date must be formatted as YYYY-MM-DD"})
		return
	}

	checkDate := time.Now().UTC()
	if req.CheckDate != "" {
		checkDate, err = time.Parse(issueDateLayout, req.CheckDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "check_date must be formatted as YYYY-MM-DD"})
			return
		}
	}

	expiration, ok := gta.ExpirationDate(issueDate, req.State)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rule configured for state " + req.State})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":           gta.IsValid(issueDate, req.State, checkDate),
		"expiration_date": expiration.Format(issueDateLayout),
	})
}
