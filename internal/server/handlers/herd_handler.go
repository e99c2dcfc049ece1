package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbacelar/rebanho/internal/domain/models"
	"github.com/mbacelar/rebanho/internal/repository/mongodb"
	"github.com/mbacelar/rebanho/internal/service/migration"
)

// HerdHandler exposes balance reads and the manual migration triggers.
type HerdHandler struct {
	repo         mongodb.Repository
	migrationSvc *migration.Service
	onResult     func(models.MigrationResult)
	logger       *zap.Logger
}

// NewHerdHandler constructs the HTTP handler adapter. onResult may be nil.
func NewHerdHandler(repo mongodb.Repository, migrationSvc *migration.Service, onResult func(models.MigrationResult), logger *zap.Logger) *HerdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HerdHandler{repo: repo, migrationSvc: migrationSvc, onResult: onResult, logger: logger}
}

// Balances returns a property's per-bracket head-count accounting.
func (h *HerdHandler) Balances(c *gin.Context) {
	propertyID := c.Param("id")

	balances, err := h.repo.LoadBalances(c.Request.Context(), propertyID)
	if err != nil {
		h.logger.Error("failed loading balances", zap.String("property_id", propertyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load balances"})
		return
	}

	// Stable order for the dashboard: follow the bracket table.
	ordered := make([]models.CattleBalance, 0, len(models.AgeGroups))
	for _, g := range models.AgeGroups {
		if b, ok := balances[g.ID]; ok {
			ordered = append(ordered, b)
		}
	}

	c.JSON(http.StatusOK, gin.H{"property_id": propertyID, "balances": ordered})
}

// RunMigrations triggers the once-per-day orchestration outside its schedule.
// The calendar-day guard still applies, so a second trigger on the same day
// is a no-op.
func (h *HerdHandler) RunMigrations(c *gin.Context) {
	if err := h.migrationSvc.Initialize(c.Request.Context(), c.Query("property_id"), h.onResult); err != nil {
		h.logger.Error("manual migration run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "migration run failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// RecalculateAgeGroups refreshes the stored bracket of a property's animals
// and returns the applied updates.
func (h *HerdHandler) RecalculateAgeGroups(c *gin.Context) {
	propertyID := c.Param("id")

	updates, err := h.migrationSvc.RecalculateAgeGroups(c.Request.Context(), propertyID)
	if err != nil {
		h.logger.Error("recalculation failed", zap.String("property_id", propertyID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "recalculation failed", "applied": updates})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated_count": len(updates), "updates": updates})
}
