package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"petfood-catalog/internal/model"
	"petfood-catalog/internal/pipeline"
)

// SnapshotReader is the read-only snapshot access used by handlers.
type SnapshotReader interface {
	Read() (*model.CatalogSnapshot, error)
}

// HistoryReader serves the price-history endpoint.
type HistoryReader interface {
	History(productID string, limit int) ([]model.PricePoint, error)
}

// PipelineRunner is the pipeline surface exposed over HTTP.
type PipelineRunner interface {
	RunFullUpdate(ctx context.Context, opts pipeline.Options) *model.RunResult
	Status() model.RunStatus
}

// SingleScraper inspects one product page outside the batch flow.
type SingleScraper interface {
	ScrapeProduct(productURL string) (*model.ExtractedProduct, error)
}

// Reconciler runs the secondary price pass over a snapshot.
type Reconciler interface {
	ReconcileAll(ctx context.Context, snapshot *model.CatalogSnapshot) int
}

// SnapshotWriter persists a reconciled snapshot.
type SnapshotWriter interface {
	Write(snapshot *model.CatalogSnapshot) error
}

// Handlers contains all API handlers
type Handlers struct {
	snapshots  SnapshotReader
	writer     SnapshotWriter
	history    HistoryReader
	pipeline   PipelineRunner
	scraper    SingleScraper
	reconciler Reconciler
}

// NewHandlers creates a new handlers instance
func NewHandlers(snapshots SnapshotReader, writer SnapshotWriter, history HistoryReader, p PipelineRunner, s SingleScraper, r Reconciler) *Handlers {
	return &Handlers{
		snapshots:  snapshots,
		writer:     writer,
		history:    history,
		pipeline:   p,
		scraper:    s,
		reconciler: r,
	}
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// GetCatalog serves the whole current snapshot. Readers append a
// cache-defeating query parameter, so the response is marked
// non-cacheable here as well.
func (h *Handlers) GetCatalog(c *gin.Context) {
	snapshot, err := h.snapshots.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no catalog snapshot available yet"})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.JSON(http.StatusOK, snapshot)
}

// GetProduct returns a single catalog entry by id
func (h *Handlers) GetProduct(c *gin.Context) {
	snapshot, err := h.snapshots.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no catalog snapshot available yet"})
		return
	}
	entry, ok := snapshot.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetProductHistory returns logged price observations for a product
func (h *Handlers) GetProductHistory(c *gin.Context) {
	points, err := h.history.History(c.Param("id"), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": points})
}

// GetStats returns aggregate catalog statistics
func (h *Handlers) GetStats(c *gin.Context) {
	stats := &model.Stats{}

	snapshot, err := h.snapshots.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshot != nil {
		stats.TotalProducts = snapshot.TotalProducts
		stats.Categories = snapshot.Categories
		stats.LastUpdated = snapshot.LastUpdated
	}
	status := h.pipeline.Status()
	stats.RunStatus = &status

	c.JSON(http.StatusOK, stats)
}

// TriggerUpdate runs the full pipeline. The request body carries the
// run options; missing fields fall back to defaults.
func (h *Handlers) TriggerUpdate(c *gin.Context) {
	opts := pipeline.DefaultOptions()
	if err := c.ShouldBindJSON(&opts); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid options: " + err.Error()})
		return
	}
	if opts.Category != "" && opts.Category != model.SpeciesDog && opts.Category != model.SpeciesCat {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category must be dog or cat"})
		return
	}

	result := h.pipeline.RunFullUpdate(c.Request.Context(), opts)
	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, result)
}

// TriggerReconcile runs the price reconciliation pass over the
// current snapshot and persists the result.
func (h *Handlers) TriggerReconcile(c *gin.Context) {
	snapshot, err := h.snapshots.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no catalog snapshot available yet"})
		return
	}

	updated := h.reconciler.ReconcileAll(c.Request.Context(), snapshot)
	if updated > 0 {
		if err := h.writer.Write(snapshot); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"updated": updated,
		"total":   snapshot.TotalProducts,
	})
}

// ScrapeOne inspects a single product page on demand
func (h *Handlers) ScrapeOne(c *gin.Context) {
	productURL := c.Query("url")
	if productURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	product, err := h.scraper.ScrapeProduct(productURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}
