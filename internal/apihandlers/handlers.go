package apihandlers

import (
	"errors"
	"net/http"

	"brecha/internal/app"
	"brecha/internal/catalog"
	"brecha/pkg/categorizer"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ClassifyRequest is the body of POST /api/v1/classify.
type ClassifyRequest struct {
	Title string `json:"title" binding:"required,max=1000"`
}

// CategoriesResponse is the body of GET /api/v1/categories.
type CategoriesResponse struct {
	Categories map[string]catalog.Category `json:"categories"`
	Total      int                         `json:"total"`
}

type APIHandler struct {
	Classifier  categorizer.Classifier
	Catalog     *catalog.Catalog
	ServiceName string
	Environment string
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{
		Classifier:  a.Classifier,
		Catalog:     a.Catalog,
		ServiceName: a.Config.App.Name,
		Environment: a.Config.App.Environment,
	}
}

func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     h.ServiceName,
		"version":     app.Version,
		"status":      "healthy",
		"environment": h.Environment,
	})
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": h.ServiceName})
}

// ClassifyHandler classifies one title. Degraded results are still 200; the
// caller inspects the embedded error.
func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	log.WithField("request_id", c.GetString(requestIDKey)).
		Infof("Received classification request for title: %s", categorizer.TruncateForLog(req.Title, 50))

	result, err := h.Classifier.Classify(c.Request.Context(), req.Title)
	if err != nil {
		if errors.Is(err, categorizer.ErrInvalidInput) {
			log.Warnf("Validation error: %v", err)
			BadRequest(c, err.Error())
			return
		}
		log.Errorf("Classification error: %v", err)
		Internal(c, "An error occurred during classification. Please try again later.")
		return
	}

	if result.Degraded() {
		log.Warnf("Classification degraded (%s): %s", result.ErrorKind, *result.Error)
	} else {
		log.Infof("Classification completed with %d labels", len(result.Labels))
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) ListCategoriesHandler(c *gin.Context) {
	all := h.Catalog.All()
	resp := CategoriesResponse{
		Categories: make(map[string]catalog.Category, len(all)),
		Total:      len(all),
	}
	for _, cat := range all {
		resp.Categories[cat.Name] = cat
	}
	c.JSON(http.StatusOK, resp)
}
