package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/montanus-wecib/mps-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (ch *CatalogHandler) GetCatalog(c *gin.Context) {
	catalog, err := ch.catalogService.FetchCatalog(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, catalog)
}
