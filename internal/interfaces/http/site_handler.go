package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/pkg/config"
)

// SiteHandler expone los textos del panel administrativo.
type SiteHandler struct {
	site dto.SiteResponse
}

// NewSiteHandler construye el handler a partir de la configuración cargada al arrancar.
func NewSiteHandler(cfg config.SiteConfig) *SiteHandler {
	return &SiteHandler{site: dto.SiteResponse{
		Header:     cfg.Header,
		Title:      cfg.Title,
		IndexTitle: cfg.IndexTitle,
	}}
}

// Get godoc
// @Summary      Textos del panel
// @Tags         site
// @Produce      json
// @Success      200  {object}  dto.SiteResponse
// @Router       /api/site [get]
func (h *SiteHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.site)
}
