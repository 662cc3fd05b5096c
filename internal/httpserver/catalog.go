package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *handlers) listProducts(c *gin.Context) {
	if h.deps.Catalog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog disabled"})
		return
	}
	products, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list products", zap.Error(err))
		writeError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "results": out})
}

func (h *handlers) getProduct(c *gin.Context) {
	if h.deps.Catalog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog disabled"})
		return
	}
	p, err := h.deps.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}
