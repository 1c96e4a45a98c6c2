package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/pkg/db/pagination"
)

// Catalog reads are always served from the local mirror, never the remote.

func (s *Server) ListCategories(c *gin.Context) {
	includeDeleted, _ := strconv.ParseBool(c.Query("include_deleted"))

	items, err := s.catalogSvc.ListCategories(c.Request.Context(), includeDeleted)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListProducts(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := validate.Struct(page); err != nil {
		respondBadRequest(c, err)
		return
	}
	limit, offset := page.Normalize()

	includeDeleted, _ := strconv.ParseBool(c.Query("include_deleted"))

	items, err := s.catalogSvc.ListProducts(c.Request.Context(), catalogdomain.ListProductsRequest{
		Keyword:        c.Query("keyword"),
		CategoryID:     c.Query("category_id"),
		IncludeDeleted: includeDeleted,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetProduct(c *gin.Context) {
	item, err := s.catalogSvc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) GetProductIngredients(c *gin.Context) {
	items, err := s.catalogSvc.GetProductIngredients(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
