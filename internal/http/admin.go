package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// @Summary List products (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by name or category"
// @Success 200 {array} domain.Product
// @Router /api/admin/products [get]
func (s *Server) adminListProducts(c *gin.Context) {
	ctx := adminCtx(c)
	if _, err := s.deps.AdminProducts.Refresh(ctx); err != nil && len(s.deps.AdminProducts.List()) == 0 {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.AdminProducts.Search(c.Query("q")))
}

// @Summary Create product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body domain.Product true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /api/admin/products [post]
func (s *Server) adminCreateProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.deps.AdminProducts.Create(adminCtx(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Update product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param input body domain.Product true "Product"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/products/{id} [put]
func (s *Server) adminUpdateProduct(c *gin.Context) {
	var req domain.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.ID = c.Param("id")
	p, err := s.deps.AdminProducts.Update(adminCtx(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/admin/products/{id} [delete]
func (s *Server) adminDeleteProduct(c *gin.Context) {
	if err := s.deps.AdminProducts.Delete(adminCtx(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete all products
// @Tags admin
// @Security BearerAuth
// @Success 204
// @Router /api/admin/products [delete]
func (s *Server) adminDeleteAllProducts(c *gin.Context) {
	if err := s.deps.AdminProducts.DeleteAll(adminCtx(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Export products to Excel
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/admin/products/export [get]
func (s *Server) adminExportProducts(c *gin.Context) {
	if _, err := s.deps.AdminProducts.Refresh(adminCtx(c)); err != nil && len(s.deps.AdminProducts.List()) == 0 {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Header("Content-Type", xlsxContentType)
	if err := s.deps.AdminProducts.ExportExcel(c.Writer); err != nil {
		s.deps.Logger.Error("export products", "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

// @Summary Import products from Excel
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx file"
// @Success 200 {object} admin.ImportReport
// @Failure 400 {object} map[string]string
// @Router /api/admin/products/import [post]
func (s *Server) adminImportProducts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open Excel file"})
		return
	}
	defer f.Close()

	ctx := adminCtx(c)
	if _, err := s.deps.AdminProducts.Refresh(ctx); err != nil {
		writeError(c, err)
		return
	}
	report, err := s.deps.AdminProducts.ImportExcel(ctx, f, fh.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary Sync products table with the given list
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body []domain.Product false "Products; the bundled catalog when the body is absent, [] empties the table"
// @Success 200 {object} service.SyncReport
// @Failure 400 {object} map[string]string
// @Router /api/admin/products/sync [post]
func (s *Server) adminSyncProducts(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	var local []domain.Product
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &local); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
	} else if s.deps.SyncSource != nil {
		list, err := s.deps.SyncSource.Products(c)
		if err != nil {
			writeError(c, err)
			return
		}
		local = list
	}
	report, err := s.deps.AdminProducts.Sync(adminCtx(c), local)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary List reviews (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search by author or text"
// @Success 200 {array} domain.Review
// @Router /api/admin/reviews [get]
func (s *Server) adminListReviews(c *gin.Context) {
	if _, err := s.deps.AdminReviews.Refresh(adminCtx(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.AdminReviews.Search(c.Query("q")))
}

// @Summary Create review (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body domain.Review true "Review"
// @Success 201 {object} domain.Review
// @Failure 400 {object} map[string]string
// @Router /api/admin/reviews [post]
func (s *Server) adminCreateReview(c *gin.Context) {
	var req domain.Review
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.deps.AdminReviews.Create(adminCtx(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary Delete review
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/admin/reviews/{id} [delete]
func (s *Server) adminDeleteReview(c *gin.Context) {
	if err := s.deps.AdminReviews.Delete(adminCtx(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Insert missing seed reviews
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /api/admin/reviews/sync [post]
func (s *Server) adminSyncReviews(c *gin.Context) {
	inserted, err := s.deps.AdminReviews.Sync(adminCtx(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// @Summary Upload product image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/admin/images [post]
func (s *Server) adminUploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open image"})
		return
	}
	defer f.Close()

	url, err := s.deps.AdminProducts.UploadImage(adminCtx(c), filepath.Base(fh.Filename), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

// @Summary Delete product image
// @Tags admin
// @Security BearerAuth
// @Param path query string true "Image URL or path"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/admin/images [delete]
func (s *Server) adminDeleteImage(c *gin.Context) {
	ref := strings.TrimSpace(c.Query("path"))
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if err := s.deps.AdminProducts.DeleteImage(adminCtx(c), ref); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
