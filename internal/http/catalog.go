package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

const relatedLimit = 4

// @Summary List categories
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Category
// @Router /api/catalog/categories [get]
func (s *Server) listCategories(c *gin.Context) {
	list, err := s.deps.Catalog.ListCategories(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type productsPage struct {
	Products      []domain.Product `json:"products"`
	Subcategories []string         `json:"subcategories"`
	MinPrice      decimal.Decimal  `json:"minPrice"`
	MaxPrice      decimal.Decimal  `json:"maxPrice"`
}

// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "curtains | tulle | accessories"
// @Param subcategory query []string false "Subcategory filter" collectionFormat(multi)
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Param sort query string false "featured | price-low-high | price-high-low | name-a-z | name-z-a"
// @Success 200 {object} productsPage
// @Failure 400 {object} map[string]string
// @Router /api/catalog/products [get]
func (s *Server) listProducts(c *gin.Context) {
	var (
		list []domain.Product
		err  error
	)
	if v := c.Query("category"); v != "" {
		category, perr := domain.ParseCategory(v)
		if perr != nil {
			writeError(c, perr)
			return
		}
		list, err = s.deps.Catalog.ListByCategory(c, category)
	} else {
		list, err = s.deps.Catalog.ListProducts(c)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	q := catalog.Query{Subcategories: c.QueryArray("subcategory")}
	if q.Sort, err = catalog.ParseSortOrder(c.Query("sort")); err != nil {
		writeError(c, err)
		return
	}
	if v := c.Query("min_price"); v != "" {
		if x, err := decimal.NewFromString(v); err == nil {
			q.MinPrice = &x
		}
	}
	if v := c.Query("max_price"); v != "" {
		if x, err := decimal.NewFromString(v); err == nil {
			q.MaxPrice = &x
		}
	}

	lo, hi := catalog.PriceRange(list)
	c.JSON(http.StatusOK, productsPage{
		Products:      q.Apply(list),
		Subcategories: catalog.Subcategories(list),
		MinPrice:      lo,
		MaxPrice:      hi,
	})
}

// @Summary Get product by id
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /api/catalog/products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.deps.Catalog.GetProduct(c, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Related products
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Param limit query int false "Max items"
// @Success 200 {array} domain.Product
// @Failure 404 {object} map[string]string
// @Router /api/catalog/products/{id}/related [get]
func (s *Server) relatedProducts(c *gin.Context) {
	n := relatedLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		n = v
	}
	list, err := s.deps.Catalog.Related(c, c.Param("id"), n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Featured products
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Router /api/catalog/featured [get]
func (s *Server) featuredProducts(c *gin.Context) {
	list, err := s.deps.Catalog.ListFeatured(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary New arrivals
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Router /api/catalog/new [get]
func (s *Server) newProducts(c *gin.Context) {
	list, err := s.deps.Catalog.ListNew(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
