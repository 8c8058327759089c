package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
)

type cartResp struct {
	cart.Snapshot
	Shipping decimal.Decimal `json:"shipping"`
}

func (s *Server) cartState(c *gin.Context, sc *cart.Cart) {
	snap := sc.Snapshot()
	c.JSON(http.StatusOK, cartResp{Snapshot: snap, Shipping: cart.Shipping(snap.TotalPrice)})
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 200 {object} cartResp
// @Router /api/cart [get]
func (s *Server) getCart(c *gin.Context) {
	s.cartState(c, s.deps.Carts.Lookup(c, sessionID(c)))
}

type addCartItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// @Summary Add item to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Param input body addCartItemReq true "Item"
// @Success 200 {object} cartResp
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	sid := sessionID(c)
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.deps.Catalog.GetProduct(c, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	sc := s.deps.Carts.Get(c, sid)
	if err := sc.Add(c, *p, req.Quantity, req.Size); err != nil {
		writeError(c, err)
		return
	}
	s.cartState(c, sc)
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

// @Summary Set item quantity
// @Description Quantities below 1 are ignored.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Param productId path string true "Product ID"
// @Param input body updateCartItemReq true "Quantity"
// @Success 200 {object} cartResp
// @Failure 400 {object} map[string]string
// @Router /api/cart/items/{productId} [put]
func (s *Server) updateCartItem(c *gin.Context) {
	sid := sessionID(c)
	var req updateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	sc := s.deps.Carts.Get(c, sid)
	sc.UpdateQuantity(c, c.Param("productId"), req.Quantity)
	s.cartState(c, sc)
}

// @Summary Remove item from cart
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Param productId path string true "Product ID"
// @Success 200 {object} cartResp
// @Router /api/cart/items/{productId} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	sc := s.deps.Carts.Get(c, sessionID(c))
	sc.Remove(c, c.Param("productId"))
	s.cartState(c, sc)
}

// @Summary Clear cart
// @Tags cart
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 200 {object} cartResp
// @Router /api/cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	sc := s.deps.Carts.Get(c, sessionID(c))
	sc.Clear(c)
	s.cartState(c, sc)
}
