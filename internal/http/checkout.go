package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
)

// @Summary Checkout state
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 200 {object} checkout.State
// @Router /api/checkout [get]
func (s *Server) checkoutState(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Checkout.Peek(c, sessionID(c)).State())
}

// @Summary Update checkout form fields
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Param input body map[string]string true "Field values"
// @Success 200 {object} checkout.State
// @Failure 400 {object} map[string]string
// @Router /api/checkout/form [patch]
func (s *Server) checkoutUpdate(c *gin.Context) {
	flow := s.deps.Checkout.Get(c, sessionID(c))
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := flow.Update(fields); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow.State())
}

type nextResp struct {
	Advanced bool           `json:"advanced"`
	State    checkout.State `json:"state"`
}

// @Summary Validate the current step and advance
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 200 {object} nextResp
// @Router /api/checkout/next [post]
func (s *Server) checkoutNext(c *gin.Context) {
	flow := s.deps.Checkout.Get(c, sessionID(c))
	advanced := flow.Next()
	c.JSON(http.StatusOK, nextResp{Advanced: advanced, State: flow.State()})
}

// @Summary Go back one step
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 200 {object} checkout.State
// @Router /api/checkout/prev [post]
func (s *Server) checkoutPrev(c *gin.Context) {
	flow := s.deps.Checkout.Get(c, sessionID(c))
	flow.Prev()
	c.JSON(http.StatusOK, flow.State())
}

// @Summary Place order
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string false "Client session"
// @Success 201 {object} checkout.Placement
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/checkout/place [post]
func (s *Server) checkoutPlace(c *gin.Context) {
	flow := s.deps.Checkout.Get(c, sessionID(c))
	placement, err := flow.PlaceOrder(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, placement)
}
