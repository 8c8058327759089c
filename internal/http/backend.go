package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type createOrderReq struct {
	ProductID   string          `json:"productId"`
	UserName    string          `json:"userName"`
	UserAddress string          `json:"userAddress"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
}

// @Summary Create order
// @Tags backend
// @Accept json
// @Produce json
// @Param input body createOrderReq true "Order"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string "malformed JSON"
// @Failure 500 {object} map[string]string "validation or storage error"
// @Router /api/orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.deps.Orders.CreateOrder(c, domain.Order{
		ProductID:   req.ProductID,
		UserName:    req.UserName,
		UserAddress: req.UserAddress,
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
	})
	if err != nil {
		// validation failures included: clients of this route expect 201 or 500
		s.deps.Logger.Error("save order", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Помилка збереження замовлення", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

type createReviewReq struct {
	ProductID  string `json:"productId"`
	ReviewText string `json:"reviewText"`
	UserName   string `json:"userName"`
	Rating     int    `json:"rating"`
}

// reviewResp отзыв в полях бэкенда
type reviewResp struct {
	ID         string    `json:"_id"`
	ProductID  string    `json:"productId"`
	UserName   string    `json:"userName"`
	ReviewText string    `json:"reviewText"`
	Rating     int       `json:"rating"`
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

func toReviewResp(r domain.Review) reviewResp {
	return reviewResp{
		ID:         r.ID,
		ProductID:  r.ProductID,
		UserName:   r.Name,
		ReviewText: r.Text,
		Rating:     r.Rating,
		Date:       r.Date,
		CreatedAt:  r.CreatedAt,
	}
}

// @Summary Create review
// @Tags backend
// @Accept json
// @Produce json
// @Param input body createReviewReq true "Review"
// @Success 201 {object} reviewResp
// @Failure 400 {object} map[string]string "malformed JSON"
// @Failure 500 {object} map[string]string "validation or storage error"
// @Router /api/reviews [post]
func (s *Server) createReview(c *gin.Context) {
	var req createReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	r, err := s.deps.Reviews.Create(c, domain.Review{
		ProductID: req.ProductID,
		Name:      req.UserName,
		Text:      req.ReviewText,
		Rating:    req.Rating,
	})
	if err != nil {
		s.deps.Logger.Error("save review", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Помилка збереження відгуку", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toReviewResp(*r))
}

// @Summary List reviews
// @Tags backend
// @Produce json
// @Param productId query string false "Product ID; all reviews when empty"
// @Success 200 {array} reviewResp
// @Failure 500 {object} map[string]string
// @Router /api/reviews [get]
func (s *Server) listReviews(c *gin.Context) {
	list, err := s.deps.Reviews.List(c, c.Query("productId"))
	if err != nil {
		s.deps.Logger.Error("load reviews", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Помилка завантаження відгуків", "error": err.Error()})
		return
	}
	out := make([]reviewResp, 0, len(list))
	for _, r := range list {
		out = append(out, toReviewResp(r))
	}
	c.JSON(http.StatusOK, out)
}
