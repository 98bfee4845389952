package handler

import (
	"time"

	"ferremas/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}

	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	User         *UserResponse `json:"user,omitempty"`
}

type SubCategoryResponse struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Name       string `json:"name"`
}

func toSubCategoryResponse(s *entity.SubCategory) *SubCategoryResponse {
	if s == nil {
		return nil
	}

	return &SubCategoryResponse{ID: s.ID, CategoryID: s.CategoryID, Name: s.Name}
}

func toSubCategoryResponses(subs []*entity.SubCategory) []*SubCategoryResponse {
	out := make([]*SubCategoryResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, toSubCategoryResponse(s))
	}

	return out
}

type CategoryResponse struct {
	ID            uint                   `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Icon          string                 `json:"icon"`
	SubCategories []*SubCategoryResponse `json:"subcategories"`
}

func toCategoryResponse(c *entity.Category) *CategoryResponse {
	if c == nil {
		return nil
	}

	return &CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Icon:          c.Icon,
		SubCategories: toSubCategoryResponses(c.SubCategories),
	}
}

func toCategoryResponses(categories []*entity.Category) []*CategoryResponse {
	out := make([]*CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}

	return out
}

type ProductResponse struct {
	ID             uint                 `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Price          decimal.Decimal      `json:"price"`
	EffectivePrice decimal.Decimal      `json:"effective_price"`
	Stock          int                  `json:"stock"`
	Image          string               `json:"image"`
	IsFeatured     bool                 `json:"is_featured"`
	IsPromotion    bool                 `json:"is_promotion"`
	PromotionPrice decimal.Decimal      `json:"promotion_price"`
	CategoryID     uint                 `json:"category_id"`
	SubCategoryID  *uint                `json:"subcategory_id"`
	Category       *CategoryResponse    `json:"category,omitempty"`
	SubCategory    *SubCategoryResponse `json:"subcategory,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}

	return &ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		Image:          p.Image,
		IsFeatured:     p.IsFeatured,
		IsPromotion:    p.IsPromotion,
		PromotionPrice: p.PromotionPrice,
		CategoryID:     p.CategoryID,
		SubCategoryID:  p.SubCategoryID,
		Category:       toCategoryResponse(p.Category),
		SubCategory:    toSubCategoryResponse(p.SubCategory),
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProductResponses(products []*entity.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}

	return out
}

type PriceHistoryResponse struct {
	OldPrice  decimal.Decimal `json:"old_price"`
	NewPrice  decimal.Decimal `json:"new_price"`
	ChangedAt time.Time       `json:"changed_at"`
}

type CartItemResponse struct {
	ID        uint             `json:"id"`
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Product   *ProductResponse `json:"product,omitempty"`
}

func toCartItemResponse(item *entity.CartItem) *CartItemResponse {
	return &CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal(),
		Product:   toProductResponse(item.Product),
	}
}

type CartResponse struct {
	Items     []*CartItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	ItemCount int                 `json:"item_count"`
}

func toCartResponse(cart *entity.Cart) *CartResponse {
	items := make([]*CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, toCartItemResponse(item))
	}

	return &CartResponse{Items: items, Total: cart.Total(), ItemCount: cart.ItemCount()}
}

type OrderItemResponse struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID          uint                 `json:"id"`
	Status      entity.OrderStatus   `json:"status"`
	TotalAmount decimal.Decimal      `json:"total_amount"`
	Items       []*OrderItemResponse `json:"items"`
	CreatedAt   time.Time            `json:"created_at"`
}

func toOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}

	items := make([]*OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		resp := &OrderItemResponse{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
			Subtotal:    item.Subtotal(),
		}
		if item.Product != nil {
			resp.ProductName = item.Product.Name
		}
		items = append(items, resp)
	}

	return &OrderResponse{
		ID:          o.ID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}

type TransactionResponse struct {
	Token             string                   `json:"token"`
	OrderID           uint                     `json:"order_id"`
	BuyOrder          string                   `json:"buy_order"`
	Amount            int64                    `json:"amount"`
	Status            entity.TransactionStatus `json:"status"`
	ResponseCode      *int                     `json:"response_code"`
	AuthorizationCode string                   `json:"authorization_code,omitempty"`
	CardLastDigits    string                   `json:"card_last_digits,omitempty"`
	PaymentTypeCode   string                   `json:"payment_type_code,omitempty"`
	TransactionDate   *time.Time               `json:"transaction_date,omitempty"`
}

func toTransactionResponse(tx *entity.WebpayTransaction) *TransactionResponse {
	return &TransactionResponse{
		Token:             tx.Token,
		OrderID:           tx.OrderID,
		BuyOrder:          tx.BuyOrder,
		Amount:            tx.Amount,
		Status:            tx.Status,
		ResponseCode:      tx.ResponseCode,
		AuthorizationCode: tx.AuthorizationCode,
		CardLastDigits:    tx.CardLastDigits,
		PaymentTypeCode:   tx.PaymentTypeCode,
		TransactionDate:   tx.TransactionDate,
	}
}

type StoreResponse struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	Phone      string   `json:"phone"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func toStoreResponse(s *entity.Store) *StoreResponse {
	return &StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		Phone:     s.Phone,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
	}
}
