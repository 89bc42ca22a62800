package domain

import "time"

// Product is embedded in the Seller document. Products are addressed by
// name within a single seller's catalog; there is no cross-account id.
type Product struct {
	Name          string    `json:"pName" dynamodbav:"name"`
	Description   string    `json:"pDescription" dynamodbav:"description"`
	Category      string    `json:"pCat" dynamodbav:"category"`
	Price         float64   `json:"pPrice" dynamodbav:"price"`
	Quantity      int       `json:"pQuantity" dynamodbav:"quantity"`
	ImageURL      string    `json:"pImageUrl,omitempty" dynamodbav:"image_url"`
	ImagePublicID string    `json:"pImagePublicId,omitempty" dynamodbav:"image_public_id"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type ProductInput struct {
	Name          string  `json:"pName" validate:"required"`
	Description   string  `json:"pDescription" validate:"required"`
	Category      string  `json:"pCat" validate:"required"`
	Price         float64 `json:"pPrice" validate:"gte=0"`
	Quantity      int     `json:"pQuantity" validate:"gte=0"`
	ImageURL      string  `json:"pImageUrl"`
	ImagePublicID string  `json:"pImagePublicId"`
}

// UpdateProductRequest carries a partial edit. Nil fields are left
// untouched; the name is immutable through this request (products are
// addressed by it). Unknown payload keys are dropped by JSON decoding,
// which doubles as the allow-list of mutable fields.
type UpdateProductRequest struct {
	Description   *string  `json:"pDescription"`
	Category      *string  `json:"pCat"`
	Price         *float64 `json:"pPrice" validate:"omitempty,gte=0"`
	Quantity      *int     `json:"pQuantity" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"pImageUrl"`
	ImagePublicID *string  `json:"pImagePublicId"`
}
