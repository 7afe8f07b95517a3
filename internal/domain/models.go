package domain

// Product is a catalog row. Prices are decimal strings to avoid binary-float
// drift when they feed cart math.
type Product struct {
	ID             int64  `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	Description    string `db:"description" json:"description"`
	Category       string `db:"category" json:"category"`
	Price          string `db:"price" json:"price"`
	ImageURL       string `db:"image_url" json:"imageUrl"`
	ThumbnailURL   string `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	StockQuantity  int    `db:"stock_quantity" json:"stockQuantity"`
	IsFeatured     bool   `db:"is_featured" json:"isFeatured"`
	ExternalSource string `db:"external_source" json:"externalSource,omitempty"` // "customcat" or ""
	ExternalID     string `db:"external_id" json:"-"`
	Metadata       string `db:"metadata" json:"-"` // originating external record, opaque JSON
	CreatedAt      string `db:"created_at" json:"-"`
	UpdatedAt      string `db:"updated_at" json:"-"`
}

// CartLine is one row in a session's cart: a single product id with its
// quantity and options. At most one line exists per product id.
type CartLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`

	IsGift             bool   `json:"isGift,omitempty"`
	GiftRecipientName  string `json:"giftRecipientName,omitempty"`
	GiftRecipientEmail string `json:"giftRecipientEmail,omitempty"`
	GiftMessage        string `json:"giftMessage,omitempty"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CustomerDetails is captured by checkout step one and held in memory only
// for the duration of the checkout session.
type CustomerDetails struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Address  Address `json:"address"`
}

type Setting struct {
	Key         string `db:"key" json:"key"`
	Value       string `db:"value" json:"value"`
	Description string `db:"description" json:"description,omitempty"`
	IsSensitive bool   `db:"is_sensitive" json:"is_sensitive"`
	UpdatedAt   string `db:"updated_at" json:"-"`
}
