package shop

// Product is a catalog entry owned by the CMS. Prices are per kilogram.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       float64
}

// LineItem links a cart to a product with a quantity in kilograms.
type LineItem struct {
	ID       int64
	Quantity float64
	Product  Product
}

// Cost returns the line cost: unit price times quantity.
func (li LineItem) Cost() float64 {
	return li.Product.Price * li.Quantity
}

// Strapi-style wire types. Reads come back as {data: {id, attributes}} or
// {data: [...]}; relations are nested one level deeper under another data key.

type envelope[T any] struct {
	Data T `json:"data"`
}

type productDoc struct {
	ID         int64        `json:"id"`
	Attributes productAttrs `json:"attributes"`
}

type productAttrs struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Picture     *pictureRel `json:"picture,omitempty"`
}

type pictureRel struct {
	Data *pictureDoc `json:"data"`
}

type pictureDoc struct {
	ID         int64 `json:"id"`
	Attributes struct {
		URL string `json:"url"`
	} `json:"attributes"`
}

type cartDoc struct {
	ID         int64     `json:"id"`
	Attributes cartAttrs `json:"attributes"`
}

type cartAttrs struct {
	TgID     string        `json:"tg_id"`
	Products *lineItemList `json:"products,omitempty"`
}

type lineItemList struct {
	Data []lineItemDoc `json:"data"`
}

type lineItemDoc struct {
	ID         int64         `json:"id"`
	Attributes lineItemAttrs `json:"attributes"`
}

type lineItemAttrs struct {
	Quantity float64     `json:"quantity"`
	Product  *productRel `json:"product,omitempty"`
}

type productRel struct {
	Data *productDoc `json:"data"`
}

type userDoc struct {
	ID         int64     `json:"id"`
	Attributes userAttrs `json:"attributes"`
}

type userAttrs struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Write bodies. Relation writes use the connect convention.

type connectRel struct {
	Connect []int64 `json:"connect"`
}

type createCartBody struct {
	TgID string `json:"tg_id"`
}

type addLineItemBody struct {
	Quantity float64    `json:"quantity"`
	Product  connectRel `json:"product"`
	Cart     connectRel `json:"cart"`
}

type createUserBody struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (d productDoc) toProduct() Product {
	return Product{
		ID:          d.ID,
		Title:       d.Attributes.Title,
		Description: d.Attributes.Description,
		Price:       d.Attributes.Price,
	}
}

func (d lineItemDoc) toLineItem() LineItem {
	item := LineItem{
		ID:       d.ID,
		Quantity: d.Attributes.Quantity,
	}
	if d.Attributes.Product != nil && d.Attributes.Product.Data != nil {
		item.Product = d.Attributes.Product.Data.toProduct()
	}
	return item
}
