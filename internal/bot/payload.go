package bot

import (
	"strconv"
	"strings"
)

// Callback payloads are delimiter-separated strings. The trailing or leading
// token disambiguates the action:
//
//	<productID>|product_id          open a product card
//	<grams>|<productID>|weight      add to cart
//	del_from_cart|<itemID>          remove one line item
//	cart, back, cancel_cart, payment, mail_yes, mail_no
type payloadKind int

const (
	payloadUnknown payloadKind = iota
	payloadProduct
	payloadWeight
	payloadRemoveItem
	payloadCart
	payloadBack
	payloadCancelCart
	payloadPayment
	payloadEmailYes
	payloadEmailNo
)

type payload struct {
	kind      payloadKind
	productID int64
	itemID    int64
	grams     int64
}

// parsePayload recovers the action and its arguments from a callback string.
// Anything malformed comes back as payloadUnknown and is treated as a no-op.
func parsePayload(data string) payload {
	switch data {
	case "cart":
		return payload{kind: payloadCart}
	case "back":
		return payload{kind: payloadBack}
	case "cancel_cart":
		return payload{kind: payloadCancelCart}
	case "payment":
		return payload{kind: payloadPayment}
	case "mail_yes":
		return payload{kind: payloadEmailYes}
	case "mail_no":
		return payload{kind: payloadEmailNo}
	}

	parts := strings.Split(data, "|")
	switch {
	case len(parts) == 2 && parts[1] == "product_id":
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return payload{}
		}
		return payload{kind: payloadProduct, productID: id}

	case len(parts) == 3 && parts[2] == "weight":
		grams, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return payload{}
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return payload{}
		}
		return payload{kind: payloadWeight, grams: grams, productID: id}

	case len(parts) == 2 && parts[0] == "del_from_cart":
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return payload{}
		}
		return payload{kind: payloadRemoveItem, itemID: id}
	}

	return payload{}
}
