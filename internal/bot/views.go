package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/shop"
)

const (
	msgChooseProduct  = "Please choose a product:"
	msgAddedToCart    = "Added to your cart."
	msgAskEmail       = "Please send your e-mail address."
	msgAskEmailAgain  = "Please send your e-mail address again."
	msgOrderAccepted  = "Thank you! Expect a confirmation by e-mail."
	msgCartEmpty      = "Your cart is empty."
	msgPressStart     = "Press /start to begin shopping."
	msgSomethingWrong = "Something went wrong, please try again."
	msgHelp           = "This is the fish market bot. Use /start to open the product menu, pick a product and a weight, then check out from the cart."
)

// menuKeyboard builds the product menu: one button per product plus a cart row.
func menuKeyboard(products []shop.Product) Keyboard {
	kb := make(Keyboard, 0, len(products)+1)
	for _, p := range products {
		kb = append(kb, []Button{{
			Label: p.Title,
			Data:  fmt.Sprintf("%d|product_id", p.ID),
		}})
	}
	kb = append(kb, []Button{{Label: "Go to cart", Data: "cart"}})
	return kb
}

// productCaption renders the product card text.
func productCaption(p shop.Product) string {
	return fmt.Sprintf("%s\n%s\n$%.2f per kg", p.Title, p.Description, p.Price)
}

// weightKeyboard builds the weight choice row plus cart/back navigation.
// Buttons encode grams; the add-to-cart handler converts to kilograms.
func weightKeyboard(productID int64) Keyboard {
	id := strconv.FormatInt(productID, 10)
	return Keyboard{
		{
			{Label: "1 kg", Data: "1000|" + id + "|weight"},
			{Label: "2 kg", Data: "2000|" + id + "|weight"},
			{Label: "5 kg", Data: "5000|" + id + "|weight"},
		},
		{
			{Label: "Cart", Data: "cart"},
			{Label: "Back", Data: "back"},
		},
	}
}

// renderCart builds the cart summary text and its keyboard.
func renderCart(items []shop.LineItem) (string, Keyboard) {
	kb := make(Keyboard, 0, len(items)+2)
	var b strings.Builder
	var total float64

	for _, item := range items {
		cost := item.Cost()
		total += cost
		fmt.Fprintf(&b, "%s\n%s\n$%.2f per kg, quantity %g kg\nAmount $%.2f\n\n",
			item.Product.Title, item.Product.Description, item.Product.Price, item.Quantity, cost)
		kb = append(kb, []Button{{
			Label: "Remove " + item.Product.Title,
			Data:  fmt.Sprintf("del_from_cart|%d", item.ID),
		}})
	}
	if len(items) == 0 {
		b.WriteString(msgCartEmpty + "\n\n")
	}
	fmt.Fprintf(&b, "Total: $%.2f", total)

	kb = append(kb, []Button{{Label: "Cancel order", Data: "cancel_cart"}})
	kb = append(kb, []Button{{Label: "Pay", Data: "payment"}})
	return b.String(), kb
}

// confirmEmailText asks the user to verify the captured address.
func confirmEmailText(email string) string {
	return fmt.Sprintf("You sent this e-mail: %s\nIs that correct?", email)
}

func confirmEmailKeyboard() Keyboard {
	return Keyboard{
		{{Label: "Correct", Data: "mail_yes"}},
		{{Label: "Wrong", Data: "mail_no"}},
	}
}
