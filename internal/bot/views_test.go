package bot

import (
	"strings"
	"testing"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/shop"
)

func TestMenuKeyboard(t *testing.T) {
	kb := menuKeyboard(catalog())
	if len(kb) != 4 {
		t.Fatalf("rows = %d", len(kb))
	}
	if kb[0][0].Label != "Salmon" || kb[0][0].Data != "1|product_id" {
		t.Fatalf("first row = %+v", kb[0][0])
	}
	if kb[3][0].Data != "cart" {
		t.Fatalf("cart row = %+v", kb[3][0])
	}
}

func TestMenuKeyboardEmptyCatalog(t *testing.T) {
	kb := menuKeyboard(nil)
	if len(kb) != 1 || kb[0][0].Data != "cart" {
		t.Fatalf("keyboard = %+v", kb)
	}
}

func TestRenderCart(t *testing.T) {
	items := []shop.LineItem{
		{ID: 7, Quantity: 2, Product: shop.Product{ID: 1, Title: "Salmon", Description: "Fresh salmon", Price: 10}},
		{ID: 8, Quantity: 0.5, Product: shop.Product{ID: 2, Title: "Trout", Description: "River trout", Price: 5}},
	}
	text, kb := renderCart(items)

	if !strings.Contains(text, "Salmon") || !strings.Contains(text, "quantity 2 kg") {
		t.Fatalf("text = %q", text)
	}
	if !strings.Contains(text, "quantity 0.5 kg") {
		t.Fatalf("text = %q", text)
	}
	if !strings.HasSuffix(text, "Total: $22.50") {
		t.Fatalf("text = %q", text)
	}
	if len(kb) != 4 {
		t.Fatalf("rows = %d", len(kb))
	}
	if kb[1][0].Data != "del_from_cart|8" {
		t.Fatalf("remove row = %+v", kb[1][0])
	}
	if kb[2][0].Data != "cancel_cart" || kb[3][0].Data != "payment" {
		t.Fatalf("action rows = %+v %+v", kb[2][0], kb[3][0])
	}
}

func TestRenderCartEmpty(t *testing.T) {
	text, kb := renderCart(nil)
	if !strings.Contains(text, msgCartEmpty) {
		t.Fatalf("text = %q", text)
	}
	if !strings.HasSuffix(text, "Total: $0.00") {
		t.Fatalf("text = %q", text)
	}
	if len(kb) != 2 {
		t.Fatalf("rows = %d", len(kb))
	}
}

func TestProductCaption(t *testing.T) {
	got := productCaption(shop.Product{Title: "Cod", Description: "Atlantic cod", Price: 7.5})
	want := "Cod\nAtlantic cod\n$7.50 per kg"
	if got != want {
		t.Fatalf("caption = %q, want %q", got, want)
	}
}
