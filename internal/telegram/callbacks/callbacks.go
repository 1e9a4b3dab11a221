// Package callbacks encodes and parses inline button data.
//
// Every callback string the bot produces goes through the Encode helpers here and every
// inbound string goes through Parse, so the prefix scheme lives in one place.
// Telegram limits callback data to 64 bytes.
package callbacks

import (
	"strings"

	"github.com/go-faster/errors"

	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/orders"
)

var ErrUnknown = errors.New("unknown callback data")

type Kind int

const (
	KindUnknown Kind = iota
	KindMainMenu
	KindCategory
	KindItem
	KindAddToCart
	KindViewCart
	KindCartIncrease
	KindCartDecrease
	KindCartRemove
	KindCartClear
	KindCheckout
	KindMyOrders
	KindAdmin
)

func (k Kind) String() string {
	switch k {
	case KindMainMenu:
		return "main_menu"
	case KindCategory:
		return "category"
	case KindItem:
		return "item"
	case KindAddToCart:
		return "add_to_cart"
	case KindViewCart:
		return "view_cart"
	case KindCartIncrease:
		return "cart_inc"
	case KindCartDecrease:
		return "cart_dec"
	case KindCartRemove:
		return "cart_remove"
	case KindCartClear:
		return "cart_clear"
	case KindCheckout:
		return "checkout"
	case KindMyOrders:
		return "my_orders"
	case KindAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Callback is the parsed form of callback data. Which fields are set depends on Kind.
type Callback struct {
	Kind     Kind
	ItemID   string
	Category menu.Category
	Action   orders.Action
	OrderID  string
}

const (
	mainMenu     = "main_menu"
	viewCart     = "view_cart"
	cartClear    = "cart_clear"
	checkout     = "checkout"
	myOrders     = "my_orders"
	categoryPref = "category_"
	itemPref     = "item_"
	addToCart    = "add_to_cart_"
	cartInc      = "cart_inc_"
	cartDec      = "cart_dec_"
	cartRemove   = "cart_remove_"
	adminPref    = "admin_"
)

var exact = map[string]Kind{
	mainMenu:  KindMainMenu,
	viewCart:  KindViewCart,
	cartClear: KindCartClear,
	checkout:  KindCheckout,
	myOrders:  KindMyOrders,
}

var itemPrefixes = []struct {
	prefix string
	kind   Kind
}{
	{addToCart, KindAddToCart},
	{cartInc, KindCartIncrease},
	{cartDec, KindCartDecrease},
	{cartRemove, KindCartRemove},
	{itemPref, KindItem},
}

// Parse turns callback data into a Callback. Anything that does not match a known
// pattern returns ErrUnknown.
func Parse(data string) (Callback, error) {
	if kind, ok := exact[data]; ok {
		return Callback{Kind: kind}, nil
	}

	for _, p := range itemPrefixes {
		if id, ok := strings.CutPrefix(data, p.prefix); ok {
			if id == "" {
				return Callback{}, errors.Wrapf(ErrUnknown, "%q: empty item id", data)
			}
			return Callback{Kind: p.kind, ItemID: id}, nil
		}
	}

	if c, ok := strings.CutPrefix(data, categoryPref); ok {
		category := menu.Category(c)
		if category != menu.CategoryShawarma && category != menu.CategoryDrinks {
			return Callback{}, errors.Wrapf(ErrUnknown, "%q: unknown category", data)
		}
		return Callback{Kind: KindCategory, Category: category}, nil
	}

	if rest, ok := strings.CutPrefix(data, adminPref); ok {
		return parseAdmin(data, rest)
	}

	return Callback{}, errors.Wrapf(ErrUnknown, "%q", data)
}

func parseAdmin(data, rest string) (Callback, error) {
	rawAction, orderID, ok := strings.Cut(rest, "_")
	if !ok || orderID == "" {
		return Callback{}, errors.Wrapf(ErrUnknown, "%q: missing order id", data)
	}

	action, ok := orders.ParseAction(rawAction)
	if !ok {
		return Callback{}, errors.Wrapf(ErrUnknown, "%q: unknown admin action", data)
	}

	return Callback{Kind: KindAdmin, Action: action, OrderID: orderID}, nil
}

func MainMenu() string { return mainMenu }
func ViewCart() string { return viewCart }
func CartClear() string { return cartClear }
func Checkout() string { return checkout }
func MyOrders() string { return myOrders }

func Category(c menu.Category) string   { return categoryPref + string(c) }
func Item(itemID string) string         { return itemPref + itemID }
func AddToCart(itemID string) string    { return addToCart + itemID }
func CartIncrease(itemID string) string { return cartInc + itemID }
func CartDecrease(itemID string) string { return cartDec + itemID }
func CartRemove(itemID string) string   { return cartRemove + itemID }

func Admin(action orders.Action, orderID string) string {
	return adminPref + string(action) + "_" + orderID
}
