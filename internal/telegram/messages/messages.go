package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shawarma-bot/internal/stories/orders"
)

// Общие
const (
	Error          = "❌ Ошибка. Пожалуйста, попробуйте позже."
	UnknownCommand = "Неизвестная команда"
	NoRights       = "❌ Нет прав"
	MainMenu       = "Главное меню"
	Done           = "✅ Готово"
)

// Кнопки главного меню (reply keyboard)
const (
	ButtonShawarma = "🌯 Шаурма"
	ButtonDrinks   = "🥤 Напитки"
	ButtonAbout    = "ℹ️ О нас"
	ButtonProfile  = "👤 Профиль"
	ButtonCart     = "🛒 Корзина"
)

// Inline кнопки
const (
	ButtonAddToCart = "➕ В корзину"
	ButtonBack      = "⬅️ Назад"
	ButtonViewCart  = "🛒 Открыть корзину"
	ButtonCheckout  = "✅ Оформить заказ"
	ButtonClearCart = "🗑 Очистить"
	ButtonMyOrders  = "📋 Мои заказы"
	ButtonConfirm   = "✅ Подтвердить"
	ButtonReject    = "❌ Отклонить"
	ButtonPreparing = "👨‍🍳 Готовится"
	ButtonReady     = "🎉 Готов"
	ButtonDetails   = "🔍 Подробнее"
)

const (
	Welcome = `👋 Добро пожаловать в нашу шаурмичную!

Выберите раздел меню кнопками ниже.`

	Help = `Я понимаю только кнопки меню и команды:

/start — Главное меню
/menu — Показать меню
/cart — Корзина
/orders — Мои заказы
/help — Эта справка`

	About = `ℹ️ О нас

🌯 Готовим шаурму на углях с 2015 года.
🕙 Каждый день с 10:00 до 23:00
📍 ул. Ленина, 1
📞 +7 900 000-00-00`

	CategoryEmpty   = "😔 В этом разделе пока ничего нет"
	ItemNotFound    = "❌ Позиция не найдена"
	CartEmpty       = "🛒 Корзина пуста. Загляните в меню!"
	CartCleared     = "🗑 Корзина очищена"
	CheckoutEmpty   = "🛒 Корзина пуста, оформлять нечего"
	OrdersEmpty     = "📋 У вас пока нет заказов"
	OrderNotFound   = "❌ Заказ не найден"
	OrderStale      = "⚠️ Заказ уже изменен другим администратором"
	OrderInvalid    = "❌ Это действие недоступно для текущего статуса заказа"
	ChooseShawarma  = "🌯 Выберите шаурму:"
	ChooseDrinks    = "🥤 Выберите напиток:"
	AddedToCart     = "✅ Добавлено в корзину"
	RemovedFromCart = "Удалено из корзины"
	NoPendingOrders = "✅ Заказов, ожидающих подтверждения, нет"
	AdminHelp       = "\n\nКоманды администратора:\n/pending — Заказы, ожидающие подтверждения"
)

// StatusLabel returns the customer-facing status name.
func StatusLabel(s orders.Status) string {
	switch s {
	case orders.StatusPending:
		return "⏳ Ожидает подтверждения"
	case orders.StatusConfirmed:
		return "✅ Подтвержден"
	case orders.StatusPreparing:
		return "👨‍🍳 Готовится"
	case orders.StatusReady:
		return "🎉 Готов к выдаче"
	case orders.StatusRejected:
		return "❌ Отклонен"
	default:
		return string(s)
	}
}

// ShortID returns the first block of the order UUID for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// FormatPrice prints whole prices without decimals: "350 ₽", "70.50 ₽".
func FormatPrice(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(0) + " ₽"
	}
	return d.StringFixed(2) + " ₽"
}

// CartButtonLabel returns the reply keyboard cart label with the item count.
func CartButtonLabel(count int) string {
	if count == 0 {
		return ButtonCart
	}
	return fmt.Sprintf("%s (%d)", ButtonCart, count)
}

func formatItems(b *strings.Builder, items []orders.Item) {
	for _, item := range items {
		fmt.Fprintf(b, "• %s × %d = %s\n", item.Name, item.Quantity, FormatPrice(item.Sum()))
	}
}

// FormatAdminOrder renders the new-order notification for administrators.
func FormatAdminOrder(order *orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 Новый заказ #%s\n\n", ShortID(order.ID))
	fmt.Fprintf(&b, "👤 Клиент: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "🕐 Время: %s\n\n", order.CreatedAt.Format("02.01.2006 15:04"))
	formatItems(&b, order.Items)
	fmt.Fprintf(&b, "\n💰 Итого: %s\n", FormatPrice(order.Total()))
	fmt.Fprintf(&b, "📌 Статус: %s", StatusLabel(order.Status))
	return b.String()
}

// FormatAdminReminder renders the reminder for orders stuck in pending.
func FormatAdminReminder(order *orders.Order, waiting time.Duration) string {
	minutes := int(waiting.Minutes())
	return fmt.Sprintf("⏰ Заказ ждет подтверждения %d %s\n\n%s",
		minutes, Plural(minutes, "минуту", "минуты", "минут"), FormatAdminOrder(order))
}

// FormatOrderDetails renders the expanded admin view.
func FormatOrderDetails(order *orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Заказ #%s\n", ShortID(order.ID))
	fmt.Fprintf(&b, "ID: %s\n", order.ID)
	fmt.Fprintf(&b, "👤 Клиент: %s (id %d)\n", order.CustomerName, order.UserID)
	fmt.Fprintf(&b, "🕐 Создан: %s\n", order.CreatedAt.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "✏️ Изменен: %s\n\n", order.UpdatedAt.Format("02.01.2006 15:04"))
	formatItems(&b, order.Items)
	fmt.Fprintf(&b, "\n💰 Итого: %s\n", FormatPrice(order.Total()))
	fmt.Fprintf(&b, "📌 Статус: %s", StatusLabel(order.Status))
	return b.String()
}

// FormatOrderPlaced is the customer's confirmation after checkout.
func FormatOrderPlaced(order *orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Заказ #%s принят!\n\n", ShortID(order.ID))
	formatItems(&b, order.Items)
	fmt.Fprintf(&b, "\n💰 Итого: %s\n\n", FormatPrice(order.Total()))
	b.WriteString("Мы сообщим, когда администратор подтвердит заказ.")
	return b.String()
}

// FormatCustomerStatus is sent to the customer after a status change.
func FormatCustomerStatus(order *orders.Order) string {
	text := fmt.Sprintf("📦 Заказ #%s: %s", ShortID(order.ID), StatusLabel(order.Status))
	switch order.Status {
	case orders.StatusReady:
		text += "\n\nМожно забирать! Приятного аппетита 🌯"
	case orders.StatusRejected:
		text += "\n\nК сожалению, мы не можем выполнить заказ. Свяжитесь с нами по телефону."
	}
	return text
}

// FormatChannelStatus is the one-line status update for the notification channel.
func FormatChannelStatus(order *orders.Order) string {
	return fmt.Sprintf("📌 #%s → %s", ShortID(order.ID), StatusLabel(order.Status))
}

// CartLine is one rendered cart row.
type CartLine struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

func FormatCart(lines []CartLine, total decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("🛒 Ваша корзина:\n\n")
	for _, l := range lines {
		sum := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, "• %s × %d = %s\n", l.Name, l.Quantity, FormatPrice(sum))
	}
	fmt.Fprintf(&b, "\n💰 Итого: %s", FormatPrice(total))
	return b.String()
}

func FormatMenuItem(name, description string, price decimal.Decimal, inCart int) string {
	text := fmt.Sprintf("%s\n%s\n\n💰 %s", name, description, FormatPrice(price))
	if inCart > 0 {
		text += fmt.Sprintf("\n🛒 В корзине: %d", inCart)
	}
	return text
}

func FormatProfile(name string, telegramID int64, since time.Time, recent []*orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", name)
	fmt.Fprintf(&b, "🆔 %d\n", telegramID)
	fmt.Fprintf(&b, "📅 С нами с %s\n\n", since.Format("02.01.2006"))
	if len(recent) == 0 {
		b.WriteString(OrdersEmpty)
		return b.String()
	}
	b.WriteString("📋 Последние заказы:\n")
	for _, o := range recent {
		fmt.Fprintf(&b, "• #%s от %s — %s, %s\n",
			ShortID(o.ID), o.CreatedAt.Format("02.01 15:04"), FormatPrice(o.Total()), StatusLabel(o.Status))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Plural выбирает форму слова для числа: 1 минуту, 2 минуты, 5 минут.
func Plural(n int, one, few, many string) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return many
	}
	switch n % 10 {
	case 1:
		return one
	case 2, 3, 4:
		return few
	default:
		return many
	}
}
