package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"shawarma-bot/internal/metrics"
	"shawarma-bot/internal/stories/menu"
	"shawarma-bot/internal/stories/users"
	"shawarma-bot/internal/telegram/callbacks"
	"shawarma-bot/internal/telegram/messages"
)

type (
	botApi interface {
		Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
		Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	}

	userService interface {
		GetOrCreate(ctx context.Context, profile users.Profile) (*users.User, error)
	}

	adminChecker interface {
		IsAdmin(telegramID int64) bool
	}

	menuHandler interface {
		ShowMainMenu(ctx context.Context, chatID int64, user *users.User) error
		ShowAbout(ctx context.Context, chatID int64) error
		ShowCategory(ctx context.Context, chatID int64, category menu.Category) error
		HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error
	}

	cartHandler interface {
		Show(ctx context.Context, chatID int64, user *users.User) error
		HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error
	}

	ordersHandler interface {
		ShowProfile(ctx context.Context, chatID int64, user *users.User) error
		ShowOrders(ctx context.Context, chatID int64, user *users.User) error
		HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback, user *users.User) error
	}

	adminOrdersHandler interface {
		HandleAction(ctx context.Context, query *tgbotapi.CallbackQuery, cb callbacks.Callback) error
		ListPending(ctx context.Context, chatID int64) error
	}
)

type handlerFunc func(ctx context.Context, chatID int64, user *users.User) error

// textRoute сопоставляет надпись кнопки reply-клавиатуры с обработчиком.
// Кнопка корзины содержит счетчик, поэтому для нее prefix=true.
type textRoute struct {
	name   string
	label  string
	prefix bool
	handle handlerFunc
}

type commandRoute struct {
	name        string
	description string
	adminOnly   bool
	handle      handlerFunc
}

type Router struct {
	bot          botApi
	userService  userService
	adminChecker adminChecker

	menu        menuHandler
	cart        cartHandler
	orders      ordersHandler
	adminOrders adminOrdersHandler

	textRoutes []textRoute
	commands   []commandRoute

	// чаты администраторов, которым уже выставлено расширенное меню команд
	adminMenus sync.Map

	tracer trace.Tracer
	logger *slog.Logger
}

// NewRouter создает новый роутер с зависимостями
func NewRouter(
	bot botApi,
	userService userService,
	adminChecker adminChecker,
	menuHandler menuHandler,
	cartHandler cartHandler,
	ordersHandler ordersHandler,
	adminOrdersHandler adminOrdersHandler,
	logger *slog.Logger,
) *Router {
	r := &Router{
		bot:          bot,
		userService:  userService,
		adminChecker: adminChecker,
		menu:         menuHandler,
		cart:         cartHandler,
		orders:       ordersHandler,
		adminOrders:  adminOrdersHandler,
		tracer:       otel.Tracer("shawarma-bot/telegram"),
		logger:       logger,
	}

	r.textRoutes = []textRoute{
		{name: "shawarma", label: messages.ButtonShawarma, handle: r.category(menu.CategoryShawarma)},
		{name: "drinks", label: messages.ButtonDrinks, handle: r.category(menu.CategoryDrinks)},
		{name: "about", label: messages.ButtonAbout, handle: r.about},
		{name: "profile", label: messages.ButtonProfile, handle: r.orders.ShowProfile},
		{name: "cart", label: messages.ButtonCart, prefix: true, handle: r.cart.Show},
	}

	r.commands = []commandRoute{
		{name: "start", description: "Главное меню", handle: r.menu.ShowMainMenu},
		{name: "menu", description: "Показать меню", handle: r.category(menu.CategoryShawarma)},
		{name: "cart", description: "Корзина", handle: r.cart.Show},
		{name: "orders", description: "Мои заказы", handle: r.orders.ShowOrders},
		{name: "help", description: "Справка", handle: r.help},
		{name: "pending", description: "Заказы, ожидающие подтверждения", adminOnly: true, handle: r.pending},
	}

	return r
}

func (r *Router) category(c menu.Category) handlerFunc {
	return func(ctx context.Context, chatID int64, _ *users.User) error {
		return r.menu.ShowCategory(ctx, chatID, c)
	}
}

func (r *Router) about(ctx context.Context, chatID int64, _ *users.User) error {
	return r.menu.ShowAbout(ctx, chatID)
}

func (r *Router) pending(ctx context.Context, chatID int64, _ *users.User) error {
	return r.adminOrders.ListPending(ctx, chatID)
}

func (r *Router) help(_ context.Context, chatID int64, user *users.User) error {
	text := messages.Help
	if r.adminChecker.IsAdmin(user.TelegramID) {
		text += messages.AdminHelp
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// Serve читает обновления до отмены ctx или закрытия канала. Каждое обновление
// обрабатывается в своей горутине, одновременно не больше maxInFlight.
// handlerTimeout ограничивает один обработчик, чтобы зависший вызов освобождал слот.
// После остановки дожидается уже запущенных обработчиков.
func (r *Router) Serve(ctx context.Context, updates tgbotapi.UpdatesChannel, maxInFlight int, handlerTimeout time.Duration) {
	var g errgroup.Group
	if maxInFlight > 0 {
		g.SetLimit(maxInFlight)
	}

	// Обработчик, начавший работу, доводит ее до конца даже при остановке
	handlerCtx := context.WithoutCancel(ctx)

	defer func() {
		r.logger.Info("Dispatcher stopping, waiting for in-flight handlers")
		_ = g.Wait()
		r.logger.Info("Dispatcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			g.Go(func() error {
				hctx, cancel := withHandlerTimeout(handlerCtx, handlerTimeout)
				defer cancel()
				r.handle(hctx, update)
				return nil
			})
		}
	}
}

func withHandlerTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *Router) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.HandlerErrors.WithLabelValues("panic").Inc()
			r.logger.Error("Handler panic",
				"update_id", update.UpdateID,
				"panic", fmt.Sprint(rec))
			r.replyError(&update)
		}
	}()

	if err := r.Route(ctx, &update); err != nil {
		r.logger.Error("Failed to handle update",
			"update_id", update.UpdateID,
			"error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.HandlerErrors.WithLabelValues("timeout").Inc()
			r.replyError(&update)
		}
	}
}

// Route классифицирует одно обновление и вызывает ровно один обработчик.
func (r *Router) Route(ctx context.Context, update *tgbotapi.Update) error {
	ctx, span := r.tracer.Start(ctx, "telegram.Route", trace.WithAttributes(
		attribute.Int("update.id", update.UpdateID),
	))
	defer span.End()

	from := extractUser(update)
	if from == nil {
		metrics.UpdatesRouted.WithLabelValues("other", "ignored").Inc()
		return nil
	}

	user, err := r.userService.GetOrCreate(ctx, users.Profile{
		TelegramID: from.ID,
		Username:   from.UserName,
		FirstName:  from.FirstName,
	})
	if err != nil {
		r.replyError(update)
		return fmt.Errorf("get or create user %d: %w", from.ID, err)
	}

	if r.adminChecker.IsAdmin(user.TelegramID) {
		r.setupAdminCommands(user.TelegramID)
	}

	switch {
	case update.Message != nil:
		msg := update.Message
		if msg.IsCommand() || strings.HasPrefix(msg.Text, "/") {
			return r.handleCommand(ctx, msg, user)
		}
		return r.handleText(ctx, msg, user)
	case update.CallbackQuery != nil:
		return r.handleCallback(ctx, update.CallbackQuery, user)
	}

	return nil
}

// matchText ищет кнопку меню: сначала точное совпадение, затем по префиксу
func (r *Router) matchText(text string) (textRoute, bool) {
	for _, route := range r.textRoutes {
		if text == route.label {
			return route, true
		}
	}
	for _, route := range r.textRoutes {
		if route.prefix && strings.HasPrefix(text, route.label) {
			return route, true
		}
	}
	return textRoute{}, false
}

func (r *Router) handleText(ctx context.Context, msg *tgbotapi.Message, user *users.User) error {
	route, ok := r.matchText(strings.TrimSpace(msg.Text))
	if !ok {
		metrics.UpdatesRouted.WithLabelValues("text", "help").Inc()
		return r.help(ctx, msg.Chat.ID, user)
	}

	metrics.UpdatesRouted.WithLabelValues("text", route.name).Inc()
	return r.observe(route.name, route.handle(ctx, msg.Chat.ID, user))
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *users.User) error {
	name := commandName(msg)
	for _, cmd := range r.commands {
		if cmd.name != name {
			continue
		}
		if cmd.adminOnly && !r.adminChecker.IsAdmin(user.TelegramID) {
			break
		}
		metrics.UpdatesRouted.WithLabelValues("command", cmd.name).Inc()
		return r.observe("/"+cmd.name, cmd.handle(ctx, msg.Chat.ID, user))
	}

	metrics.UpdatesRouted.WithLabelValues("command", "help").Inc()
	return r.help(ctx, msg.Chat.ID, user)
}

func (r *Router) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, user *users.User) error {
	cb, err := callbacks.Parse(query.Data)
	if err != nil {
		metrics.UpdatesRouted.WithLabelValues("callback", "unknown").Inc()
		r.logger.Debug("Unknown callback", "data", query.Data, "user_id", user.TelegramID)
		_, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, messages.UnknownCommand))
		return nil
	}

	route := cb.Kind.String()
	metrics.UpdatesRouted.WithLabelValues("callback", route).Inc()

	switch cb.Kind {
	case callbacks.KindMainMenu, callbacks.KindCategory, callbacks.KindItem:
		err = r.menu.HandleCallback(ctx, query, cb, user)
	case callbacks.KindAddToCart, callbacks.KindViewCart, callbacks.KindCartIncrease,
		callbacks.KindCartDecrease, callbacks.KindCartRemove, callbacks.KindCartClear:
		err = r.cart.HandleCallback(ctx, query, cb, user)
	case callbacks.KindCheckout, callbacks.KindMyOrders:
		err = r.orders.HandleCallback(ctx, query, cb, user)
	case callbacks.KindAdmin:
		if !r.adminChecker.IsAdmin(user.TelegramID) {
			r.logger.Warn("Admin action from non-admin",
				"user_id", user.TelegramID,
				"order_id", cb.OrderID,
				"action", cb.Action)
			_, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, messages.NoRights))
			return nil
		}
		err = r.adminOrders.HandleAction(ctx, query, cb)
	default:
		_, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, messages.UnknownCommand))
		return nil
	}

	return r.observe(route, err)
}

func (r *Router) observe(route string, err error) error {
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(route).Inc()
		return fmt.Errorf("%s: %w", route, err)
	}
	return nil
}

func (r *Router) replyError(update *tgbotapi.Update) {
	if update.CallbackQuery != nil {
		_, _ = r.bot.Request(tgbotapi.NewCallbackWithAlert(update.CallbackQuery.ID, messages.Error))
		return
	}
	if update.Message != nil {
		_, _ = r.bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, messages.Error))
	}
}

// commandName возвращает имя команды без "/" и "@botname"
func commandName(msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		return msg.Command()
	}
	name, _, _ := strings.Cut(strings.TrimPrefix(msg.Text, "/"), " ")
	name, _, _ = strings.Cut(name, "@")
	return name
}

func extractUser(update *tgbotapi.Update) *tgbotapi.User {
	if update.Message != nil {
		return update.Message.From
	}
	if update.CallbackQuery != nil {
		return update.CallbackQuery.From
	}
	return nil
}

func (r *Router) botCommands(admin bool) []tgbotapi.BotCommand {
	var commands []tgbotapi.BotCommand
	for _, cmd := range r.commands {
		if cmd.adminOnly && !admin {
			continue
		}
		commands = append(commands, tgbotapi.BotCommand{
			Command:     cmd.name,
			Description: cmd.description,
		})
	}
	return commands
}

// SetupBotCommands устанавливает команды для меню бота
func (r *Router) SetupBotCommands() error {
	_, err := r.bot.Request(tgbotapi.NewSetMyCommands(r.botCommands(false)...))
	return err
}

// setupAdminCommands выставляет администратору расширенное меню один раз за процесс
func (r *Router) setupAdminCommands(chatID int64) {
	if _, loaded := r.adminMenus.LoadOrStore(chatID, struct{}{}); loaded {
		return
	}

	scope := tgbotapi.NewBotCommandScopeChat(chatID)
	setCommandsConfig := tgbotapi.SetMyCommandsConfig{
		Commands: r.botCommands(true),
		Scope:    &scope,
	}

	// Игнорируем ошибку, чтобы не блокировать основной поток
	_, _ = r.bot.Request(setCommandsConfig)
}
