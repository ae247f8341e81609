package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/example/souqly/internal/models"
)

// TelegramService sends back-office notifications to a Telegram chat.
type TelegramService struct {
	baseURL     string
	botToken    string
	adminChatID string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService. An empty token or chat
// turns every call into a no-op.
func NewTelegramService(baseURL, botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		baseURL:     strings.TrimRight(baseURL, "/"),
		botToken:    botToken,
		adminChatID: adminChatID,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Enabled reports whether both the bot token and admin chat are configured.
func (s *TelegramService) Enabled() bool {
	return s != nil && s.botToken != "" && s.adminChatID != ""
}

// SendToAdmin posts an HTML message to the admin chat.
func (s *TelegramService) SendToAdmin(ctx context.Context, text string) error {
	if !s.Enabled() {
		log.Debug().Msg("telegram: not configured, skipping message")
		return nil
	}

	body, err := json.Marshal(telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatPrice renders an amount with thousand separators and currency.
func FormatPrice(amount decimal.Decimal, currency string) string {
	str := amount.StringFixed(2)
	intPart, frac, _ := strings.Cut(str, ".")

	negative := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

// NotifyNewOrder tells the admin chat about a freshly placed order.
func (s *TelegramService) NotifyNewOrder(ctx context.Context, order *models.Order) error {
	if !s.Enabled() {
		return nil
	}

	var items strings.Builder
	for i, item := range order.Items {
		fmt.Fprintf(&items, "%d. <b>%s</b>\n   %d x %s = %s\n",
			i+1,
			html.EscapeString(item.ProductName),
			item.Quantity,
			FormatPrice(item.Price, order.Currency),
			FormatPrice(item.LineTotal(), order.Currency),
		)
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>Order:</b> %s
<b>Customer:</b> %s
<b>Phone:</b> %s
<b>City:</b> %s
<b>Items:</b>
%s
<b>Total:</b> %s
<b>Payment:</b> %s (%s)`,
		order.OrderNumber,
		html.EscapeString(order.ShippingAddress.Name),
		html.EscapeString(order.ShippingAddress.Phone),
		html.EscapeString(order.ShippingAddress.City),
		items.String(),
		FormatPrice(order.Total, order.Currency),
		order.PaymentMethod,
		order.PaymentStatus,
	)

	return s.SendToAdmin(ctx, strings.TrimSpace(message))
}

// NotifyStatusChange tells the admin chat that an order moved to a new status.
func (s *TelegramService) NotifyStatusChange(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	if !s.Enabled() {
		return nil
	}

	message := fmt.Sprintf(`<b>📦 ORDER STATUS</b>
<b>Order:</b> %s
<b>Status:</b> %s → %s`,
		order.OrderNumber, from, order.Status)

	if n := len(order.StatusHistory); n > 0 && order.StatusHistory[n-1].Note != "" {
		message += "\n<b>Note:</b> " + html.EscapeString(order.StatusHistory[n-1].Note)
	}

	return s.SendToAdmin(ctx, message)
}
