package telegram

import (
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/finance"
	"fundtracker/internal/report"
)

type Bot struct {
	api *tgbotapi.BotAPI
	h   *Handlers
}

func NewBot(token, webhookURL string, svc *report.Service, src finance.PriceSource, allowedChat int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	// set webhook
	webhook, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, err
	}
	if _, err := api.Request(webhook); err != nil {
		return nil, err
	}
	log.Printf("telegram: webhook set to %s", webhookURL)

	return &Bot{api: api, h: NewHandlers(api, svc, src, allowedChat)}, nil
}

// PushReport sends the full report to chatID without a prompting message.
func (b *Bot) PushReport(chatID int64) { b.h.SendReport(chatID) }

// Webhook HTTP handler (registered at /telegram/webhook)
func (b *Bot) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	webhookHandler(b.h)(w, r)
}

func webhookHandler(h *Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		if update.Message != nil && update.Message.Chat != nil {
			log.Printf("webhook: chat_id=%d text=%q", update.Message.Chat.ID, update.Message.Text)
			go h.HandleMessage(update.Message)
		} else {
			log.Debug("webhook: non-message update received")
		}
		w.WriteHeader(http.StatusOK)
	}
}
