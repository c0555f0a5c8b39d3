package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fundtracker/internal/date"
	"fundtracker/internal/finance"
	"fundtracker/internal/fund"
	"fundtracker/internal/report"
)

var (
	reHelp    = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
	reCommand = regexp.MustCompile(`^/(report|chart|metrics|summary|csv|review)(?:@[\w_]+)?$`)
)

// Sender is the part of tgbotapi.BotAPI the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api         Sender
	svc         *report.Service
	src         finance.PriceSource
	allowedChat int64
	today       func() date.Date
}

// NewHandlers answers commands about svc; /compare fetches from src.
// A non-zero allowedChat ignores every other chat.
func NewHandlers(api Sender, svc *report.Service, src finance.PriceSource, allowedChat int64) *Handlers {
	return &Handlers{api: api, svc: svc, src: src, allowedChat: allowedChat, today: date.Today}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	if m == nil || m.Chat == nil {
		return
	}
	if h.allowedChat != 0 && m.Chat.ID != h.allowedChat {
		log.WithField("chat_id", m.Chat.ID).Warn("telegram: ignoring message from other chat")
		return
	}
	txt := strings.TrimSpace(m.Text)
	switch {
	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)

	case reTrade.MatchString(txt):
		h.handleTrade(m.Chat.ID, txt)

	case reCompare.MatchString(txt):
		h.handleCompare(m.Chat.ID, txt)

	case reCommand.MatchString(txt):
		switch reCommand.FindStringSubmatch(txt)[1] {
		case "report":
			h.SendReport(m.Chat.ID)
		case "chart":
			h.sendChart(m.Chat.ID)
		case "metrics":
			h.sendMarkdown(m.Chat.ID, h.svc.MetricsMarkdown())
		case "summary":
			h.sendMarkdown(m.Chat.ID, h.svc.SummaryMarkdown())
		case "csv":
			h.sendCSV(m.Chat.ID)
		case "review":
			h.handleReview(m.Chat.ID)
		}
	}
}

// SendReport sends the chart followed by the summary and metrics tables.
func (h *Handlers) SendReport(chatID int64) {
	h.sendChart(chatID)
	h.sendMarkdown(chatID, h.svc.SummaryMarkdown()+"\n"+h.svc.MetricsMarkdown())
}

func (h *Handlers) sendChart(chatID int64) {
	img, err := h.svc.Chart()
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "fund.png", Bytes: img})
	photo.Caption = fmt.Sprintf("Fund vs benchmark • rev %d", h.svc.Revision())
	h.send(photo)
}

func (h *Handlers) sendCSV(chatID int64) {
	val, err := h.svc.ValuationCSV()
	if err != nil {
		h.reply(chatID, "Export failed: "+err.Error())
		return
	}
	met, err := h.svc.MetricsCSV()
	if err != nil {
		h.reply(chatID, "Export failed: "+err.Error())
		return
	}
	h.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "valuation.csv", Bytes: val}))
	h.send(tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "metrics.csv", Bytes: met}))
}

func (h *Handlers) handleTrade(chatID int64, txt string) {
	t, err := ParseTrade(txt, h.today())
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	if t.Action == fund.ActionBuy {
		err = h.svc.Buy(ctx, t.Ticker, t.Date, t.Qty, t.Price)
	} else {
		err = h.svc.Sell(t.Ticker, t.Date, t.Qty, t.Price)
	}
	if err != nil {
		h.reply(chatID, fmt.Sprintf("Trade rejected (%s): %s", tradeReason(err), err))
		return
	}
	log.WithFields(log.Fields{"trade": t.String(), "chat_id": chatID}).Info("telegram: trade applied")
	h.reply(chatID, fmt.Sprintf("Done: %s. Fund is at revision %d.", t, h.svc.Revision()))
}

func (h *Handlers) handleCompare(chatID int64, txt string) {
	tickers, from, err := ParseCompare(txt, h.today())
	if err != nil {
		h.reply(chatID, err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	ix, err := finance.IndexTickers(ctx, h.src, tickers, from, h.today())
	if err != nil {
		h.reply(chatID, "Compare failed: "+err.Error())
		return
	}
	img, err := finance.RenderIndexedChart(ix)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "compare.png", Bytes: img})
	photo.Caption = fmt.Sprintf("%s • base 100 on %s", strings.Join(tickers, " vs "), ix.Dates[0])
	h.send(photo)
}

func tradeReason(err error) string {
	switch {
	case errors.Is(err, fund.ErrUnknownTicker):
		return "not held"
	case errors.Is(err, fund.ErrInvalidQuantity):
		return "quantity"
	case errors.Is(err, fund.ErrOutOfRange):
		return "date"
	case errors.Is(err, fund.ErrDataUnavailable):
		return "no prices"
	}
	return "error"
}

func (h *Handlers) handleReview(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()
	out, err := h.svc.Review(ctx)
	if err != nil {
		h.reply(chatID, "Review failed: "+err.Error())
		return
	}
	msg := tgbotapi.NewMessage(chatID, out)
	msg.ParseMode = "Markdown"
	h.send(msg)
}

// sendMarkdown sends a rendered table as a preformatted block.
func (h *Handlers) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "```\n"+strings.TrimSpace(text)+"\n```")
	msg.ParseMode = "Markdown"
	h.send(msg)
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /report - Chart, summary and metrics\n" +
		"- /chart - Fund vs benchmark, both rebased to 100\n" +
		"- /metrics - Alpha, beta, Sharpe ratio and share per holding\n" +
		"- /summary - Returns, volatility and drawdown\n" +
		"- /csv - Valuation and metrics tables as CSV\n" +
		"- /buy TICKER QTY PRICE [YYYY-MM-DD] - Record a purchase (default date: today)\n" +
		"- /sell TICKER QTY PRICE [YYYY-MM-DD] - Record a sale\n" +
		"- /review - AI commentary on the current metrics\n" +
		"- /compare SPY QQQ [1mo|3mo|6mo|1y|2y|5y|YYYY-MM-DD] - Tickers rebased to 100\n" +
		"\nPrices are Yahoo daily adjusted closes."
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	h.send(tgbotapi.NewMessage(chatID, text))
}

func (h *Handlers) send(c tgbotapi.Chattable) {
	if _, err := h.api.Send(c); err != nil {
		log.WithError(err).Warn("telegram: send failed")
	}
}
