package bot

import (
	"context"
	"fmt"

	"selectshop/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier envia para o chat configurado os alertas de preço alvo atingido
type Notifier struct {
	api    Sender
	chatID int64
}

func NewNotifier(api Sender, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

// PriceReached avisa que o menor preço do produto chegou ao preço alvo
func (n *Notifier) PriceReached(ctx context.Context, product models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, priceReachedText(product))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("enviar alerta do produto %d: %w", product.ID, err)
	}
	return nil
}

func priceReachedText(p models.Product) string {
	return fmt.Sprintf(
		"🎉 <b>PREÇO ALVO ATINGIDO!</b>\n\n"+
			"📦 %s\n"+
			"💰 Menor preço: <b>%s</b>\n"+
			"🎯 Preço alvo: %s\n"+
			"🔗 %s",
		escapeHTML(p.Title),
		formatWon(p.LowestPrice),
		formatWon(p.TargetPrice),
		escapeHTML(p.Link),
	)
}
