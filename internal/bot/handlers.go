package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"selectshop/internal/models"
	"selectshop/internal/monitor"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `🤖 <b>Monitor de preços</b>

<b>Comandos disponíveis:</b>

<b>/list</b> - Listar todos os produtos monitorados

<b>/check &lt;id&gt;</b> - Buscar agora o menor preço de um produto
Exemplo: /check 1

<b>/sync</b> - Rodar a sincronização de todos os produtos agora

<b>/help</b> - Mostrar esta mensagem de ajuda
`

// ProductReader é a parte do catálogo usada pelos comandos
type ProductReader interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, productID int64) (*models.Product, error)
}

// Syncer é a parte do monitor usada pelos comandos
type Syncer interface {
	RunOnce(ctx context.Context) (*monitor.RunReport, error)
	CheckProduct(ctx context.Context, product models.Product) (*models.Product, error)
}

// Commands atende os comandos de operação enviados pelo chat autorizado
type Commands struct {
	api      Sender
	chatID   int64
	products ProductReader
	syncer   Syncer
	logger   *slog.Logger

	wg sync.WaitGroup
}

func NewCommands(api Sender, chatID int64, products ProductReader, syncer Syncer, logger *slog.Logger) *Commands {
	return &Commands{
		api:      api,
		chatID:   chatID,
		products: products,
		syncer:   syncer,
		logger:   logger,
	}
}

// Run consome as atualizações até ctx ser cancelado ou o canal fechar
func (c *Commands) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	defer c.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				c.Handle(ctx, update.Message)
			}
		}
	}
}

// Handle trata uma mensagem recebida
func (c *Commands) Handle(ctx context.Context, message *tgbotapi.Message) {
	command, args := parseCommand(message.Text)
	if command == "" {
		return
	}

	chatID := message.Chat.ID

	// Comandos públicos (não precisam de autorização)
	isPublicCommand := command == "/start" || command == "/help"
	if !isPublicCommand && chatID != c.chatID {
		c.reply(chatID, "Você não está autorizado a usar este bot.")
		return
	}

	switch command {
	case "/start", "/help":
		c.reply(chatID, helpText)
	case "/list":
		c.handleList(ctx, chatID)
	case "/check":
		c.handleCheck(ctx, chatID, args)
	case "/sync":
		c.handleSync(ctx, chatID)
	default:
		c.reply(chatID, "Comando não reconhecido. Use /help para ver os comandos disponíveis.")
	}
}

func (c *Commands) handleList(ctx context.Context, chatID int64) {
	products, err := c.products.ListAll(ctx)
	if err != nil {
		c.logger.Error("erro ao listar produtos", "error", err)
		c.reply(chatID, "❌ Erro ao listar produtos.")
		return
	}
	if len(products) == 0 {
		c.reply(chatID, "📭 Nenhum produto monitorado.")
		return
	}
	c.reply(chatID, formatProductList(products))
}

func (c *Commands) handleCheck(ctx context.Context, chatID int64, args []string) {
	if len(args) != 1 {
		c.reply(chatID, "❌ Formato incorreto.\n\nUso: /check &lt;id&gt;")
		return
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		c.reply(chatID, "❌ ID inválido.")
		return
	}

	product, err := c.products.Get(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		c.reply(chatID, fmt.Sprintf("❌ Produto %d não encontrado.", id))
		return
	}
	if err != nil {
		c.logger.Error("erro ao buscar produto", "product_id", id, "error", err)
		c.reply(chatID, "❌ Erro ao buscar produto.")
		return
	}

	updated, err := c.syncer.CheckProduct(ctx, *product)
	if err != nil {
		c.logger.Warn("erro ao verificar preço", "product_id", id, "error", err)
		c.reply(chatID, fmt.Sprintf("❌ Erro ao verificar preço: %s", escapeHTML(err.Error())))
		return
	}
	if updated == nil {
		c.reply(chatID, fmt.Sprintf("🔍 A busca por <b>%s</b> não trouxe resultados.", escapeHTML(product.Title)))
		return
	}

	c.reply(chatID, fmt.Sprintf("✅ <b>%s</b>\n💰 Menor preço: <b>%s</b>",
		escapeHTML(updated.Title), formatWon(updated.LowestPrice)))
}

func (c *Commands) handleSync(ctx context.Context, chatID int64) {
	c.reply(chatID, "⏳ Sincronização iniciada...")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		report, err := c.syncer.RunOnce(ctx)
		if errors.Is(err, monitor.ErrRunInProgress) {
			c.reply(chatID, "⏳ Já existe uma sincronização em andamento.")
			return
		}
		if err != nil {
			c.logger.Error("erro na sincronização manual", "error", err)
			c.reply(chatID, "❌ Erro na sincronização.")
			return
		}
		c.reply(chatID, formatReport(report))
	}()
}

func (c *Commands) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := c.api.Send(msg); err != nil {
		c.logger.Warn("erro ao enviar mensagem", "chat_id", chatID, "error", err)
		// Tentar sem formatação se houver erro
		msg.ParseMode = ""
		if _, err := c.api.Send(msg); err != nil {
			c.logger.Error("erro ao enviar mensagem sem formatação", "chat_id", chatID, "error", err)
		}
	}
}

// parseCommand separa o comando (sem @nomedobot) dos argumentos
func parseCommand(text string) (string, []string) {
	parts := strings.Fields(text)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return "", nil
	}

	command := strings.ToLower(parts[0])
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}
	return command, parts[1:]
}

func formatProductList(products []models.Product) string {
	var response strings.Builder
	response.WriteString(fmt.Sprintf("📋 <b>Produtos monitorados (%d)</b>\n\n", len(products)))

	for _, p := range products {
		response.WriteString(fmt.Sprintf("🆔 <b>ID: %d</b>\n", p.ID))
		response.WriteString(fmt.Sprintf("📦 %s\n", escapeHTML(p.Title)))
		response.WriteString(fmt.Sprintf("💰 Menor preço: %s\n", formatWon(p.LowestPrice)))

		switch {
		case p.TargetPrice == 0:
			response.WriteString("🎯 Sem preço alvo\n")
		case p.ReachedTarget():
			response.WriteString(fmt.Sprintf("🎯 Preço alvo: %s ✅ <b>META ATINGIDA!</b>\n", formatWon(p.TargetPrice)))
		default:
			response.WriteString(fmt.Sprintf("🎯 Preço alvo: %s (faltam %s)\n",
				formatWon(p.TargetPrice), formatWon(p.LowestPrice-p.TargetPrice)))
		}

		if !p.ModifiedAt.IsZero() {
			response.WriteString(fmt.Sprintf("🕐 Última atualização: %s\n", p.ModifiedAt.Format("02/01/2006 15:04")))
		}
		response.WriteString("\n")
	}
	return response.String()
}

func formatReport(r *monitor.RunReport) string {
	return fmt.Sprintf(
		"✅ <b>Sincronização concluída</b>\n\n"+
			"Produtos: %d\n"+
			"Atualizados: %d\n"+
			"Sem resultado: %d\n"+
			"Com erro: %d\n"+
			"Duração: %s",
		r.Total, r.Updated, r.Skipped, r.Failed, r.Duration.Round(time.Millisecond),
	)
}
