package reporter

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-autoapply-engine/internal/config"
	"go-autoapply-engine/internal/models"
)

var statusEmoji = map[models.RunStatus]string{
	models.StatusCompleted: "✅",
	models.StatusFailed:    "❌",
	models.StatusCaptcha:   "🤖",
	models.StatusManual:    "✋",
}

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(cfg *config.Config) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.TelegramChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "HTML" //use HTML for bold/italic
	_, err := t.bot.Send(msg)
	return err
}

// SendRunSummary posts the outcome of one finished run.
func (t *TelegramReporter) SendRunSummary(session *models.AutoApplySession) error {
	emoji := statusEmoji[session.Status]
	if emoji == "" {
		emoji = "ℹ️"
	}

	text := fmt.Sprintf(
		"%s <b>%s</b> at %s\n"+
			"📋 Status: %s\n"+
			"🏷 ATS: %s\n"+
			"✏️ Fields: %d/%d filled\n"+
			"❓ Questions answered: %d\n"+
			"🔗 <a href=\"%s\">Job posting</a>",
		emoji,
		session.JobTitle,
		session.CompanyName,
		session.Status,
		session.ATSType,
		session.FieldsFilled,
		session.FieldsTotal,
		len(session.CustomQuestions),
		session.JobURL,
	)
	if session.Error != "" {
		text += fmt.Sprintf("\n⚠️ %s", session.Error)
	}
	return t.SendMessage(text)
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>AutoApply Error</b>:\n%v", errReq)
	return t.SendMessage(text)
}
