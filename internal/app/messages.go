package app

import (
	"fmt"

	"notionbot/internal/textutil"
)

const (
	msgAccessDenied    = "Вы не имеете доступа к постановке задач"
	msgUnsupported     = "Сообщение может быть только текстовым или аудио!"
	msgNoTranscription = "Расшифровка аудио не настроена: не задан GROQ_TOKEN."
	msgProcessing      = "Аудио получено, расшифровываю…"
	msgWelcome         = "Добро пожаловать в бот для задач. Пишите свою задачу!\nВаш Telegram id - %d"
)

func welcomeMessage(senderID int64) string {
	return fmt.Sprintf(msgWelcome, senderID)
}

// confirmationMessage links the task title to its page. title and link are
// raw; they are escaped here.
func confirmationMessage(title, link string) string {
	return fmt.Sprintf(`Новая задача - <a href="%s">%s</a>`,
		textutil.EscapeHTML(link), textutil.EscapeHTML(title))
}

func ownerMessage(confirmation, username string) string {
	return confirmation + "\nАвтор: @" + textutil.EscapeHTML(username)
}
