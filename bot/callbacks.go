package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/m3rciful/leadrelay/core/telegram/helpers"
)

const (
	cbGetUpdates = "get_updates"
	cbLearnMore  = "learn_more"

	getUpdatesText = "You'll receive updates about new courses and enrollment opportunities."
)

func getUpdatesHandler(c tele.Context) error {
	return tghelpers.EditOrSendMD(c, getUpdatesText)
}

func learnMoreHandler(websiteURL string) tele.HandlerFunc {
	return func(c tele.Context) error {
		text := fmt.Sprintf("Visit [our website](%s) to learn more about our English courses.", websiteURL)
		return tghelpers.EditOrSendMD(c, text)
	}
}
