package pricerslack

import (
	"github.com/slack-go/slack"
)

const priceUsage = "/price <ticker> <model> <strike> <rate%> <volatility%> <YYYY-MM-DD> [steps|simulations]"

type HelpHandler struct{}

func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

func (h *HelpHandler) HandleCommand(data slack.SlashCommand, client poster) error {
	helpText := "Available commands:\n" +
		"/help - Show this help message\n" +
		priceUsage + " - Price a European call and put\n" +
		"Models: bs (Black-Scholes), binomial (CRR tree), mc (Monte Carlo), all"

	_, _, err := client.PostMessage(data.ChannelID,
		slack.MsgOptionText(helpText, false))
	return err
}
