package pricerslack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/optpricer/valuation"
)

// poster is the part of the slack client the command handlers use.
type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Handler struct {
	helpHandler  *HelpHandler
	priceHandler *PriceHandler
}

func NewHandler(svc *valuation.Service, defaults Defaults) *Handler {
	return &Handler{
		helpHandler:  NewHelpHandler(),
		priceHandler: NewPriceHandler(svc, defaults),
	}
}

func (h *Handler) Handle(ctx context.Context, evt *socketmode.Event, client *socketmode.Client) error {
	data, ok := evt.Data.(slack.SlashCommand)
	if !ok {
		return fmt.Errorf("unexpected slash command payload %T", evt.Data)
	}
	client.Ack(*evt.Request)
	return h.dispatch(ctx, data, client)
}

func (h *Handler) dispatch(ctx context.Context, data slack.SlashCommand, client poster) error {
	switch data.Command {
	case "/help":
		return h.helpHandler.HandleCommand(data, client)
	case "/price":
		return h.priceHandler.HandleCommand(ctx, data, client)
	}
	return nil
}
