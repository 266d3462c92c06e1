package pricerslack

import (
	"context"
	stdlog "log"

	log "github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/bcdannyboy/optpricer/valuation"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
}

func NewSlackBot(appToken, botToken string, svc *valuation.Service, defaults Defaults, debug bool) *SlackBot {
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(debug),
		socketmode.OptionLog(stdlog.New(log.StandardLogger().Writer(), "socketmode: ", stdlog.Lshortfile)),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(svc, defaults),
	}
}

// Start serves slash commands until ctx is cancelled.
func (sb *SlackBot) Start(ctx context.Context) error {
	go func() {
		for evt := range sb.socketClient.Events {
			switch evt.Type {
			case socketmode.EventTypeConnecting:
				log.Info("connecting to slack")
			case socketmode.EventTypeConnected:
				log.Info("connected to slack")
			case socketmode.EventTypeSlashCommand:
				if err := sb.eventHandler.Handle(ctx, &evt, sb.socketClient); err != nil {
					log.WithError(err).Error("slash command failed")
				}
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
