package discord

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/hollyoak/warden/internal/delivery"
)

// Channel posts snapshot exports to a Discord channel with the export
// attached as a JSON file. Only the REST API is used; no gateway
// connection is opened.
type Channel struct {
	session   *discordgo.Session
	channelID string
	logger    *slog.Logger
}

// Ensure Channel implements the delivery interface
var _ delivery.Channel = (*Channel)(nil)

// New creates a Discord delivery channel from a bot token and target
// channel ID
func New(token, channelID string, logger *slog.Logger) (*Channel, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return &Channel{
		session:   session,
		channelID: channelID,
		logger:    logger,
	}, nil
}

// Send posts the message with the payload attached
func (c *Channel) Send(ctx context.Context, message, filename string, payload []byte) error {
	_, err := c.session.ChannelMessageSendComplex(c.channelID, &discordgo.MessageSend{
		Content: message,
		Files: []*discordgo.File{
			{
				Name:        filename,
				ContentType: "application/json",
				Reader:      bytes.NewReader(payload),
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send to channel %s: %w", c.channelID, err)
	}

	c.logger.Info("snapshot delivered",
		slog.String("channel_id", c.channelID),
		slog.String("filename", filename),
		slog.Int("bytes", len(payload)),
	)
	return nil
}
