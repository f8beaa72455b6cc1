package client

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

type Announcer interface {
	Announce(ctx context.Context, message string) error
}

// DiscordAnnouncer posts to a single organizer channel through the REST api only.
type DiscordAnnouncer struct {
	session   *discordgo.Session
	channelId string
}

func NewDiscordAnnouncer(token string, channelId string) (*DiscordAnnouncer, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordAnnouncer{session: session, channelId: channelId}, nil
}

func (d *DiscordAnnouncer) Announce(ctx context.Context, message string) error {
	_, err := d.session.ChannelMessageSend(d.channelId, message, discordgo.WithContext(ctx))
	return err
}
