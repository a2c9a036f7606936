package bot

import "github.com/bwmarrin/discordgo"

// Embed colors shared by all commands.
const (
	colorSuccess = 0x00c853
	colorWarning = 0xffab00
	colorError   = 0xd50000
	colorInfo    = 0x2962ff
)

func successEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorSuccess,
	}
}

func infoEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       colorInfo,
	}
}

func errorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: description,
		Color:       colorError,
	}
}
