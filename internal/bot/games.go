package bot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bwmarrin/discordgo"
)

type coinSide int

const (
	sideNone coinSide = iota - 1
	sideTails
	sideHeads
)

// coinflipEmbed flips a coin. When the caller bet on a side the embed also
// says whether they won.
func coinflipEmbed(side coinSide) *discordgo.MessageEmbed {
	flip := coinSide(rand.IntN(2))

	embed := &discordgo.MessageEmbed{Color: colorWarning}
	if flip == sideHeads {
		embed.Title = ":coin: Heads!"
	} else {
		embed.Title = ":coin: Tails!"
	}

	if side != sideNone {
		if flip == side {
			embed.Description = "You've won! :tada:"
		} else {
			embed.Description = "You've lost..."
		}
	}

	return embed
}

// diceRollEmbed rolls amount dice with the given number of faces.
func diceRollEmbed(amount, faces int) *discordgo.MessageEmbed {
	dice := make([]int, amount)
	total := 0
	for i := range dice {
		dice[i] = rand.IntN(faces) + 1
		total += dice[i]
	}

	embed := &discordgo.MessageEmbed{Color: colorError}
	if amount == 1 {
		embed.Title = fmt.Sprintf(":game_die: 1d%d", faces)
		embed.Description = fmt.Sprintf("You rolled a %d.", dice[0])
		return embed
	}

	rolls := make([]string, amount)
	for i, d := range dice {
		rolls[i] = fmt.Sprintf("%d", d)
	}
	embed.Title = fmt.Sprintf("%dd%d :game_die:", amount, faces)
	embed.Description = fmt.Sprintf("You rolled: %s\nTotal: %d", strings.Join(rolls, " + "), total)
	return embed
}
