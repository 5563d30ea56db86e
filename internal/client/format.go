package client

import (
	"fmt"

	"github.com/HumanoidSandvichDispenser/veloren-inventory-bot/internal/protocol"
)

func (c *Client) displayName(uid Uid, withCharacter bool) string {
	p, ok := c.players[uid]
	if !ok {
		return "<?>"
	}
	if withCharacter && p.Character != "" {
		return fmt.Sprintf("%s (%s)", p.Character, p.PlayerAlias)
	}
	return p.PlayerAlias
}

// FormatMessage renders a chat message as one transcript line.
func (c *Client) FormatMessage(msg protocol.ChatMsg, withCharacter bool) string {
	switch msg.ChatType {
	case protocol.ChatTell:
		return fmt.Sprintf("[Tell] [%s -> %s]: %s", c.displayName(msg.From, withCharacter), c.displayName(msg.To, withCharacter), msg.Message)
	case protocol.ChatWorld:
		return fmt.Sprintf("[World] [%s]: %s", c.displayName(msg.From, withCharacter), msg.Message)
	case protocol.ChatGroup:
		return fmt.Sprintf("[Group] [%s]: %s", c.displayName(msg.From, withCharacter), msg.Message)
	case protocol.ChatSay:
		return fmt.Sprintf("[Say] [%s]: %s", c.displayName(msg.From, withCharacter), msg.Message)
	case protocol.ChatCommandError:
		return "[Error] " + msg.Message
	default:
		return msg.Message
	}
}
