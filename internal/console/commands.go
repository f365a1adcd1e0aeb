package console

import (
	"sort"
	"strings"

	"github.com/chzyer/readline"
)

type Command struct {
	Name        string
	Description string
	Usage       string
	Example     string
}

var commands = map[string]Command{
	"FROM": {
		Name:        "FROM",
		Description: "Set the sender mailbox",
		Usage:       "FROM <mailbox>",
		Example:     "FROM Jane Doe <jane@example.com>",
	},
	"HOST": {
		Name:        "HOST",
		Description: "Set the SMTP relay host",
		Usage:       "HOST <host>",
		Example:     "HOST smtp.example.com",
	},
	"PORT": {
		Name:        "PORT",
		Description: "Set the SMTP relay port",
		Usage:       "PORT <1-65535>",
		Example:     "PORT 587",
	},
	"USER": {
		Name:        "USER",
		Description: "Set the SMTP username, empty disables authentication",
		Usage:       "USER [username]",
		Example:     "USER jane",
	},
	"PASS": {
		Name:        "PASS",
		Description: "Set the SMTP password, prompts when no argument is given",
		Usage:       "PASS [password]",
		Example:     "PASS",
	},
	"TLS": {
		Name:        "TLS",
		Description: "Set the TLS policy",
		Usage:       "TLS <mandatory|opportunistic|none>",
		Example:     "TLS mandatory",
	},
	"TO": {
		Name:        "TO",
		Description: "Set the recipient mailbox",
		Usage:       "TO <mailbox>",
		Example:     "TO john@example.com",
	},
	"SUBJECT": {
		Name:        "SUBJECT",
		Description: "Set the message subject",
		Usage:       "SUBJECT <text>",
		Example:     "SUBJECT Lunch tomorrow?",
	},
	"BODY": {
		Name:        "BODY",
		Description: `Set the message body, \n starts a new line`,
		Usage:       "BODY <text>",
		Example:     `BODY Hi John,\n\nnoon works for me.`,
	},
	"SHOW": {
		Name:        "SHOW",
		Description: "Show the current settings and draft",
		Usage:       "SHOW",
		Example:     "SHOW",
	},
	"SEND": {
		Name:        "SEND",
		Description: "Send the draft in the background, the result shows at the next prompt or on WAIT",
		Usage:       "SEND",
		Example:     "SEND",
	},
	"STATUS": {
		Name:        "STATUS",
		Description: "Show the state of the last send",
		Usage:       "STATUS",
		Example:     "STATUS",
	},
	"WAIT": {
		Name:        "WAIT",
		Description: "Wait for the running send to finish",
		Usage:       "WAIT",
		Example:     "WAIT",
	},
	"SAVE": {
		Name:        "SAVE",
		Description: "Save the SMTP settings to a config file",
		Usage:       "SAVE [path]",
		Example:     "SAVE config.yaml",
	},
	"HELP": {
		Name:        "HELP",
		Description: "Show available commands",
		Usage:       "HELP [command]",
		Example:     "HELP SEND",
	},
	"EXIT": {
		Name:        "EXIT",
		Description: "Exit the client",
		Usage:       "EXIT",
		Example:     "EXIT",
	},
	"QUIT": {
		Name:        "QUIT",
		Description: "Exit the client",
		Usage:       "QUIT",
		Example:     "QUIT",
	},
}

func sortedCommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func createCompleterItems() []readline.PrefixCompleterInterface {
	var items []readline.PrefixCompleterInterface
	for _, name := range sortedCommandNames() {
		if name == "TLS" {
			items = append(items, readline.PcItem(name,
				readline.PcItem("mandatory"),
				readline.PcItem("opportunistic"),
				readline.PcItem("none"),
			))
			continue
		}
		items = append(items, readline.PcItem(name))
	}
	return items
}

func (c *Console) handleHelp(args []string) {
	if len(args) == 0 {
		c.println("Available commands:")
		c.println()
		for _, name := range sortedCommandNames() {
			cmd := commands[name]
			c.printf("  %-8s %s\n", cmd.Name, cmd.Description)
		}
		c.println()
		c.println("Use 'HELP <command>' for detailed information about a specific command")
		return
	}

	cmdName := strings.ToUpper(args[0])
	if cmd, exists := commands[cmdName]; exists {
		c.printf("Command: %s\n", cmd.Name)
		c.printf("Description: %s\n", cmd.Description)
		c.printf("Usage: %s\n", cmd.Usage)
		c.printf("Example: %s\n", cmd.Example)
	} else {
		c.printf("Unknown command: %s\n", cmdName)
		c.println("Type 'HELP' to see all available commands")
	}
}

func (c *Console) printUsage(name string) {
	c.printf("Usage: %s\n", commands[name].Usage)
}
