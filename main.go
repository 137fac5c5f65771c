package main

import (
	"fmt"
	"os"
	"strings"

	"postboard/service"
)

const CliVersion = "1.0.0"

var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args to the matching command.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("postboard version %s\n", CliVersion)
	default:
		exit(service.HandleCommand(append([]string{cmd}, os.Args[2:]...)))
	}
}

func printHelp() {
	helpText := `Usage: postboard <command> [options]
  help                    Display this help message.
  version                 Show version information.

Configuration is read from the environment and from a .env file in the
working directory (ENV, ADDR, STORE_DRIVER, BADGER_PATH, DATABASE_URL,
JWT_SECRET, LOG_LEVEL, LOG_FORMAT, ...).
`
	fmt.Println(helpText)
	service.HandleCommand([]string{"help"})
}
