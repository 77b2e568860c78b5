package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root runs the command loop until EOF or an exit command.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to the notes CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("notes %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: add, (l)ist, show <id>, edit <id>, delete <id>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "add":
			a.addNote(ctx)
		case "l", "list":
			a.list(ctx)
		case "show":
			if len(args) == 0 {
				fmt.Println("Usage: show <id>")
				continue
			}
			a.show(ctx, args[0])
		case "edit":
			if len(args) == 0 {
				fmt.Println("Usage: edit <id>")
				continue
			}
			a.editNote(ctx, args[0])
		case "delete":
			if len(args) == 0 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			a.deleteNote(ctx, args[0])
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
