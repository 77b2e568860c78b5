// Package cli implements the interactive command-line client for the notes
// server: a small REPL around the protocol client.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/ecnotes/internal/client"
	"github.com/dmitrijs2005/ecnotes/internal/client/config"
)

type App struct {
	config   *config.Config
	client   *client.Client
	reader   *bufio.Reader
	userName string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.Dial(c.ServerAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}
