package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ecnotes/internal/common"
)

// Register prompts for a username and password and creates an account.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(username, string(password)); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Println("Registered. You can now log in.")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(username, string(password)); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	a.userName = username
	fmt.Println("Logged in.")
	return nil
}

// Logout closes the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	a.userName = ""
	fmt.Println("Logged out.")
	return nil
}
