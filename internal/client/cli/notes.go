package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

func (a *App) addNote(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}

	content, err := GetMultiline(a.reader, "Enter note text", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.NoteCreate(title, []byte(content)); err != nil {
		fmt.Println("Create failed:", err)
		return err
	}

	fmt.Println("Note saved.")
	return nil
}

func (a *App) list(ctx context.Context) error {
	entries, err := a.client.NoteList()
	if err != nil {
		fmt.Println("List failed:", err)
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No notes yet.")
		return nil
	}

	for _, e := range entries {
		updated := time.Unix(e.UpdatedAt, 0).Format("2006-01-02 15:04")
		fmt.Printf("%6d  %-30s  %s\n", e.ID, e.Title, updated)
	}
	return nil
}

func (a *App) show(ctx context.Context, arg string) error {
	id, err := parseNoteID(arg)
	if err != nil {
		fmt.Println(err)
		return err
	}

	title, content, err := a.client.NoteGet(id)
	if err != nil {
		fmt.Println("Get failed:", err)
		return err
	}

	fmt.Printf("--- %s ---\n%s\n", title, content)
	return nil
}

func (a *App) editNote(ctx context.Context, arg string) error {
	id, err := parseNoteID(arg)
	if err != nil {
		fmt.Println(err)
		return err
	}

	content, err := GetMultiline(a.reader, "Enter new note text", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.NoteUpdate(id, []byte(content)); err != nil {
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Println("Note updated.")
	return nil
}

func (a *App) deleteNote(ctx context.Context, arg string) error {
	id, err := parseNoteID(arg)
	if err != nil {
		fmt.Println(err)
		return err
	}

	if err := a.client.NoteDelete(id); err != nil {
		fmt.Println("Delete failed:", err)
		return err
	}

	fmt.Println("Note deleted.")
	return nil
}

func parseNoteID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return uint32(id), nil
}
