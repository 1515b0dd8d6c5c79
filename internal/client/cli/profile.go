package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) Profile(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	p, err := a.profileService.Fetch(ctx, sess)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Name:  %s\n", p.FullName)
	fmt.Printf("Email: %s\n", p.Email)
	fmt.Printf("Role:  %s\n", p.Role)
	return nil
}

// SetName prompts for a new display name and updates the account profile.
func (a *App) SetName(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter new full name", os.Stdout)
	if err != nil {
		return err
	}

	p, err := a.profileService.Update(ctx, sess, name)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Profile updated. Name: %s\n", p.FullName)
	return nil
}
