package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cloudsafe/cloudsafe/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, full name and password and attempts to
// create a new account. The form is validated locally first; a validation
// error is reported without any request leaving the machine. The password
// byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	fullName, err := getSimpleText(a.reader, "Enter full name", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, password, fullName); err != nil {
		if errors.Is(err, common.ErrValidationFailed) {
			fmt.Printf("Invalid input: %s\n", err.Error())
			return err
		}
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success! You can now login.")
	return nil
}

// Login prompts for credentials and authenticates against the backend. On
// success the session (token and account id) is persisted by the auth
// service and the prompt switches to the signed-in form.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userName = email
	log.Printf("Login successful")
	return nil
}

// Logout clears the persisted session. Every protected command after this
// point redirects to the login prompt.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("Logout error: %s", err.Error())
		return err
	}
	a.userName = ""
	a.files = nil
	fmt.Println("Logged out")
	return nil
}
