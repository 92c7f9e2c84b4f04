package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var (
	// ErrEmptyPassword rejects an empty password. An empty password still
	// produces a valid key, which is why the check lives here.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordMismatch indicates the confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrNoTerminal indicates a prompt was needed but stdin is not a terminal.
	ErrNoTerminal = errors.New("stdin is not a terminal; use --password-env")
)

// Prompter reads one secret after printing prompt.
type Prompter func(prompt string) (string, error)

// TerminalPrompter reads secrets from the terminal on fd without echo,
// writing prompts to out.
func TerminalPrompter(fd int, out io.Writer) Prompter {
	return func(prompt string) (string, error) {
		if !term.IsTerminal(fd) {
			return "", ErrNoTerminal
		}
		fmt.Fprint(out, prompt)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}
}

// ReadPassword returns the password for this run. With PasswordEnv set it is
// taken from that environment variable; otherwise prompt is asked, twice when
// confirm is set.
func (c *Config) ReadPassword(prompt Prompter, confirm bool) (string, error) {
	if c.PasswordEnv != "" {
		password, ok := os.LookupEnv(c.PasswordEnv)
		if !ok {
			return "", fmt.Errorf("%w: environment variable %s is not set", ErrEmptyPassword, c.PasswordEnv)
		}
		if password == "" {
			return "", ErrEmptyPassword
		}
		logrus.WithFields(logrus.Fields{
			"function": "ReadPassword",
			"env":      c.PasswordEnv,
		}).Debug("Password taken from environment")
		return password, nil
	}

	password, err := prompt("Password: ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", ErrEmptyPassword
	}

	if confirm {
		again, err := prompt("Confirm password: ")
		if err != nil {
			return "", err
		}
		if again != password {
			return "", ErrPasswordMismatch
		}
	}
	return password, nil
}
