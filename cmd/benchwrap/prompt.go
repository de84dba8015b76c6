package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benchwrap/benchwrap/internal/auth"
	"golang.org/x/term"
)

var (
	errNoInput       = errors.New("no input available")
	errEmptyUsername = errors.New("username must not be empty")
)

// console reads operator input. Passwords are read without echo when the
// input is a terminal and as plain lines otherwise.
type console struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func newConsole(in io.Reader, out io.Writer) *console {
	c := &console{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
		c.tty = true
	}
	return c
}

func (c *console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *console) readSecret(prompt string) (string, error) {
	if !c.tty {
		return c.readLine(prompt)
	}

	fmt.Fprint(c.out, prompt)
	secret, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Credentials implements auth.Prompter.
func (c *console) Credentials(ctx context.Context, confirm bool) (*auth.Credentials, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	username, err := c.readLine("Username: ")
	if err != nil {
		return nil, err
	} else if username == "" {
		return nil, errEmptyUsername
	}
	password, err := c.readSecret("Password: ")
	if err != nil {
		return nil, err
	}

	if confirm {
		again, err := c.readSecret("Confirm password: ")
		if err != nil {
			return nil, err
		}
		if again != password {
			return nil, auth.ErrPasswordMismatch
		}
	}

	return &auth.Credentials{Username: username, Password: password}, nil
}

// Confirm asks a yes/no question where an empty answer means yes.
func (c *console) Confirm(question string) (bool, error) {
	answer, err := c.readLine(question + " [Y/n] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

var _ auth.Prompter = (*console)(nil)
