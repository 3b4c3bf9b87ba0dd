package xtream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PromptCredentials asks for whatever part of the login is missing.
// The password is read without echo when stdin is a terminal.
func PromptCredentials(in io.Reader, out io.Writer, username, password string) (string, string, error) {
	reader := bufio.NewReader(in)

	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	if password == "" {
		fmt.Fprint(out, "Password: ")
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			pw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return "", "", fmt.Errorf("failed to read password: %w", err)
			}
			password = string(pw)
		} else {
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return "", "", fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}
	}

	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required")
	}
	return username, password, nil
}
