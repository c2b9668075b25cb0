package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reelzone/backend/internal/auth"
)

// runHashPassword prints a .env line carrying the bcrypt hash of the admin password.
// The password comes from args or, when absent, from the first line of in.
func runHashPassword(args []string, in io.Reader, out io.Writer, cost int) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("usage: hash-password <password> (or pipe it on stdin)")
	}

	hash, err := auth.HashSecret(password, cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Single quotes keep godotenv from expanding the $ separators in the hash.
	_, err = fmt.Fprintf(out, "REELZONE_ADMIN_PASSWORD_HASH='%s'\n", hash)
	return err
}
