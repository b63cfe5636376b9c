package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/shloka/internal/auth"
)

// HashPasswordCommand prints a bcrypt hash for ADMIN_PASSWORD_HASH
type HashPasswordCommand struct {
	Cost int

	in  io.Reader
	out io.Writer
}

func NewHashPasswordCommand() *HashPasswordCommand {
	return &HashPasswordCommand{in: os.Stdin, out: os.Stdout}
}

func (cmd *HashPasswordCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.IntVar(&cmd.Cost, "cost", auth.DefaultBcryptCost, "bcrypt cost factor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: echo -n <password> | %s hash-password [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reads the admin password from stdin and prints its bcrypt hash.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Cost < 4 || cmd.Cost > 31 {
		return fmt.Errorf("cost must be between 4 and 31")
	}
	return nil
}

func (cmd *HashPasswordCommand) Run() error {
	line, err := bufio.NewReader(cmd.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	hash, err := auth.HashPassword(password, cmd.Cost)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.out, hash)
	return nil
}
