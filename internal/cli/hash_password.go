package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/academy/pkg"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newHashPasswordCmd(opts *rootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash of a password, for seeding accounts",
		Long: `Prints the bcrypt hash to store in players.password_hash or admins.password_hash.
With no argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
				return fmt.Errorf("cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
			}

			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			if password == "" {
				return errors.New("empty password")
			}

			hash, err := pkg.HashPasswordWithCost(password, cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			return NewOutput(cmd.OutOrStdout(), opts.output).Print(hashResult{Hash: hash, Cost: cost})
		},
	}

	cmd.Flags().IntVar(&cost, "cost", pkg.DefaultPasswordHashCost, "bcrypt cost")

	return cmd
}

// readLine reads one line, without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
