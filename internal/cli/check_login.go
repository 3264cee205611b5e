package cli

import (
	"fmt"
	"time"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/auth"

	"github.com/spf13/cobra"
)

func newCheckLoginCmd(opts *rootOptions) *cobra.Command {
	var (
		role          string
		email         string
		password      string
		lookupTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check-login",
		Short: "Verify credentials against the account store, without creating a session",
		Long: `Runs the same verification a login page runs: lookup, password check and,
for players, the approval gate. Failures are reported with the detailed message.
With no --password the password is read from the first line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedRole, err := account.ParseRole(role)
			if err != nil {
				return err
			}

			if password == "" {
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			dbURL, err := opts.resolveDBURL()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			finder, closeFinder, err := opts.openAccounts(ctx, dbURL)
			if err != nil {
				return fmt.Errorf("open account store: %w", err)
			}
			defer closeFinder()

			verifier := auth.NewVerifier(auth.NewVerifierParams{
				Finder:        finder,
				LookupTimeout: lookupTimeout,
			})

			out := NewOutput(cmd.OutOrStdout(), opts.output)
			acc, err := verifier.Verify(ctx, parsedRole, auth.Credentials{Email: email, Password: password})
			if err != nil {
				if printErr := out.Print(checkLoginResult{
					Role:    parsedRole,
					Email:   email,
					Outcome: auth.Outcome(err),
					Message: auth.UserMessage(auth.MessagePolicyDetailed, err),
				}); printErr != nil {
					return printErr
				}
				return err
			}

			return out.Print(checkLoginResult{
				Role:    parsedRole,
				Email:   acc.Email,
				OK:      true,
				Outcome: auth.Outcome(nil),
				Account: acc,
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", string(account.RolePlayer), "Account role: player, admin")
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (read from stdin when empty)")
	cmd.Flags().DurationVar(&lookupTimeout, "timeout", auth.DefaultLookupTimeout, "Account lookup timeout")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
