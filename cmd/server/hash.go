package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/todo-api/internal/service/auth"
)

// newHashPasswordCommand prints bcrypt digests for seeding users by hand.
// Passwords come from the arguments, or one per line on stdin.
func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password...]",
		Short: "Print bcrypt digests for the given passwords",
		RunE: func(cmd *cobra.Command, args []string) error {
			passwords := args
			if len(passwords) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
						passwords = append(passwords, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read passwords: %w", err)
				}
			}
			if len(passwords) == 0 {
				return fmt.Errorf("no passwords given")
			}

			hasher := auth.NewBcryptHasher(cost)
			for _, pw := range passwords {
				digest, err := hasher.Hash(pw)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), digest)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt work factor")
	return cmd
}
