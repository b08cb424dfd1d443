package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stroyka/internal/auth"
)

func loginCmd() *cobra.Command {
	var phone, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange phone and password for an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			tok, err := client.GetAuthToken(ctx, phone, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "access token: %s\n", tok.AccessToken)
			if tok.RefreshToken != "" {
				fmt.Fprintf(out, "refresh token: %s\n", tok.RefreshToken)
			}
			if claims, err := auth.Inspect(tok.AccessToken); err == nil {
				fmt.Fprintf(out, "login: %s\n", claims.Login())
				if claims.ExpiresAt != nil {
					fmt.Fprintf(out, "expires: %s\n", claims.ExpiresAt.Time.Format(time.RFC3339))
				}
			} else if !tok.Expiry.IsZero() {
				fmt.Fprintf(out, "expires: %s\n", tok.Expiry.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&password, "password", "", "password received after SMS verification")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("password")
	return cmd
}
