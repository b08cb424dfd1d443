package commands

import (
	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var (
		phone     string
		agreement bool
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a phone number",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			p, err := client.RegisterUser(ctx, phone, agreement)
			if err != nil {
				return err
			}
			return printPayload(cmd, p)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number, e.g. +77011234567")
	cmd.Flags().BoolVar(&agreement, "agreement", true, "accept the user agreement")
	cmd.MarkFlagRequired("phone")
	return cmd
}

func smsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "Send or verify the SMS confirmation code",
	}

	var phone, code string
	send := &cobra.Command{
		Use:   "send",
		Short: "Send a confirmation code",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			p, err := client.SendSMS(ctx, phone)
			if err != nil {
				return err
			}
			return printPayload(cmd, p)
		},
	}
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Verify a confirmation code and print the issued password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()
			p, err := client.VerifySMS(ctx, phone, code)
			if err != nil {
				return err
			}
			return printPayload(cmd, p)
		},
	}
	verify.Flags().StringVar(&code, "code", "", "code from the SMS")
	verify.MarkFlagRequired("code")

	for _, c := range []*cobra.Command{send, verify} {
		c.Flags().StringVar(&phone, "phone", "", "phone number")
		c.MarkFlagRequired("phone")
	}
	cmd.AddCommand(send, verify)
	return cmd
}
