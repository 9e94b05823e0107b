package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waitlist/modules/waitlist"
	"github.com/dmitrymomot/waitlist/pkg/logger"
	"github.com/dmitrymomot/waitlist/pkg/ratelimit"
	"github.com/dmitrymomot/waitlist/pkg/validator"
)

func newSubmitCmd() *cobra.Command {
	var (
		userType string
		endpoint string
		in       waitlist.Input
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one waitlist record and print the outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			ut, err := waitlist.ParseUserType(userType)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if endpoint != "" {
				cfg.Waitlist.EndpointURL = endpoint
			}

			log := logger.New(logger.WithConfig(cfg.Log), logger.WithOutput(cmd.ErrOrStderr()))
			guard, err := waitlist.NewFromConfig(cfg.Waitlist, ratelimit.NewMemoryStore(), waitlist.WithLogger(log))
			if err != nil {
				return err
			}

			form := waitlist.NewForm(guard, cfg.Waitlist.Limits, log)
			out, err := form.Submit(cmd.Context(), waitlist.NewRecord(ut, in, time.Now()))
			category := waitlist.Classify(err)

			w := cmd.OutOrStdout()
			if category == waitlist.Success {
				fmt.Fprintf(w, "%s: %s\n", category, ut.Welcome())
				if out.SubmissionID != "" {
					fmt.Fprintf(w, "submission id: %s\n", out.SubmissionID)
				}
				return nil
			}

			fmt.Fprintf(w, "%s: %s\n", category, category.Message())
			if errs := validator.ExtractValidationErrors(err); errs != nil {
				for _, field := range errs.Fields() {
					for _, msg := range errs.Get(field) {
						fmt.Fprintf(w, "  %s: %s\n", field, msg)
					}
				}
			}
			return errors.Join(errSubmitFailed, err)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&userType, "type", "t", string(waitlist.Guest), "Waitlist to join (guest, host)")
	flags.StringVar(&endpoint, "endpoint", "", "Sink URL (overrides WAITLIST_ENDPOINT_URL)")
	flags.StringVar(&in.Name, "name", "", "Full name")
	flags.StringVar(&in.Email, "email", "", "E-mail address")
	flags.StringVar(&in.Phone, "phone", "", "Phone number")
	flags.StringVar(&in.Location, "location", "", "Location")
	flags.StringVar(&in.Message, "message", "", "Optional message")

	return cmd
}

var errSubmitFailed = errors.New("submission failed")
