package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build and send tomorrow's digest to every subscribed user",
	Long: `digest composes tomorrow's full-day meal plan for each subscribed user
and hands it to the configured delivery destination. Scheduled externally,
typically via cron in the early evening.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		users, err := a.subRepo.ListSubscribed(ctx)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			log.Info().Msg("no subscribed users")
			return nil
		}

		tomorrow := time.Now().AddDate(0, 0, 1)
		sent, failed := 0, 0
		for _, user := range users {
			payload, err := a.orchestrator.BuildDigest(ctx, user, tomorrow)
			if err != nil {
				log.Error().Err(err).Str("email", user.Email).Msg("failed to build digest")
				failed++
				continue
			}

			if err := a.archiver.Archive(ctx, payload); err != nil {
				log.Warn().Err(err).Str("id", payload.ID).Msg("digest archive failed")
			}

			if err := a.delivery.Send(ctx, payload); err != nil {
				log.Error().Err(err).Str("email", user.Email).Msg("digest delivery failed")
				failed++
				continue
			}
			sent++
		}

		log.Info().Int("sent", sent).Int("failed", failed).
			Str("date", tomorrow.Format("2006-01-02")).Msg("digest run complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}
