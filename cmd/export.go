package cmd

import (
	"github.com/ishankhire/gt-meal-planning/internal/cloudwriter"
	"github.com/ishankhire/gt-meal-planning/internal/export"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/ishankhire/gt-meal-planning/internal/repositories/postgres"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the nutrition cache and ratings to Parquet",
	Long: `export writes the nutrition cache and food ratings tables as Parquet
files for offline analysis, either to a local directory or, with
--s3-bucket, to S3.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return err
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		bucket := viper.GetString("export_bucket")
		var factory cloudwriter.CloudWriterFactory
		if bucket != "" {
			factory, err = cloudwriter.NewS3WriterFactory(cfg.Archive.Region)
			if err != nil {
				return err
			}
		} else {
			factory = cloudwriter.NewLocalWriterFactory(".")
		}

		exporter := export.NewExporter(
			postgres.NewNutritionRepository(pool),
			postgres.NewRatingRepository(pool),
			factory,
			bucket,
			cfg.ExportFolder,
		)
		return exporter.Run(ctx)
	},
}

func init() {
	exportCmd.Flags().String("s3-bucket", "", "Export to this S3 bucket instead of the local filesystem")
	viper.BindPFlag("export_bucket", exportCmd.Flags().Lookup("s3-bucket"))
	rootCmd.AddCommand(exportCmd)
}
