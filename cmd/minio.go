package cmd

import (
	"context"
	"fmt"
	"log"

	"CurrentFM/config"
	"CurrentFM/storage"

	"github.com/spf13/cobra"
)

var (
	minioBucket string
	minioPrefix string
	minioStats  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the raw and media buckets",
	Long:  `List objects or show aggregate statistics for a bucket prefix. Useful for checking what the ingest pipeline has produced.`,
	Run: func(cmd *cobra.Command, args []string) {
		initLogging()
		cfg := config.Load()

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("failed to connect to MinIO: %v", err)
		}
		store := storage.NewMinioStore(storage.GetMinioClient())

		bucket := minioBucket
		if bucket == "" {
			bucket = cfg.MediaBucket
		}
		ctx := context.Background()

		if minioStats {
			stats, err := store.Stats(ctx, bucket, minioPrefix)
			if err != nil {
				log.Fatalf("failed to collect stats: %v", err)
			}
			fmt.Printf("Bucket: %s Prefix: %q\n", bucket, minioPrefix)
			fmt.Printf("Objects: %d\n", stats.TotalObjects)
			fmt.Printf("Total size: %d bytes\n", stats.TotalSize)
			if !stats.LastModified.IsZero() {
				fmt.Printf("Last modified: %s\n", stats.LastModified)
			}
			return
		}

		objects, err := store.ListPrefix(ctx, bucket, minioPrefix)
		if err != nil {
			log.Fatalf("failed to list objects: %v", err)
		}
		for _, object := range objects {
			fmt.Printf("%12d  %s  %s\n", object.Size, object.LastModified.Format("2006-01-02 15:04:05"), object.Key)
		}
		fmt.Printf("%d objects\n", len(objects))
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioBucket, "bucket", "b", "", "bucket to inspect (default: media bucket)")
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "key prefix filter")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "show aggregate statistics instead of listing")

	minioCmd.Example = `  # List everything the pipeline wrote
  currentfm minio

  # List normalized audio for one artist
  currentfm minio -p "tracks/pink_floyd/"

  # Show stats for the raw bucket
  currentfm minio -b current-ingest -s`
}
