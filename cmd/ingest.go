package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CurrentFM/config"
	"CurrentFM/db"
	"CurrentFM/ingest"
	"CurrentFM/logger"
	"CurrentFM/model"
	"CurrentFM/repository"
	"CurrentFM/storage"

	"github.com/spf13/cobra"
)

var ingestWatchDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run the ingest worker without the HTTP API",
	Long: `Subscribe to object-created notifications on the raw bucket and
reconcile uploads into track records. With --watch, a local drop
directory is watched as an additional ingest source.`,
	Run: func(cmd *cobra.Command, args []string) {
		initLogging()
		cfg := config.Load()

		if err := storage.InitMinio(cfg); err != nil {
			logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
		}
		if err := db.Connect(cfg); err != nil {
			logger.Fatal("failed to connect to database", logger.ErrorField(err))
		}
		defer db.Close()
		if err := db.AutoMigrate(&model.Track{}); err != nil {
			logger.Fatal("failed to migrate schema", logger.ErrorField(err))
		}

		store := storage.NewMinioStore(storage.GetMinioClient())
		trackRepo := repository.NewTrackRepository(db.DB)
		transcoder := ingest.NewFFmpegTranscoder(cfg.FFmpegPath, cfg.AudioBitrate)
		resolver := ingest.NewMetadataResolver(store, ingest.RetryPolicy{
			MaxAttempts: cfg.MetaMaxAttempts,
			Delay:       cfg.MetaRetryDelay,
		})
		artResolver := ingest.NewArtResolver(store, transcoder, cfg.RawBucket, cfg.MediaBucket)
		pipeline := ingest.NewPipeline(store, transcoder, resolver, artResolver, trackRepo, cfg.RawBucket, cfg.MediaBucket)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			cancel()
		}()

		if ingestWatchDir != "" {
			watcher := ingest.NewDropWatcher(pipeline, store, cfg.RawBucket, ingestWatchDir)
			go func() {
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					logger.Error("drop watcher stopped", logger.ErrorField(err))
				}
			}()
		}

		if err := pipeline.Listen(ctx, storage.GetMinioClient(), cfg.RawBucket); err != nil && ctx.Err() == nil {
			logger.Fatal("ingest listener failed", logger.ErrorField(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingestWatchDir, "watch", "w", "", "local drop directory to watch as an additional ingest source")
}
