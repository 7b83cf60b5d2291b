package ingest

import (
	"context"
	"fmt"

	"CurrentFM/logger"

	"github.com/minio/minio-go/v7"
)

// Listen subscribes to object-created notifications on the raw bucket and
// feeds every batch through the pipeline. It blocks until ctx is cancelled
// or the notification stream ends.
func (p *Pipeline) Listen(ctx context.Context, client *minio.Client, bucket string) error {
	logger.Info("listening for bucket notifications", logger.String("bucket", bucket))

	ch := client.ListenBucketNotification(ctx, bucket, "", "", []string{
		"s3:ObjectCreated:*",
	})

	for info := range ch {
		if info.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("bucket notification stream failed: %w", info.Err)
		}
		p.ProcessBatch(ctx, EventsFromNotification(info))
	}
	return ctx.Err()
}
