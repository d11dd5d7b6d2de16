package cmdutil

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/tablediff/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type exportConfig struct {
	localPath string
	s3Bucket  string
	gcsBucket string
	prefix    string
}

var exportCfg exportConfig

func RegisterExportFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&exportCfg.localPath,
		"export-dir",
		"",
		"if set, directory to write the differing rows to as csv",
	)
	cmd.PersistentFlags().StringVar(
		&exportCfg.s3Bucket,
		"export-s3-bucket",
		"",
		"if set, s3 bucket to write the differing rows to as csv",
	)
	cmd.PersistentFlags().StringVar(
		&exportCfg.gcsBucket,
		"export-gcs-bucket",
		"",
		"if set, gcs bucket to write the differing rows to as csv",
	)
	cmd.PersistentFlags().StringVar(
		&exportCfg.prefix,
		"export-prefix",
		"",
		"key prefix for objects written to a bucket",
	)
	cmd.MarkFlagsMutuallyExclusive("export-dir", "export-s3-bucket", "export-gcs-bucket")
}

// ExportStore returns the store selected by the export flags, or nil if
// exporting is disabled.
func ExportStore(ctx context.Context, logger zerolog.Logger) (export.Store, error) {
	switch {
	case exportCfg.gcsBucket != "":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "error creating gcs client")
		}
		return export.NewGCSStore(logger, client, exportCfg.gcsBucket, exportCfg.prefix), nil
	case exportCfg.s3Bucket != "":
		sess, err := session.NewSession()
		if err != nil {
			return nil, errors.Wrapf(err, "error creating aws session")
		}
		return export.NewS3Store(logger, sess, exportCfg.s3Bucket, exportCfg.prefix), nil
	case exportCfg.localPath != "":
		store, err := export.NewLocalStore(logger, exportCfg.localPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, nil
}
