package cmdutil

import (
	"context"
	"time"

	"github.com/cockroachdb/tablediff/dbconn"
	"github.com/cockroachdb/tablediff/profile"
	"github.com/cockroachdb/tablediff/retry"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type profileConfig struct {
	configPath    string
	profile       string
	retrySettings retry.Settings
}

var profileCfg = profileConfig{
	configPath: "config.ini",
	retrySettings: retry.Settings{
		InitialBackoff: 500 * time.Millisecond,
		Multiplier:     2,
		MaxBackoff:     5 * time.Second,
		MaxRetries:     3,
	},
}

func RegisterProfileFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&profileCfg.configPath,
		"config",
		profileCfg.configPath,
		"path to the file holding connection profiles (ini, yaml or toml)",
	)
	cmd.PersistentFlags().StringVar(
		&profileCfg.profile,
		"profile",
		"",
		"name of the connection profile to use",
	)
	cmd.PersistentFlags().IntVar(
		&profileCfg.retrySettings.MaxRetries,
		"connect-retries",
		profileCfg.retrySettings.MaxRetries,
		"maximum number of times to retry reaching the warehouse",
	)
	cmd.PersistentFlags().DurationVar(
		&profileCfg.retrySettings.MaxBackoff,
		"connect-retry-max-backoff",
		profileCfg.retrySettings.MaxBackoff,
		"maximum amount of time to wait between connection attempts",
	)
	if err := cmd.MarkPersistentFlagRequired("profile"); err != nil {
		panic(err)
	}
}

// ProfileName is the profile chosen with --profile.
func ProfileName() string {
	return profileCfg.profile
}

func LoadProfiles() (profile.Profiles, error) {
	return profile.Load(profileCfg.configPath)
}

// Connect opens a connection for the named profile. An empty name selects
// the --profile flag.
func Connect(
	ctx context.Context, logger zerolog.Logger, profiles profile.Profiles, name string,
) (dbconn.Conn, error) {
	if name == "" {
		name = profileCfg.profile
	}
	p, err := profiles.Get(name)
	if err != nil {
		return nil, err
	}
	logger.Debug().Interface("profile", p.Redacted()).Msgf("connecting")
	return dbconn.Connect(ctx, logger, dbconn.ID(p.Name), p, profileCfg.retrySettings)
}
