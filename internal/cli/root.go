package cli

import (
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/config"
	"github.com/avdcouto/photoapp/internal/logger"
	"github.com/avdcouto/photoapp/internal/photoapp"
	"github.com/avdcouto/photoapp/internal/retry"
)

type rootOptions struct {
	cfgPath string
	url     string
	debug   bool
}

// NewRootCmd builds the photoapp command tree. Each subcommand maps
// to one web service operation.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "photoapp",
		Short:         "Client for the photoapp web service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.cfgPath, "config", "c", "", "path to YAML config file")
	pf.StringVar(&opts.url, "url", "", "web service base URL, overrides config file and env")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.AddCommand(
		newPingCmd(opts),
		newUsersCmd(opts),
		newImagesCmd(opts),
		newUploadCmd(opts),
		newDownloadCmd(opts),
		newLabelsCmd(opts),
		newSearchCmd(opts),
		newDeleteAllCmd(opts),
	)
	return cmd
}

func (o *rootOptions) newClient() (*photoapp.Client, error) {
	var cfg *config.ClientConfig
	if url := strings.TrimSpace(o.url); url != "" {
		cfg = &config.ClientConfig{
			BaseURL:     url,
			Timeout:     config.DefaultTimeout,
			MaxAttempts: config.DefaultMaxAttempts,
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	} else {
		loaded, err := config.LoadClientConfig(o.cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	log := zap.NewNop().Sugar()
	if o.debug || cfg.Debug {
		var err error
		log, err = logger.NewLogger(true)
		if err != nil {
			return nil, err
		}
	}

	return photoapp.NewClient(cfg.BaseURL,
		photoapp.WithDoer(&http.Client{Timeout: cfg.Timeout}),
		photoapp.WithRetryPolicy(retry.Policy{MaxAttempts: cfg.MaxAttempts}),
		photoapp.WithLogger(log),
	)
}
