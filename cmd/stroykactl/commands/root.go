package commands

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stroyka/internal/apiclient"
	"stroyka/internal/cmr"
	"stroyka/internal/config"
)

var (
	token    string
	language string
	verbose  bool

	cfg      *config.Config
	logger   *zap.SugaredLogger
	client   *apiclient.Client
	upstream *cmr.APIManager
)

func Execute() error {
	root := &cobra.Command{
		Use:           "stroykactl",
		Short:         "Command line access to the Stroyka.kz order backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.NewConfig(); err != nil {
				return err
			}

			l := zap.NewNop()
			if verbose {
				if l, err = zap.NewDevelopment(); err != nil {
					return err
				}
			}
			logger = l.Sugar()

			httpClient := newHTTPClient()
			client = apiclient.New(cfg, logger, apiclient.WithHTTPClient(httpClient))
			if token == "" {
				token = os.Getenv("STROYKA_TOKEN")
			}
			client.SetAuthToken(token)
			if language != "" {
				client.SetLanguage(language)
			}
			upstream = cmr.NewAPIManager(httpClient, cfg.CMRAPIURL, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&token, "token", "", "access token (default $STROYKA_TOKEN)")
	root.PersistentFlags().StringVar(&language, "lang", "", "request language (kk, ru)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(registerCmd(), smsCmd(), loginCmd(), workTypesCmd(), addressesCmd(), orderCmd())
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	return root.ExecuteContext(ctx)
}

// newHTTPClient has no overall timeout: reads are bounded through requestContext
// and uploads may take as long as the link needs.
func newHTTPClient() *http.Client {
	return &http.Client{}
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.APIRequestTimeout)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPayload(cmd *cobra.Command, p *apiclient.Payload) error {
	if p.IsJSON() {
		return printJSON(cmd, p.Value())
	}
	cmd.Println(p.Text())
	return nil
}
