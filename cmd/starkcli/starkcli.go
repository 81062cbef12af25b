package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NethermindEth/starkclient/clients/provider"
	"github.com/NethermindEth/starkclient/jsonrpc"
	"github.com/NethermindEth/starkclient/metrics"
	"github.com/NethermindEth/starkclient/rpc"
	"github.com/NethermindEth/starkclient/utils"
	"github.com/NethermindEth/starkclient/validator"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const envPrefix = "STARKCLI"

const (
	configF        = "config"
	rpcURLF        = "rpc-url"
	wsURLF         = "ws-url"
	networkF       = "network"
	logLevelF      = "log-level"
	colourF        = "colour"
	timeoutF       = "timeout"
	maxRetriesF    = "max-retries"
	strictSchemaF  = "strict-schema"
	metricsF       = "metrics"
	metricsHostF   = "metrics-host"
	metricsPortF   = "metrics-port"
	feeMultiplierF = "fee-multiplier"
	outputF        = "output"

	defaultConfig        = ""
	defaultRPCURL        = "http://localhost:6060"
	defaultWSURL         = ""
	defaultColour        = true
	defaultTimeout       = 30 * time.Second
	defaultMaxRetries    = 3
	defaultStrictSchema  = false
	defaultMetrics       = false
	defaultMetricsHost   = "localhost"
	defaultMetricsPort   = uint16(9090)
	defaultFeeMultiplier = 1.5
	defaultOutput        = "table"

	configFlagUsage    = "The YAML configuration file."
	rpcURLUsage        = "HTTP endpoint of the Starknet JSON-RPC node."
	wsURLUsage         = "Websocket endpoint of the node, needed for subscriptions."
	networkUsage       = "Network the node is expected to serve. Options: mainnet, sepolia, sepolia-integration."
	logLevelUsage      = "Options: trace, debug, info, warn, error."
	colourUsage        = "Use `--colour=false` to disable colourized logs."
	timeoutUsage       = "Deadline of a single JSON-RPC request attempt."
	maxRetriesUsage    = "How often a request is repeated after a transport failure."
	strictSchemaUsage  = "Reject responses carrying fields the client does not know."
	metricsUsage       = "Serve client metrics on /metrics and the log level on /log/level while the command runs."
	metricsHostUsage   = "The interface on which the metrics server listens."
	metricsPortUsage   = "The port on which the metrics server listens."
	feeMultiplierUsage = "Factor applied to fee estimates before they are used as limits."
	outputUsage        = "Output format. Options: table, json, yaml."
)

type Config struct {
	RPCURL        string         `mapstructure:"rpc-url" validate:"required,url"`
	WSURL         string         `mapstructure:"ws-url" validate:"omitempty,url"`
	Network       utils.Network  `mapstructure:"network"`
	LogLevel      utils.LogLevel `mapstructure:"log-level"`
	Colour        bool           `mapstructure:"colour"`
	Timeout       time.Duration  `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries    int            `mapstructure:"max-retries" validate:"gte=0"`
	StrictSchema  bool           `mapstructure:"strict-schema"`
	Metrics       bool           `mapstructure:"metrics"`
	MetricsHost   string         `mapstructure:"metrics-host"`
	MetricsPort   uint16         `mapstructure:"metrics-port" validate:"required_if=Metrics true"`
	FeeMultiplier float64        `mapstructure:"fee-multiplier" validate:"gte=1"`
	Output        string         `mapstructure:"output" validate:"oneof=table json yaml"`
}

// cli holds what the subcommands share once the configuration is loaded.
type cli struct {
	cfgFile string
	v       *viper.Viper
	cfg     *Config
	log     utils.SimpleLogger

	registry      *prometheus.Registry
	metricsServer *http.Server
}

func NewCmd() *cobra.Command {
	c := new(cli)
	defaultLogLevel := utils.NewLogLevel(utils.WARN)
	defaultNetwork := utils.Mainnet

	rootCmd := &cobra.Command{
		Use:           "starkcli [command] [flags]",
		Short:         "Query and drive a Starknet node over JSON-RPC.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.shutdown(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, configF, defaultConfig, configFlagUsage)
	flags.String(rpcURLF, defaultRPCURL, rpcURLUsage)
	flags.String(wsURLF, defaultWSURL, wsURLUsage)
	flags.Var(&defaultNetwork, networkF, networkUsage)
	flags.Var(defaultLogLevel, logLevelF, logLevelUsage)
	flags.Bool(colourF, defaultColour, colourUsage)
	flags.Duration(timeoutF, defaultTimeout, timeoutUsage)
	flags.Int(maxRetriesF, defaultMaxRetries, maxRetriesUsage)
	flags.Bool(strictSchemaF, defaultStrictSchema, strictSchemaUsage)
	flags.Bool(metricsF, defaultMetrics, metricsUsage)
	flags.String(metricsHostF, defaultMetricsHost, metricsHostUsage)
	flags.Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)
	flags.Float64(feeMultiplierF, defaultFeeMultiplier, feeMultiplierUsage)
	flags.StringP(outputF, "o", defaultOutput, outputUsage)

	rootCmd.AddCommand(
		c.chainIDCmd(),
		c.blockNumberCmd(),
		c.blockCmd(),
		c.txCmd(),
		c.receiptCmd(),
		c.statusCmd(),
		c.nonceCmd(),
		c.classHashAtCmd(),
		c.callCmd(),
		c.invokeCmd(),
		c.waitCmd(),
		c.selectorCmd(),
		c.hashCmd(),
		c.keysCmd(),
		c.watchCmd(),
	)
	return rootCmd
}

// load merges the config file, STARKCLI_ environment variables and flags, in increasing
// order of precedence.
func (c *cli) load(cmd *cobra.Command) error {
	v := viper.New()
	if c.cfgFile != "" {
		v.SetConfigType("yaml")
		v.SetConfigFile(c.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg := new(Config)
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(cfg, hooks); err != nil {
		return err
	}
	if err := validator.Validator().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.v, c.cfg = v, cfg

	log, err := utils.NewZapLogger(&cfg.LogLevel, cfg.Colour)
	if err != nil {
		return err
	}
	c.log = log

	if cfg.Metrics {
		return c.serveMetrics()
	}
	return nil
}

func (c *cli) serveMetrics() error {
	c.registry = metrics.PrometheusRegistry()
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.PrometheusHandler(c.registry))
	mux.HandleFunc("/log/level", func(w http.ResponseWriter, r *http.Request) {
		utils.HTTPLogSettings(w, r, &c.cfg.LogLevel)
	})

	addr := net.JoinHostPort(c.cfg.MetricsHost, strconv.Itoa(int(c.cfg.MetricsPort)))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	c.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := c.metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Errorw("Metrics server stopped", "err", err)
		}
	}()
	c.log.Infow("Serving metrics", "addr", listener.Addr().String())
	return nil
}

func (c *cli) shutdown(ctx context.Context) error {
	if c.metricsServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return c.metricsServer.Shutdown(ctx)
}

func (c *cli) schema() *rpc.Schema {
	if c.cfg.StrictSchema {
		return rpc.NewSchema(rpc.UnknownFieldsReject)
	}
	return rpc.DefaultSchema
}

func (c *cli) rpcClient() *jsonrpc.Client {
	client := jsonrpc.NewClient(c.cfg.RPCURL).
		WithTimeout(c.cfg.Timeout).
		WithMaxRetries(c.cfg.MaxRetries).
		WithLogger(c.log)
	if c.registry != nil {
		client = client.WithListener(metrics.NewClientListener(c.registry))
	}
	return client
}

func (c *cli) provider() *provider.Client {
	return provider.New(c.rpcClient(), c.schema()).WithLogger(c.log)
}

// wsProvider dials the websocket endpoint. The caller closes the returned client.
func (c *cli) wsProvider(ctx context.Context) (*provider.WSClient, *jsonrpc.WSClient, error) {
	if c.cfg.WSURL == "" {
		return nil, nil, fmt.Errorf("--%s is required for subscriptions", wsURLF)
	}
	ws := jsonrpc.NewWSClient(c.cfg.WSURL).WithLogger(c.log)
	if err := ws.Dial(ctx); err != nil {
		return nil, nil, err
	}
	return provider.NewWS(ws, c.schema()), ws, nil
}
