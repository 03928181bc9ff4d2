package cmdutil

import (
	"context"
	"go.uber.org/zap"
	"time"
	"wafblock/internal/config"
	"wafblock/internal/endpoint"
	"wafblock/internal/firewall"
	"wafblock/internal/integrations/waf"
	"wafblock/logger"
)

// Factory holds what commands need once flags have been parsed.
type Factory struct {
	Config config.Config
	Stores firewall.StoreFactory
	Logger *zap.Logger
}

// Init loads configuration and sets up logging. Stores and Logger are kept
// when already set.
func (f *Factory) Init(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	f.Config = cfg

	if f.Logger == nil {
		if err := logger.InitLogger(cfg.LogMode); err != nil {
			return err
		}
		f.Logger = logger.GetLogger()
	}

	if f.Stores == nil {
		profile := cfg.Profile
		f.Stores = func(ctx context.Context, region string) (firewall.ListStore, error) {
			client, err := waf.Dial(ctx, region, profile)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
	}
	return nil
}

// Manager returns a list manager. Zero values in opts fall back to the
// loaded configuration.
func (f *Factory) Manager(opts firewall.Options) firewall.Manager {
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = f.Config.MaxAttempts
	}
	return firewall.NewManager(f.Stores, endpoint.NewAWSPolicy(f.Config.Region), f.Logger, opts)
}

func (f *Factory) Context(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = f.Config.Timeout
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return context.WithTimeout(parent, timeout)
}
