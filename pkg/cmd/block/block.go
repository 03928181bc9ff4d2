package block

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"time"
	"wafblock/internal/cmdutil"
	"wafblock/internal/firewall"
	"wafblock/internal/types"
)

type param struct {
	IP          string `validate:"required"`
	Name        string `validate:"required"`
	ID          string `validate:"required"`
	Scope       string `validate:"required"`
	Region      string
	MaxAttempts int `validate:"min=0,max=10"`
	Timeout     time.Duration
	DryRun      bool
}

func NewBlockCmd(f *cmdutil.Factory) *cobra.Command {
	mValidator := validator.New(validator.WithRequiredStructEnabled())
	p := &param{}

	cmd := &cobra.Command{
		Use:     "block [ip]",
		Short:   "Block an IP address in a WAF IP set",
		Long:    "Add an IP address or CIDR block to a WAF IP set. Blocking an address that is already in the set does nothing.",
		Example: "wafblock block --ip 198.51.100.10 --ipset-name BlockedIPs --ipset-id <id> --scope REGIONAL --region eu-west-1",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				p.IP = args[0]
			}

			if err := mValidator.Struct(p); err != nil {
				var vError validator.ValidationErrors
				if errors.As(err, &vError) && len(vError) > 0 {
					return types.NewError("block", types.ErrValidation,
						errors.Errorf("missing or invalid value for: %s", vError[0].Field()))
				}
				return err
			}

			scope, err := types.ParseScope(p.Scope)
			if err != nil {
				return err
			}
			key := types.ListKey{Name: p.Name, ID: p.ID, Scope: scope}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			ctx, cancel := f.Context(cmd.Context(), p.Timeout)
			defer cancel()

			fm := f.Manager(firewall.Options{MaxAttempts: p.MaxAttempts, DryRun: p.DryRun})
			result, err := fm.BlockAddress(ctx, p.IP, key, p.Region)
			cmdutil.StopLoading()
			if err != nil {
				return err
			}

			switch result.Outcome {
			case types.OutcomeBlocked:
				cmdutil.PrintS(fmt.Sprintf("IP %s blocked in IP set '%s' (%s)", result.Address, key.Name, result.Region))
			case types.OutcomeAlreadyBlocked:
				cmdutil.PrintW(fmt.Sprintf("IP %s is already blocked in IP set '%s'", result.Address, key.Name))
			case types.OutcomeWouldBlock:
				cmdutil.PrintW(fmt.Sprintf("dry run: IP %s would be added to IP set '%s' (%s)", result.Address, key.Name, result.Region))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&p.IP, "ip", "", "IP address or CIDR block to block, e.g --ip 198.51.100.10")
	cmd.Flags().StringVarP(&p.Name, "ipset-name", "n", "", "Name of the WAF IP set")
	cmd.Flags().StringVarP(&p.ID, "ipset-id", "i", "", "ID of the WAF IP set")
	cmd.Flags().StringVarP(&p.Scope, "scope", "s", string(types.ScopeRegional), "Scope of the IP set: REGIONAL or CLOUDFRONT")
	cmd.Flags().StringVarP(&p.Region, "region", "r", "", "AWS region of a REGIONAL IP set. CLOUDFRONT IP sets always use us-east-1")
	cmd.Flags().IntVar(&p.MaxAttempts, "max-attempts", 0, "Read-modify-write attempts when the IP set changes concurrently, 1 disables retries (default from config)")
	cmd.Flags().DurationVar(&p.Timeout, "timeout", 0, "Time limit for the whole operation (default from config)")
	cmd.Flags().BoolVar(&p.DryRun, "dry-run", false, "Check the IP set without changing it")
	return cmd
}
