package show

import (
	"fmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"net/netip"
	"time"
	"wafblock/internal/address"
	"wafblock/internal/cmdutil"
	"wafblock/internal/firewall"
	"wafblock/internal/types"
)

func NewShowCmd(f *cmdutil.Factory) *cobra.Command {
	var (
		name, id, scopeName, region, ip string
		timeout                         time.Duration
	)

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Show the entries of a WAF IP set",
		Long:    "Print the addresses of a WAF IP set. With --ip, also report whether that address is already blocked.",
		Example: "wafblock show --ipset-name BlockedIPs --ipset-id <id> --ip 198.51.100.10",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := types.ParseScope(scopeName)
			if err != nil {
				return err
			}
			key := types.ListKey{Name: name, ID: id, Scope: scope}

			var prefix netip.Prefix
			checking := ip != ""
			if checking {
				if prefix, err = address.Normalize(ip); err != nil {
					return err
				}
			}

			cmdutil.StartLoading("Working...")
			defer cmdutil.StopLoading()

			ctx, cancel := f.Context(cmd.Context(), timeout)
			defer cancel()

			list, err := f.Manager(firewall.Options{}).Inspect(ctx, key, region)
			cmdutil.StopLoading()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetTitle(fmt.Sprintf("%s (%s, %d entries)", key, list.AddressVersion, len(list.Addresses)))
			tw.AppendHeader(table.Row{"#", "Address"})
			for i, next := range list.Addresses {
				tw.AppendRow(table.Row{i + 1, next})
			}
			cmdutil.Print(tw.Render())

			if checking {
				found := lo.ContainsBy(list.Addresses, func(entry string) bool {
					return address.Equal(entry, prefix)
				})
				if found {
					cmdutil.PrintW(fmt.Sprintf("IP %s is blocked", prefix))
				} else {
					cmdutil.Print(fmt.Sprintf("IP %s is not in the IP set", prefix))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "ipset-name", "n", "", "Name of the WAF IP set")
	cmd.Flags().StringVarP(&id, "ipset-id", "i", "", "ID of the WAF IP set")
	cmd.Flags().StringVarP(&scopeName, "scope", "s", string(types.ScopeRegional), "Scope of the IP set: REGIONAL or CLOUDFRONT")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region of a REGIONAL IP set")
	cmd.Flags().StringVar(&ip, "ip", "", "Report whether this address is in the IP set")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Time limit for the request (default from config)")
	_ = cmd.MarkFlagRequired("ipset-name")
	_ = cmd.MarkFlagRequired("ipset-id")
	return cmd
}
