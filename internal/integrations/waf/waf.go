package waf

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/pkg/errors"
	"wafblock/internal/types"
)

type (
	// API is the part of the WAFv2 client used to read and update IP sets.
	API interface {
		GetIPSet(ctx context.Context, params *wafv2.GetIPSetInput, optFns ...func(*wafv2.Options)) (*wafv2.GetIPSetOutput, error)
		UpdateIPSet(ctx context.Context, params *wafv2.UpdateIPSetInput, optFns ...func(*wafv2.Options)) (*wafv2.UpdateIPSetOutput, error)
	}
)

// Client stores managed lists as WAFv2 IP sets in a single region.
type Client struct {
	api    API
	region string
}

func NewClient(api API, region string) *Client {
	return &Client{api: api, region: region}
}

// Dial loads credentials from the default AWS chain and returns a client for
// region. profile selects a shared config profile when set.
func Dial(ctx context.Context, region, profile string) (*Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, types.NewError("load aws config", types.ErrAuthz, err)
	}
	return NewClient(wafv2.NewFromConfig(cfg), region), nil
}

func (c *Client) Region() string {
	return c.region
}

func (c *Client) ReadList(ctx context.Context, key types.ListKey) (types.ManagedList, error) {
	out, err := c.api.GetIPSet(ctx, &wafv2.GetIPSetInput{
		Id:    aws.String(key.ID),
		Name:  aws.String(key.Name),
		Scope: wafv2types.Scope(key.Scope),
	})
	if err != nil {
		return types.ManagedList{}, classify("get ip set", err)
	}
	if out.IPSet == nil || out.LockToken == nil {
		return types.ManagedList{}, types.NewError("get ip set", types.ErrTransport,
			errors.Errorf("incomplete response for %s", key))
	}

	return types.ManagedList{
		Key:            key,
		ARN:            aws.ToString(out.IPSet.ARN),
		Description:    aws.ToString(out.IPSet.Description),
		AddressVersion: types.AddressVersion(out.IPSet.IPAddressVersion),
		Addresses:      append([]string{}, out.IPSet.Addresses...),
		LockToken:      aws.ToString(out.LockToken),
	}, nil
}

// WriteList replaces the addresses of the IP set. The description is sent
// back unchanged since UpdateIPSet resets fields that are left out.
func (c *Client) WriteList(ctx context.Context, list types.ManagedList) error {
	input := &wafv2.UpdateIPSetInput{
		Id:        aws.String(list.Key.ID),
		Name:      aws.String(list.Key.Name),
		Scope:     wafv2types.Scope(list.Key.Scope),
		Addresses: list.Addresses,
		LockToken: aws.String(list.LockToken),
	}
	if input.Addresses == nil {
		input.Addresses = []string{}
	}
	if list.Description != "" {
		input.Description = aws.String(list.Description)
	}

	if _, err := c.api.UpdateIPSet(ctx, input); err != nil {
		return classify("update ip set", err)
	}
	return nil
}
