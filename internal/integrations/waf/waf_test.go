package waf

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/wafv2"
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"wafblock/internal/types"
)

type fakeAPI struct {
	getOut    *wafv2.GetIPSetOutput
	getErr    error
	updateErr error
	getIn     *wafv2.GetIPSetInput
	updateIn  *wafv2.UpdateIPSetInput
}

func (f *fakeAPI) GetIPSet(_ context.Context, params *wafv2.GetIPSetInput, _ ...func(*wafv2.Options)) (*wafv2.GetIPSetOutput, error) {
	f.getIn = params
	return f.getOut, f.getErr
}

func (f *fakeAPI) UpdateIPSet(_ context.Context, params *wafv2.UpdateIPSetInput, _ ...func(*wafv2.Options)) (*wafv2.UpdateIPSetOutput, error) {
	f.updateIn = params
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &wafv2.UpdateIPSetOutput{NextLockToken: aws.String("T2")}, nil
}

var (
	testKey = types.ListKey{Name: "BlockedIPs", ID: "abc-123", Scope: types.ScopeCloudFront}
)

func TestClient_ReadList(t *testing.T) {
	api := &fakeAPI{
		getOut: &wafv2.GetIPSetOutput{
			IPSet: &wafv2types.IPSet{
				ARN:              aws.String("arn:aws:wafv2:us-east-1:123456789012:global/ipset/BlockedIPs/abc-123"),
				Id:               aws.String("abc-123"),
				Name:             aws.String("BlockedIPs"),
				Description:      aws.String("threat feed"),
				IPAddressVersion: wafv2types.IPAddressVersionIpv4,
				Addresses:        []string{"10.0.0.5/32"},
			},
			LockToken: aws.String("T1"),
		},
	}
	client := NewClient(api, "us-east-1")

	list, err := client.ReadList(context.Background(), testKey)
	require.NoError(t, err)

	assert.Equal(t, "BlockedIPs", aws.ToString(api.getIn.Name))
	assert.Equal(t, "abc-123", aws.ToString(api.getIn.Id))
	assert.Equal(t, wafv2types.ScopeCloudfront, api.getIn.Scope)

	assert.Equal(t, testKey, list.Key)
	assert.Equal(t, []string{"10.0.0.5/32"}, list.Addresses)
	assert.Equal(t, "T1", list.LockToken)
	assert.Equal(t, types.AddressVersionIPv4, list.AddressVersion)
	assert.Equal(t, "threat feed", list.Description)
	assert.Equal(t, "us-east-1", client.Region())
}

func TestClient_ReadListIncompleteResponse(t *testing.T) {
	client := NewClient(&fakeAPI{getOut: &wafv2.GetIPSetOutput{}}, "us-east-1")

	_, err := client.ReadList(context.Background(), testKey)
	assert.ErrorIs(t, err, types.ErrTransport)
}

func TestClient_WriteList(t *testing.T) {
	api := &fakeAPI{}
	client := NewClient(api, "us-east-1")

	err := client.WriteList(context.Background(), types.ManagedList{
		Key:         testKey,
		Description: "threat feed",
		Addresses:   []string{"10.0.0.5/32", "198.51.100.10/32"},
		LockToken:   "T1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"10.0.0.5/32", "198.51.100.10/32"}, api.updateIn.Addresses)
	assert.Equal(t, "T1", aws.ToString(api.updateIn.LockToken))
	assert.Equal(t, "threat feed", aws.ToString(api.updateIn.Description))
	assert.Equal(t, wafv2types.ScopeCloudfront, api.updateIn.Scope)

	err = client.WriteList(context.Background(), types.ManagedList{Key: testKey, LockToken: "T2"})
	require.NoError(t, err)
	assert.NotNil(t, api.updateIn.Addresses)
	assert.Nil(t, api.updateIn.Description)
}

func TestClassify(t *testing.T) {
	opErr := func(err error) error {
		return &smithy.OperationError{ServiceID: "WAFV2", OperationName: "UpdateIPSet", Err: err}
	}

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "stale lock token",
			err:      opErr(&wafv2types.WAFOptimisticLockException{Message: aws.String("stale")}),
			expected: types.ErrConflict,
		},
		{
			name:     "unknown ip set",
			err:      opErr(&wafv2types.WAFNonexistentItemException{Message: aws.String("missing")}),
			expected: types.ErrNotFound,
		},
		{
			name:     "invalid parameter",
			err:      opErr(&wafv2types.WAFInvalidParameterException{Message: aws.String("bad address")}),
			expected: types.ErrValidation,
		},
		{
			name:     "access denied",
			err:      opErr(&smithy.GenericAPIError{Code: "AccessDeniedException", Message: "no"}),
			expected: types.ErrAuthz,
		},
		{
			name:     "expired token",
			err:      opErr(&smithy.GenericAPIError{Code: "ExpiredTokenException"}),
			expected: types.ErrAuthz,
		},
		{
			name:     "internal error",
			err:      opErr(&wafv2types.WAFInternalErrorException{Message: aws.String("oops")}),
			expected: types.ErrTransport,
		},
		{
			name:     "network",
			err:      opErr(errors.New("dial tcp: connection refused")),
			expected: types.ErrTransport,
		},
		{
			name:     "deadline",
			err:      opErr(context.DeadlineExceeded),
			expected: types.ErrTransport,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			api := &fakeAPI{updateErr: test.err}
			err := NewClient(api, "us-east-1").WriteList(context.Background(), types.ManagedList{Key: testKey, LockToken: "T1"})
			assert.ErrorIs(t, err, test.expected)
			assert.ErrorIs(t, err, test.err)
		})
	}
}
