package waf

import (
	wafv2types "github.com/aws/aws-sdk-go-v2/service/wafv2/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"wafblock/internal/types"
)

var (
	authzCodes = []string{
		"AccessDenied",
		"AccessDeniedException",
		"UnauthorizedOperation",
		"UnrecognizedClientException",
		"InvalidClientTokenId",
		"InvalidSignatureException",
		"ExpiredToken",
		"ExpiredTokenException",
	}
)

// classify maps a WAFv2 error onto the error kinds callers act on.
func classify(op string, err error) error {
	var (
		nonexistent  *wafv2types.WAFNonexistentItemException
		lock         *wafv2types.WAFOptimisticLockException
		invalidParam *wafv2types.WAFInvalidParameterException
		invalidOp    *wafv2types.WAFInvalidOperationException
		apiErr       smithy.APIError
	)

	switch {
	case errors.As(err, &nonexistent):
		return types.NewError(op, types.ErrNotFound, err)
	case errors.As(err, &lock):
		return types.NewError(op, types.ErrConflict, err)
	case errors.As(err, &invalidParam), errors.As(err, &invalidOp):
		return types.NewError(op, types.ErrValidation, err)
	case errors.As(err, &apiErr) && lo.Contains(authzCodes, apiErr.ErrorCode()):
		return types.NewError(op, types.ErrAuthz, err)
	default:
		return types.NewError(op, types.ErrTransport, err)
	}
}
