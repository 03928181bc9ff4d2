package firewall

import (
	"context"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"net/netip"
	"time"
	"wafblock/internal/address"
	"wafblock/internal/endpoint"
	"wafblock/internal/types"
)

const (
	DefaultMaxAttempts = 3
)

type (
	// ListStore is the control plane that owns managed lists. WriteList must
	// reject the write with types.ErrConflict when list.LockToken is stale.
	ListStore interface {
		ReadList(ctx context.Context, key types.ListKey) (types.ManagedList, error)
		WriteList(ctx context.Context, list types.ManagedList) error
	}

	// StoreFactory returns a ListStore bound to the control plane of region.
	StoreFactory func(ctx context.Context, region string) (ListStore, error)

	Manager interface {
		// BlockAddress adds address to the list identified by key. Blocking an
		// address that is already present is a no-op reported as
		// types.OutcomeAlreadyBlocked.
		BlockAddress(ctx context.Context, address string, key types.ListKey, regionHint string) (types.Result, error)
		Inspect(ctx context.Context, key types.ListKey, regionHint string) (types.ManagedList, error)
	}

	Options struct {
		// MaxAttempts bounds read-decide-write rounds when the list changes
		// between read and write. 1 disables retrying.
		MaxAttempts int
		// DryRun reads and decides but never writes.
		DryRun bool
		// BackOff paces retries. Defaults to exponential backoff.
		BackOff func() backoff.BackOff
	}
)

type manager struct {
	stores     StoreFactory
	policy     endpoint.Policy
	logger     *zap.Logger
	validate   *validator.Validate
	opts       Options
	newBackOff func() backoff.BackOff
}

func NewManager(stores StoreFactory, policy endpoint.Policy, logger *zap.Logger, opts Options) Manager {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	newBackOff := opts.BackOff
	if newBackOff == nil {
		newBackOff = func() backoff.BackOff {
			eback := backoff.NewExponentialBackOff()
			eback.InitialInterval = 200 * time.Millisecond
			eback.MaxInterval = 2 * time.Second
			eback.MaxElapsedTime = 20 * time.Second
			return eback
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &manager{
		stores:     stores,
		policy:     policy,
		logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		opts:       opts,
		newBackOff: newBackOff,
	}
}

func (m *manager) BlockAddress(ctx context.Context, raw string, key types.ListKey, regionHint string) (types.Result, error) {
	result := types.Result{}
	if err := m.validateKey(key); err != nil {
		return result, err
	}

	prefix, err := address.Normalize(raw)
	if err != nil {
		return result, err
	}
	result.Address = prefix.String()

	region, store, err := m.open(ctx, key, regionHint)
	if err != nil {
		return result, err
	}
	result.Region = region

	log := m.logger.With(
		zap.String("invocation", uuid.NewString()),
		zap.Stringer("list", key),
		zap.String("region", region),
		zap.String("address", result.Address),
	)

	operation := func() error {
		result.Attempts++
		log.Debug("reading list", zap.Int("attempt", result.Attempts))

		outcome, err := m.attempt(ctx, store, key, prefix)
		if err != nil {
			return err
		}
		result.Outcome = outcome
		return nil
	}

	retries := uint64(m.opts.MaxAttempts - 1)
	boff := backoff.WithContext(backoff.WithMaxRetries(m.newBackOff(), retries), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn("list changed since it was read, retrying",
			zap.Int("attempt", result.Attempts), zap.Duration("wait", wait), zap.Error(err))
	}

	if err := backoff.RetryNotify(operation, boff, notify); err != nil {
		log.Error("failed to block address", zap.Int("attempts", result.Attempts), zap.Error(err))
		return result, err
	}

	log.Info("address processed", zap.String("outcome", string(result.Outcome)), zap.Int("attempts", result.Attempts))
	return result, nil
}

func (m *manager) Inspect(ctx context.Context, key types.ListKey, regionHint string) (types.ManagedList, error) {
	if err := m.validateKey(key); err != nil {
		return types.ManagedList{}, err
	}

	_, store, err := m.open(ctx, key, regionHint)
	if err != nil {
		return types.ManagedList{}, err
	}

	list, err := store.ReadList(ctx, key)
	if err != nil {
		return types.ManagedList{}, errors.Wrapf(err, "read list %s", key)
	}
	return list, nil
}

// attempt runs one read-decide-write round. Only a conflicting write is
// returned as a retryable error.
func (m *manager) attempt(ctx context.Context, store ListStore, key types.ListKey, prefix netip.Prefix) (types.Outcome, error) {
	list, err := store.ReadList(ctx, key)
	if err != nil {
		return "", backoff.Permanent(errors.Wrapf(err, "read list %s", key))
	}

	if family := address.Family(prefix); list.AddressVersion != "" && list.AddressVersion != family {
		return "", backoff.Permanent(types.NewError("block address", types.ErrValidation,
			errors.Errorf("%s is an %s address but list %s holds %s addresses", prefix, family, key.Name, list.AddressVersion)))
	}

	if lo.ContainsBy(list.Addresses, func(entry string) bool { return address.Equal(entry, prefix) }) {
		return types.OutcomeAlreadyBlocked, nil
	}

	if m.opts.DryRun {
		return types.OutcomeWouldBlock, nil
	}

	updated := make([]string, 0, len(list.Addresses)+1)
	updated = append(updated, list.Addresses...)
	list.Addresses = append(updated, prefix.String())

	if err := store.WriteList(ctx, list); err != nil {
		err = errors.Wrapf(err, "write list %s", key)
		if errors.Is(err, types.ErrConflict) {
			return "", err
		}
		return "", backoff.Permanent(err)
	}
	return types.OutcomeBlocked, nil
}

func (m *manager) open(ctx context.Context, key types.ListKey, regionHint string) (string, ListStore, error) {
	region, err := m.policy.Resolve(key.Scope, regionHint)
	if err != nil {
		return "", nil, err
	}

	store, err := m.stores(ctx, region)
	if err != nil {
		return region, nil, errors.Wrapf(err, "connect to %s", region)
	}
	return region, store, nil
}

func (m *manager) validateKey(key types.ListKey) error {
	if err := m.validate.Struct(key); err != nil {
		var vErrors validator.ValidationErrors
		if errors.As(err, &vErrors) && len(vErrors) > 0 {
			return types.NewError("validate list key", types.ErrValidation,
				errors.Errorf("invalid value for %s", vErrors[0].Field()))
		}
		return types.NewError("validate list key", types.ErrValidation, err)
	}
	return nil
}
