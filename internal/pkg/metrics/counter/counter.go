package counter

import (
	"context"
	"strconv"

	"github.com/adlcare/paygate/internal/pkg/cache"
)

const (
	paymentsSucceededKey = "payments:counters:succeeded"
	paymentsFailedKey    = "payments:counters:failed"
)

// AddPaymentSucceeded increments the success counter for a provider in Redis
func AddPaymentSucceeded(method string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, paymentsSucceededKey, method, 1).Err()
}

// AddPaymentFailed increments the failure counter for a provider in Redis
func AddPaymentFailed(method string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, paymentsFailedKey, method, 1).Err()
}

// Totals returns the per-provider success and failure counts.
func Totals() (succeeded map[string]int64, failed map[string]int64, err error) {
	ctx := context.Background()

	succeeded, err = readHash(ctx, paymentsSucceededKey)
	if err != nil {
		return nil, nil, err
	}
	failed, err = readHash(ctx, paymentsFailedKey)
	if err != nil {
		return nil, nil, err
	}
	return succeeded, failed, nil
}

func readHash(ctx context.Context, key string) (map[string]int64, error) {
	raw, err := cache.GetClient().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, perr := strconv.ParseInt(value, 10, 64)
		if perr != nil {
			continue
		}
		counts[field] = n
	}
	return counts, nil
}
