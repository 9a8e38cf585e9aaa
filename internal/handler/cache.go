package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func schedulingResultCacheKey(id int64) string {
	return fmt.Sprintf("scheduling_result_%d", id)
}

func (h *Handler) cacheSchedulingResult(result *domain.SchedulingResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	expiration := time.Duration(h.config.Redis.ResultExpiration) * time.Second
	return h.redisClient.Set(ctx, schedulingResultCacheKey(result.ID), data, expiration).Err()
}

// getCachedSchedulingResult 缓存未命中时返回 nil, nil
func (h *Handler) getCachedSchedulingResult(id int64) (*domain.SchedulingResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	data, err := h.redisClient.Get(ctx, schedulingResultCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	result := &domain.SchedulingResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Handler) deleteCachedSchedulingResults(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = schedulingResultCacheKey(id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, keys...).Err()
}
