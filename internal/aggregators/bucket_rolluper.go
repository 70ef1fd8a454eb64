package aggregators

import (
	"fmt"
	"sort"

	"burnout-chart/internal/models"
)

//go:generate mockgen -source=bucket_rolluper.go -destination=./mocks/bucket_rolluper_mock.go -package=mocks
type BucketRolluper interface {
	// Rollup groups a per-second series into buckets of unit, ordered by key.
	// An empty series yields an empty result.
	Rollup(series []*models.DataPoint, unit models.TimeUnit) ([]models.RollupBucket, error)
}

type bucketRolluper struct{}

func NewBucketRolluper() BucketRolluper {
	return &bucketRolluper{}
}

func (r *bucketRolluper) Rollup(series []*models.DataPoint, unit models.TimeUnit) ([]models.RollupBucket, error) {
	switch unit {
	case models.UnitHour, models.UnitMinute, models.UnitSecond:
	default:
		return nil, errInvalidTimeUnit(unit)
	}
	if len(series) == 0 {
		return []models.RollupBucket{}, nil
	}

	byKey := make(map[string]*models.DataPoint)
	for i, p := range series {
		if p == nil {
			return nil, errInternalBucketRollupFailed(fmt.Errorf("nil data point at index %d", i))
		}

		key := unit.BucketKey(p.Time)
		agg, exists := byKey[key]
		if !exists {
			agg = models.NewDataPoint(unit.Truncate(p.Time))
			byKey[key] = agg
		}
		agg.Merge(p)
	}

	// Keys are fixed width, so sorting them sorts by time.
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]models.RollupBucket, 0, len(keys))
	for _, k := range keys {
		buckets = append(buckets, models.RollupBucket{Key: k, Point: byKey[k]})
	}
	return buckets, nil
}
