package stores

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"burnout-chart/internal/models"
	"burnout-chart/internal/shared/filestorages"
)

var (
	ErrSeriesNotFound = errors.New("series not found")
	ErrSeriesCorrupt  = errors.New("series file is not a valid data point array")
)

//go:generate mockgen -source=series_store.go -destination=./mocks/series_store_mock.go -package=mocks
type SeriesStore interface {
	// Save writes series as an indented JSON array, replacing any previous file.
	Save(ctx context.Context, key string, series []*models.DataPoint) (*filestorages.PutResult, error)
	// Load reads a series back in the order it was saved.
	Load(ctx context.Context, key string) ([]*models.DataPoint, error)
}

type seriesStore struct {
	fileStorage filestorages.FileStorage
}

func NewSeriesStore(fileStorage filestorages.FileStorage) SeriesStore {
	return &seriesStore{fileStorage: fileStorage}
}

func (s *seriesStore) Save(ctx context.Context, key string, series []*models.DataPoint) (*filestorages.PutResult, error) {
	if series == nil {
		series = []*models.DataPoint{}
	}
	jsonData, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal series: %w", err)
	}

	result, err := s.fileStorage.Put(ctx, key, bytes.NewReader(jsonData), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return nil, fmt.Errorf("failed to put series: %w", err)
	}
	return result, nil
}

func (s *seriesStore) Load(ctx context.Context, key string) ([]*models.DataPoint, error) {
	readCloser, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSeriesNotFound, key)
		}
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}

	var series []*models.DataPoint
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeriesCorrupt, err)
	}

	points := series[:0]
	for _, p := range series {
		if p != nil {
			points = append(points, p)
		}
	}
	return points, nil
}
