package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

var errCounterRead = errors.New("counter read failed")

func TestSystemCollector_AllReadsSucceed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockSystemProvider(ctrl)
	provider.EXPECT().CPUPercent(gomock.Any()).Return(37.5, nil)
	provider.EXPECT().MemoryUsedPercent(gomock.Any()).Return(61.2, nil)
	provider.EXPECT().DiskUsage(gomock.Any()).Return([]models.DiskUsage{
		{Drive: "/", UsedPercent: 48.0},
	}, nil)

	c := NewSystem(provider)

	metrics := c.Collect(context.Background())

	assert.True(t, metrics.Available)
	require.NotNil(t, metrics.System)
	require.NotNil(t, metrics.System.CPUPercent)
	require.NotNil(t, metrics.System.MemoryUsedPercent)
	assert.InDelta(t, 37.5, *metrics.System.CPUPercent, 0.001)
	assert.InDelta(t, 61.2, *metrics.System.MemoryUsedPercent, 0.001)
	require.Len(t, metrics.System.Disks, 1)
	assert.Equal(t, "/", metrics.System.Disks[0].Drive)
}

func TestSystemCollector_PartialReadStaysAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockSystemProvider(ctrl)
	provider.EXPECT().CPUPercent(gomock.Any()).Return(0.0, errCounterRead)
	provider.EXPECT().MemoryUsedPercent(gomock.Any()).Return(61.2, nil)
	provider.EXPECT().DiskUsage(gomock.Any()).Return(nil, errCounterRead)

	c := NewSystem(provider)

	metrics := c.Collect(context.Background())

	assert.True(t, metrics.Available)
	require.NotNil(t, metrics.System)

	// The failed CPU read is omitted, not recorded as a 0% measurement.
	assert.Nil(t, metrics.System.CPUPercent)
	require.NotNil(t, metrics.System.MemoryUsedPercent)
	assert.InDelta(t, 61.2, *metrics.System.MemoryUsedPercent, 0.001)
	assert.Empty(t, metrics.System.Disks)
}

func TestSystemCollector_AllReadsFailingIsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := NewMockSystemProvider(ctrl)
	provider.EXPECT().CPUPercent(gomock.Any()).Return(0.0, errCounterRead)
	provider.EXPECT().MemoryUsedPercent(gomock.Any()).Return(0.0, errCounterRead)
	provider.EXPECT().DiskUsage(gomock.Any()).Return(nil, errCounterRead)

	c := NewSystem(provider)

	metrics := c.Collect(context.Background())

	assert.False(t, metrics.Available)
	assert.Equal(t, int64(-1), metrics.ResponseTimeMs)
	assert.Nil(t, metrics.System)
}
