package streams

import (
	"context"
)

// PartitionedQueue fans messages out to a fixed set of lanes. Each lane is meant to be
// drained by exactly one worker, which gives that worker sole ownership of whatever
// state it builds from its messages.
type PartitionedQueue[T any] struct {
	name       string
	partitions []chan T
}

func NewPartitionedQueue[T any](name string, numPartitions, buffer int) *PartitionedQueue[T] {
	if numPartitions < 1 {
		numPartitions = 1
	}
	channels := make([]chan T, numPartitions)
	for i := range channels {
		channels[i] = make(chan T, buffer)
	}
	return &PartitionedQueue[T]{name: name, partitions: channels}
}

func (queue *PartitionedQueue[T]) PartitionCount() int { return len(queue.partitions) }

// Partition returns the receive side of lane i.
func (queue *PartitionedQueue[T]) Partition(i int) <-chan T {
	return queue.partitions[i]
}

// Publish sends msg to lane key modulo the partition count, blocking while the lane is
// full. It gives up when ctx is done.
func (queue *PartitionedQueue[T]) Publish(ctx context.Context, key int, msg T) error {
	if key < 0 {
		key = -key
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case queue.partitions[key%len(queue.partitions)] <- msg:
		metricQueuePublishedTotal.WithLabelValues(queue.name).Inc()
		return nil
	}
}

// Close closes every lane. Publish must not be called afterwards.
func (queue *PartitionedQueue[T]) Close() {
	for _, ch := range queue.partitions {
		close(ch)
	}
}
