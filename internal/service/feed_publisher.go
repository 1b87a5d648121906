package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/logger"
	"github.com/d60-Lab/filmgraph/pkg/metrics"
)

// FeedPublisher 接收已提交的动态事件
type FeedPublisher interface {
	Enqueue(e model.FeedEvent)
}

type publishJob struct {
	event model.FeedEvent
	enqAt time.Time
}

// StreamPublisher 将动态异步写入 Redis stream feed:{userId}；数据库为准，发布尽力而为
type StreamPublisher struct {
	rdb    redis.UniversalClient
	maxLen int64
	ch     chan publishJob
}

func NewStreamPublisher(rdb redis.UniversalClient, queueSize int, maxLen int64) *StreamPublisher {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &StreamPublisher{rdb: rdb, maxLen: maxLen, ch: make(chan publishJob, queueSize)}
}

// StreamKey 用户动态流的 key
func StreamKey(userID int64) string {
	return fmt.Sprintf("feed:%d", userID)
}

// Start 启动 workers 个消费协程，返回的函数用于停止并排空队列
func (p *StreamPublisher) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-p.ch:
					p.publish(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		wg.Wait()
		// 剩余事件在调用方给的时限内同步写完
		for {
			select {
			case job := <-p.ch:
				p.publish(job)
			case <-ctx.Done():
				if n := len(p.ch); n > 0 {
					logger.Warn("feed publisher stopped with pending events", zap.Int("pending", n))
				}
				return ctx.Err()
			default:
				return nil
			}
		}
	}
}

func (p *StreamPublisher) publish(job publishJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	e := job.event
	err := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(e.UserID),
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]any{
			"eventId":   strconv.FormatInt(e.ID, 10),
			"eventType": string(e.EventType),
			"operation": string(e.Operation),
			"entityId":  strconv.FormatInt(e.EntityID, 10),
			"timestamp": strconv.FormatInt(e.CreatedAt.UnixMilli(), 10),
		},
	}).Err()
	metrics.FeedQueueLength.Set(float64(len(p.ch)))
	if err != nil {
		metrics.FeedPublishedTotal.WithLabelValues("error").Inc()
		logger.Warn("publish feed event failed",
			zap.Int64("event_id", e.ID),
			zap.Int64("user_id", e.UserID),
			zap.Error(err))
		return
	}
	metrics.FeedPublishedTotal.WithLabelValues("ok").Inc()
	metrics.FeedPublishLatency.Observe(time.Since(job.enqAt).Seconds())
}

// Enqueue 队列满时丢弃并告警
func (p *StreamPublisher) Enqueue(e model.FeedEvent) {
	select {
	case p.ch <- publishJob{event: e, enqAt: time.Now()}:
		metrics.FeedQueueLength.Set(float64(len(p.ch)))
	default:
		metrics.FeedPublishedTotal.WithLabelValues("dropped").Inc()
		logger.Warn("feed publisher queue full, drop event",
			zap.Int64("event_id", e.ID),
			zap.Int64("user_id", e.UserID))
	}
}

// QueueLen 当前队列长度（采样值）
func (p *StreamPublisher) QueueLen() int { return len(p.ch) }
