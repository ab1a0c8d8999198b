package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/dodam/config"
	"github.com/d60-Lab/dodam/internal/model"
	"github.com/d60-Lab/dodam/internal/repository"
	"github.com/d60-Lab/dodam/internal/service"
	"github.com/d60-Lab/dodam/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 { return 0 }
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 { k = 0 }
	if k >= len(xs) { k = len(xs)-1 }
	return xs[k]
}

// 本地基准：N 个在线订阅者，投递 M 条通知，统计落库+推送端到端耗时
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := service.NewNotificationService(notificationRepo, userRepo)
	dispatcher := service.NewDispatcher(notificationRepo, notifier, 100000)

	N := 1000   // subscribers
	M := 10000  // notifications
	WORKERS := 4
	if s := os.Getenv("N"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { N = v } }
	if s := os.Getenv("M"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { M = v } }
	if s := os.Getenv("WORKERS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { WORKERS = v } }

	ctx := context.Background()

	// seed subscribers
	users := make([]model.User, N)
	for i := range users {
		users[i] = model.User{
			ID:       uuid.New().String(),
			Email:    fmt.Sprintf("u%05d@example.com", i),
			Nickname: fmt.Sprintf("u%05d", i),
			Password: "p",
		}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil { panic(err) }

	streams := make([]*service.Stream, N)
	for i, u := range users {
		streams[i] = must(notifier.Subscribe(ctx, u.ID))
	}

	// drain all streams so buffers never fill up
	var wg sync.WaitGroup
	delivered := make(chan struct{}, M)
	for _, st := range streams {
		wg.Add(1)
		go func(st *service.Stream) {
			defer wg.Done()
			for {
				select {
				case <-st.Events():
					delivered <- struct{}{}
				case <-st.Done():
					return
				}
			}
		}(st)
	}

	stop := dispatcher.Start(WORKERS)

	start := time.Now()
	for i := 0; i < M; i++ {
		dispatcher.Enqueue(users[i%N].ID, fmt.Sprintf("bench notification %d", i))
	}
	for i := 0; i < M; i++ { <-delivered }
	elapsed := time.Since(start)

	lats := make([]time.Duration, 0, M)
	for len(lats) < M {
		select {
		case d := <-dispatcher.Metrics():
			lats = append(lats, d)
		case <-time.After(time.Second):
			// metrics 通道是尽力而为的，采不满就用已有样本
			goto report
		}
	}
report:
	_ = stop(ctx)
	for i, st := range streams { notifier.Unsubscribe(users[i].ID, st) }
	wg.Wait()

	var sum time.Duration
	for _, d := range lats { sum += d }
	fmt.Printf("N=%d M=%d WORKERS=%d\n", N, M, WORKERS)
	fmt.Printf("throughput: %.0f notifications/s\n", float64(M)/elapsed.Seconds())
	if len(lats) > 0 {
		fmt.Printf("latency: avg=%v p95=%v p99=%v (samples=%d)\n",
			sum/time.Duration(len(lats)), pct(lats, 0.95), pct(lats, 0.99), len(lats))
	}
}
