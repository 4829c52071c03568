//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rivr-station-service/internal/domain"
)

// Публикует запрос прогрева станции и ждёт ответ воркера:
//
//	go run scripts/test_publish.go -station 500
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	stationID := flag.Int64("station", 500, "Station ID to prefetch")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// позиция до публикации, чтобы не читать старые ответы
	start := "0"
	if last, err := client.XRevRangeN(ctx, domain.StreamStationRefreshed, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		start = last[0].ID
	}

	event := domain.NewStationRefreshEvent(*stationID, "script", domain.RefreshReasonManual)
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamStationRefresh,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published refresh request\n")
	fmt.Printf("   Stream: %s\n", domain.StreamStationRefresh)
	fmt.Printf("   Message ID: %s\n", id)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Station: %d\n", event.StationID)

	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamStationRefreshed)

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamStationRefreshed, start},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil {
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				start = msg.ID

				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}
				var done domain.StationRefreshedEvent
				if err := json.Unmarshal([]byte(raw), &done); err != nil {
					continue
				}
				if done.RequestID != event.RequestID {
					continue
				}

				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("\nResponse received:\n%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}
