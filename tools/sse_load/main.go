// Command sse_load opens many concurrent subscriptions to the balance delta stream and reports
// how many delta events they received.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type counters struct {
	connected   atomic.Int64
	connectErrs atomic.Int64
	streamErrs  atomic.Int64
	deltas      atomic.Int64
	heartbeats  atomic.Int64
}

func main() {
	var (
		baseURL      string
		address      string
		connections  int
		testDuration time.Duration
		rampUp       time.Duration
		lastEventID  uint64
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8000/balance/stream", "delta stream endpoint URL")
	flag.StringVar(&address, "address", "", "bitcoin address to subscribe to")
	flag.IntVar(&connections, "conns", 1000, "number of concurrent connections to open")
	flag.DurationVar(&testDuration, "dur", 60*time.Second, "test duration (0 for until interrupted)")
	flag.DurationVar(&rampUp, "ramp", 0, "ramp-up duration (spread connection starts across this window)")
	flag.Uint64Var(&lastEventID, "last-event-id", 0, "resume every stream after this delta index")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if connections <= 0 {
		logger.Fatal("invalid conns", zap.Int("conns", connections))
	}
	if address == "" {
		logger.Fatal("--address is required")
	}

	target, err := url.Parse(baseURL)
	if err != nil {
		logger.Fatal("invalid url", zap.Error(err))
	}
	q := target.Query()
	q.Set("address", address)
	target.RawQuery = q.Encode()

	if rampUp == 0 && connections > 100 {
		// default ramp-up: 1 second per 500 connections
		rampUp = max(time.Duration(connections/500)*time.Second, time.Second)
		logger.Info("no ramp-up given, using default", zap.Duration("ramp", rampUp))
	}

	logger.Info("starting delta stream load",
		zap.String("url", target.String()),
		zap.Int("conns", connections),
		zap.Duration("duration", testDuration),
		zap.Duration("ramp", rampUp),
	)

	transport := &http.Transport{
		MaxConnsPerHost:     connections + 100,
		MaxIdleConns:        connections + 100,
		MaxIdleConnsPerHost: connections + 100,
		DisableCompression:  true,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	client := &http.Client{Transport: transport} // no timeout, streams stay open

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if testDuration > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, testDuration)
		defer stop()
	}

	var (
		c        counters
		wg       sync.WaitGroup
		start    = time.Now()
		interval time.Duration
	)
	if rampUp > 0 {
		interval = rampUp / time.Duration(connections)
	}

	for i := 0; i < connections && ctx.Err() == nil; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			subscribe(ctx, client, target.String(), lastEventID, &c)
		}()
	}

	ticker := time.NewTicker(5 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("status",
					zap.Int64("connected", c.connected.Load()),
					zap.Int64("connect_errs", c.connectErrs.Load()),
					zap.Int64("stream_errs", c.streamErrs.Load()),
					zap.Int64("deltas", c.deltas.Load()),
					zap.Int64("heartbeats", c.heartbeats.Load()),
					zap.Duration("elapsed", time.Since(start).Truncate(time.Second)),
				)
			}
		}
	}()

	wg.Wait()
	cancel()

	elapsed := max(time.Since(start), time.Millisecond)
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d deltas=%d heartbeats=%d elapsed=%s deltas/s=%.2f\n",
		c.connected.Load(),
		c.connectErrs.Load(),
		c.streamErrs.Load(),
		c.deltas.Load(),
		c.heartbeats.Load(),
		elapsed.Truncate(time.Millisecond),
		float64(c.deltas.Load())/elapsed.Seconds(),
	)
}

func subscribe(ctx context.Context, client *http.Client, target string, lastEventID uint64, c *counters) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.connectErrs.Add(1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	if lastEventID > 0 {
		req.Header.Set("Last-Event-ID", fmt.Sprint(lastEventID))
	}

	resp, err := client.Do(req)
	if err != nil {
		c.connectErrs.Add(1)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.connectErrs.Add(1)
		return
	}

	c.connected.Add(1)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				c.streamErrs.Add(1)
			}
			return
		}
		switch line = strings.TrimRight(line, "\r\n"); {
		case line == "event: delta":
			c.deltas.Add(1)
		case strings.HasPrefix(line, ":"):
			c.heartbeats.Add(1)
		}
	}
}
