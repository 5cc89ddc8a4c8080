// Package ping sends ICMP echo requests and collects round-trip statistics.
package ping

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// Reply is a successful echo reply.
type Reply struct {
	Seq  int
	Addr string
	RTT  time.Duration
	TTL  int
}

// Prober sends one echo request and waits for its reply.
type Prober interface {
	Probe(ctx context.Context, seq int) (Reply, error)
}

// ErrTimeout is returned by probers when no reply arrives in time.
var ErrTimeout = errors.New("request timed out")

// Stats summarizes a ping run.
type Stats struct {
	Sent     int
	Received int
	Min      time.Duration
	Max      time.Duration
	total    time.Duration
}

// Add records one probe; reply is ignored when ok is false.
func (s *Stats) Add(r Reply, ok bool) {
	s.Sent++
	if !ok {
		return
	}
	if s.Received == 0 || r.RTT < s.Min {
		s.Min = r.RTT
	}
	if r.RTT > s.Max {
		s.Max = r.RTT
	}
	s.Received++
	s.total += r.RTT
}

// Loss returns the percentage of probes without reply.
func (s Stats) Loss() float64 {
	if s.Sent == 0 {
		return 0
	}
	return float64(s.Sent-s.Received) / float64(s.Sent) * 100
}

// Avg returns the mean round-trip time of received replies.
func (s Stats) Avg() time.Duration {
	if s.Received == 0 {
		return 0
	}
	return s.total / time.Duration(s.Received)
}

// Summary formats the statistics block printed after a run.
func (s Stats) Summary(host string) []string {
	out := []string{
		fmt.Sprintf("--- %s ping statistics ---", host),
		fmt.Sprintf("%d packets transmitted, %d received, %.1f%% packet loss", s.Sent, s.Received, s.Loss()),
	}
	if s.Received > 0 {
		out = append(out, fmt.Sprintf("rtt min/avg/max = %.1f/%.1f/%.1f ms", ms(s.Min), ms(s.Avg()), ms(s.Max)))
	}
	return out
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Options controls Run. Count <= 0 means until ctx is cancelled.
type Options struct {
	Count    int
	Interval time.Duration
	// OnReply and OnError observe each probe as it completes.
	OnReply func(Reply)
	OnError func(seq int, err error)
}

// Run probes once per interval until Count probes were sent or ctx is
// done, and returns the collected statistics.
func Run(ctx context.Context, p Prober, o Options) Stats {
	if o.Interval <= 0 {
		o.Interval = time.Second
	}
	var st Stats
	for seq := 1; o.Count <= 0 || seq <= o.Count; seq++ {
		if ctx.Err() != nil {
			break
		}
		r, err := p.Probe(ctx, seq)
		if err != nil && ctx.Err() != nil {
			break
		}
		st.Add(r, err == nil)
		switch {
		case err != nil && o.OnError != nil:
			o.OnError(seq, err)
		case err == nil && o.OnReply != nil:
			o.OnReply(r)
		}
		if o.Count > 0 && seq == o.Count {
			break
		}
		t := time.NewTimer(o.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return st
		case <-t.C:
		}
	}
	return st
}

func echoID() int { return os.Getpid() & 0xffff }
