package ping

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	rtts  []time.Duration // zero means timeout
	calls int
	onHit func(seq int)
}

func (f *fakeProber) Probe(ctx context.Context, seq int) (Reply, error) {
	f.calls++
	if f.onHit != nil {
		f.onHit(seq)
	}
	rtt := f.rtts[(seq-1)%len(f.rtts)]
	if rtt == 0 {
		return Reply{}, ErrTimeout
	}
	return Reply{Seq: seq, Addr: "127.0.0.1", RTT: rtt, TTL: 64}, nil
}

func TestStats(t *testing.T) {
	var s Stats
	s.Add(Reply{RTT: 10 * time.Millisecond}, true)
	s.Add(Reply{}, false)
	s.Add(Reply{RTT: 30 * time.Millisecond}, true)
	s.Add(Reply{RTT: 20 * time.Millisecond}, true)

	assert.Equal(t, 4, s.Sent)
	assert.Equal(t, 3, s.Received)
	assert.Equal(t, 10*time.Millisecond, s.Min)
	assert.Equal(t, 30*time.Millisecond, s.Max)
	assert.Equal(t, 20*time.Millisecond, s.Avg())
	assert.InDelta(t, 25.0, s.Loss(), 1e-9)
	assert.Equal(t, []string{
		"--- example.com ping statistics ---",
		"4 packets transmitted, 3 received, 25.0% packet loss",
		"rtt min/avg/max = 10.0/20.0/30.0 ms",
	}, s.Summary("example.com"))
}

func TestStatsNothingReceived(t *testing.T) {
	var s Stats
	s.Add(Reply{}, false)
	assert.Len(t, s.Summary("h"), 2)
	assert.Equal(t, 100.0, s.Loss())
	assert.Zero(t, Stats{}.Loss())
}

func TestRunStopsAtCount(t *testing.T) {
	p := &fakeProber{rtts: []time.Duration{time.Millisecond, 0}}
	var replies, failures int
	st := Run(context.Background(), p, Options{
		Count:    3,
		Interval: time.Millisecond,
		OnReply:  func(Reply) { replies++ },
		OnError:  func(int, error) { failures++ },
	})
	require.Equal(t, 3, p.calls)
	assert.Equal(t, 3, st.Sent)
	assert.Equal(t, 2, st.Received)
	assert.Equal(t, 2, replies)
	assert.Equal(t, 1, failures)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &fakeProber{rtts: []time.Duration{time.Millisecond}}
	p.onHit = func(seq int) {
		if seq == 2 {
			cancel()
		}
	}
	st := Run(ctx, p, Options{Interval: time.Millisecond})
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, 2, st.Sent)
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakeProber{rtts: []time.Duration{time.Millisecond}}
	st := Run(ctx, p, Options{Count: 5})
	assert.Zero(t, p.calls)
	assert.Zero(t, st.Sent)
}
