package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/sinuous/internal/speaker"
	"github.com/llehouerou/sinuous/internal/zone"
)

var (
	groupA = zone.Group{ID: "A", Coordinator: zone.Member{ID: "A", Name: "Kitchen", Address: "10.0.0.1:1400"}}
	groupB = zone.Group{ID: "B", Coordinator: zone.Member{ID: "B", Name: "Office", Address: "10.0.0.2:1400"}}
)

func submitAsync(d *Dispatcher, g zone.Group, cmd speaker.Command) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() { ch <- d.Submit(context.Background(), g, cmd) }()
	synctest.Wait()
	return ch
}

func failureKind(t *testing.T, err error) FailureKind {
	t.Helper()
	var f *Failure
	require.ErrorAs(t, err, &f)
	return f.Kind
}

func TestSubmit_Success(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		d := New(svc, Options{})
		defer d.Close()

		o := d.Submit(context.Background(), groupA, speaker.Play())

		assert.True(t, o.OK())
		assert.Equal(t, "A", o.GroupID)
		assert.Equal(t, speaker.Play(), o.Command)
		assert.Equal(t, []speaker.CommandCall{{GroupID: "A", Command: speaker.Play()}}, svc.Commands())
	})
}

func TestSubmit_RepeatedCommandCoalescesIntoOneCall(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		first := submitAsync(d, groupA, speaker.Play())
		<-svc.Started()
		second := submitAsync(d, groupA, speaker.Play())
		third := submitAsync(d, groupA, speaker.Play())

		release()
		for _, ch := range []<-chan Outcome{first, second, third} {
			o := <-ch
			assert.True(t, o.OK())
		}
		assert.Len(t, svc.Commands(), 1)
	})
}

func TestSubmit_TogglesCollapseToLatestState(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		play := submitAsync(d, groupA, speaker.Play())
		<-svc.Started()
		pause := submitAsync(d, groupA, speaker.Pause())
		playAgain := submitAsync(d, groupA, speaker.Play())

		assert.ErrorIs(t, (<-pause).Err, ErrSuperseded)
		release()
		assert.True(t, (<-play).OK())
		assert.True(t, (<-playAgain).OK())

		calls := svc.Commands()
		require.Len(t, calls, 1)
		assert.Equal(t, speaker.Play(), calls[0].Command)
	})
}

func TestSubmit_LatestWins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		v10 := submitAsync(d, groupA, speaker.SetVolume(10))
		<-svc.Started()
		v20 := submitAsync(d, groupA, speaker.SetVolume(20))
		v30 := submitAsync(d, groupA, speaker.SetVolume(30))

		assert.ErrorIs(t, (<-v20).Err, ErrSuperseded)
		release()
		assert.True(t, (<-v10).OK())
		<-svc.Started()
		assert.True(t, (<-v30).OK())

		calls := svc.Commands()
		require.Len(t, calls, 2)
		assert.Equal(t, 10, calls[0].Command.Volume)
		assert.Equal(t, 30, calls[1].Command.Volume)
	})
}

func TestSubmit_EqualPendingJoins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		submitAsync(d, groupA, speaker.Play())
		<-svc.Started()
		n1 := submitAsync(d, groupA, speaker.Next())
		n2 := submitAsync(d, groupA, speaker.Next())

		release()
		assert.True(t, (<-n1).OK())
		assert.True(t, (<-n2).OK())
		assert.Len(t, svc.Commands(), 2)
	})
}

func TestSubmit_GroupsAreIndependent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		a := submitAsync(d, groupA, speaker.Play())
		b := submitAsync(d, groupB, speaker.Pause())

		started := map[string]bool{}
		started[(<-svc.Started()).GroupID] = true
		started[(<-svc.Started()).GroupID] = true
		assert.Equal(t, map[string]bool{"A": true, "B": true}, started)

		release()
		assert.True(t, (<-a).OK())
		assert.True(t, (<-b).OK())
	})
}

func TestSubmit_FailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"rejected", errors.New("UPnP fault 701"), Rejected},
		{"unreachable", fmt.Errorf("dial: %w", speaker.ErrUnreachable), Unreachable},
		{"deadline", context.DeadlineExceeded, Unreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				svc := speaker.NewMock()
				svc.SetCommandErr(tt.err)
				d := New(svc, Options{})
				defer d.Close()

				o := d.Submit(context.Background(), groupA, speaker.Next())

				require.False(t, o.OK())
				assert.Equal(t, tt.want, failureKind(t, o.Err))
				assert.ErrorIs(t, o.Err, tt.err)
			})
		})
	}
}

func TestSubmit_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		defer release()
		d := New(svc, Options{Timeout: 3 * time.Second})
		defer d.Close()

		start := time.Now()
		o := d.Submit(context.Background(), groupA, speaker.Play())

		assert.Equal(t, 3*time.Second, time.Since(start))
		assert.Equal(t, Unreachable, failureKind(t, o.Err))
	})
}

func TestCancelGroup(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		defer release()
		d := New(svc, Options{})
		defer d.Close()

		inflight := submitAsync(d, groupA, speaker.Play())
		<-svc.Started()
		pending := submitAsync(d, groupA, speaker.SetVolume(40))
		other := submitAsync(d, groupB, speaker.Pause())
		<-svc.Started()

		d.CancelGroup("A")

		assert.Equal(t, Canceled, failureKind(t, (<-pending).Err))
		assert.Equal(t, Canceled, failureKind(t, (<-inflight).Err))
		select {
		case <-other:
			t.Fatal("other group must not be affected")
		default:
		}
		assert.Len(t, svc.Commands(), 2, "pending command never sent")

		d.CancelGroup("unknown")
		release()
		assert.True(t, (<-other).OK())
	})
}

func TestSubmit_CallerContextCanceled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		release := svc.HoldCommands()
		d := New(svc, Options{})
		defer d.Close()

		ctx, cancel := context.WithCancel(context.Background())
		ch := make(chan Outcome, 1)
		go func() { ch <- d.Submit(ctx, groupA, speaker.Play()) }()
		<-svc.Started()

		cancel()
		assert.Equal(t, Canceled, failureKind(t, (<-ch).Err))
		release()
	})
}

func TestClose_RejectsNewSubmissions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc := speaker.NewMock()
		d := New(svc, Options{})
		d.Close()

		o := d.Submit(context.Background(), groupA, speaker.Play())
		assert.Equal(t, Canceled, failureKind(t, o.Err))
		assert.Empty(t, svc.Commands())
	})
}
