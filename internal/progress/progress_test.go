package progress

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerConcurrentTicks(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker("Analyzing", 50, WithWriter(&buf))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Tick()
		}()
	}
	wg.Wait()
	tr.Finish()

	assert.Contains(t, buf.String(), "Analyzing")
}

func TestDisabledTrackerIsSilent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker("Analyzing", 10, WithWriter(&buf), WithEnabled(false))
	tr.Tick()
	tr.Finish()

	sp := NewSpinner("Scanning", WithWriter(&buf), WithEnabled(false))
	sp.Tick()
	sp.Finish()

	assert.Empty(t, buf.String())
}

func TestNilTracker(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() {
		tr.Tick()
		tr.Finish()
	})
}

func TestEmptyTotalDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracker("Analyzing", 0, WithWriter(&buf))
	tr.Tick()
	tr.Finish()
	assert.Empty(t, buf.String())
}
