package main

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/hotkeyd/log2"
)

func TestErrorCounter(t *testing.T) {
	t.Parallel()
	var c errorCounter
	l := log2.NewTest(t, log2.LDebug)
	l.SetErrorFunc(c.Count)
	l.Error(errors.New("device=/dev/input/event3 lost"))
	l.Errorf("bindings line=%d rejected", 4)
	l.Infof("listening devices=%d", 2)
	l.Debugf("press key=%s", "t")
	assert.Equal(t, uint64(2), c.Value())
}
