package rules_test

import (
	"sync/atomic"

	"github.com/thoreinstein/rulebook/pkg/rules"
)

const (
	kindRequired rules.Kind = "required"
	kindPhone    rules.Kind = "phone_number"
	kindCustom   rules.Kind = "custom"
)

// countingProvider wraps a provider and counts scans.
type countingProvider struct {
	rules.Provider
	scans atomic.Int32
	gate  chan struct{}
}

func (c *countingProvider) Funcs() []rules.Func {
	c.scans.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.Provider.Funcs()
}

// recorder builds rule functions that log their invocation order.
type recorder struct {
	calls []string
}

func (r *recorder) fn(name, message string, kinds ...rules.Kind) rules.Func {
	return rules.Check(name, func(string) string {
		r.calls = append(r.calls, name)
		return message
	}, kinds...)
}

func names(fns []rules.Func) []string {
	out := make([]string, len(fns))
	for i, fn := range fns {
		out[i] = fn.Name
	}
	return out
}
