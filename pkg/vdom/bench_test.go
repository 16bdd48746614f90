package vdom_test

import (
	"strconv"
	"testing"

	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/vdom"
)

func benchList(n int, reverse bool) *vdom.VNode {
	keys := make([]string, n)
	for i := range keys {
		k := i
		if reverse {
			k = n - 1 - i
		}
		keys[i] = strconv.Itoa(k)
	}
	return keyedList(keys...)
}

func BenchmarkCreate1000(b *testing.B) {
	for i := 0; i < b.N; i++ {
		p := vdom.NewPatcher(memhost.New())
		if _, err := p.Patch(nil, benchList(1000, false)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReverse1000(b *testing.B) {
	host := memhost.New()
	p := vdom.NewPatcher(host)
	tree := benchList(1000, false)
	if _, err := p.Patch(nil, tree); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next := benchList(1000, i%2 == 0)
		if _, err := p.Patch(tree, next); err != nil {
			b.Fatal(err)
		}
		tree = next
	}
}

func BenchmarkNoop1000(b *testing.B) {
	p := vdom.NewPatcher(memhost.New())
	tree := benchList(1000, false)
	if _, err := p.Patch(nil, tree); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		next := benchList(1000, false)
		if _, err := p.Patch(tree, next); err != nil {
			b.Fatal(err)
		}
		tree = next
	}
}
