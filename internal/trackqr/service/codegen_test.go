package service

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeFormat = regexp.MustCompile(`^IR\d{16}$`)

func TestCodeGenerator_Format(t *testing.T) {
	gen := NewCodeGenerator()
	for i := 0; i < 100; i++ {
		code := gen.Generate()
		require.Regexp(t, codeFormat, code)
	}
}

func TestCodeGenerator_Layout(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	gen := NewCodeGeneratorWith(func() time.Time { return at }, func() int { return 7 })
	assert.Equal(t, "IR1700000000123007", gen.Generate())

	gen = NewCodeGeneratorWith(func() time.Time { return at }, func() int { return 1999 })
	assert.Equal(t, "IR1700000000123999", gen.Generate(), "suffix stays three digits")
}

func TestCodeGenerator_Concurrent(t *testing.T) {
	gen := NewCodeGenerator()
	var wg sync.WaitGroup
	codes := make(chan string, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes <- gen.Generate()
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Regexp(t, codeFormat, code)
	}
}
